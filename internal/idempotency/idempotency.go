// Package idempotency lets clients retry non-idempotent POSTs safely. A
// request carrying an Idempotency-Key is executed at most once per key; later
// requests with the same key get the stored response back.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/storefront-backoffice/pkg/logger"
	"github.com/nimasrn/storefront-backoffice/pkg/redis"
)

const HeaderKey = "Idempotency-Key"

// HeaderReplayed is set on responses served from the store.
const HeaderReplayed = "Idempotent-Replayed"

var (
	ErrInFlight          = errors.New("a request with this idempotency key is in progress")
	ErrLockAcquireFailed = errors.New("failed to acquire idempotency lock")
	ErrKeyTooLong        = errors.New("idempotency key too long")
)

const maxKeyLen = 255

type Config struct {
	LockTTL time.Duration

	ResultTTL time.Duration

	LockKeyPrefix string

	ResultKeyPrefix string
}

func DefaultConfig() Config {
	return Config{
		LockTTL:         30 * time.Second,
		ResultTTL:       24 * time.Hour,
		LockKeyPrefix:   "idem:lock:",
		ResultKeyPrefix: "idem:result:",
	}
}

// Response is what gets replayed for a completed key.
type Response struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type Guard struct {
	redis  redis.RedisAdapter
	config Config
}

func NewGuard(redisAdapter redis.RedisAdapter, config Config) *Guard {
	return &Guard{
		redis:  redisAdapter,
		config: config,
	}
}

// Claim is held by the one request allowed to execute for a key.
type Claim struct {
	key  string
	done bool
}

// Begin either claims key for execution or returns the response stored by
// the request that already completed it. ErrInFlight means another request
// holds the claim right now.
func (g *Guard) Begin(ctx context.Context, scope, key string) (*Claim, *Response, error) {
	if len(key) > maxKeyLen {
		return nil, nil, ErrKeyTooLong
	}
	full := scope + ":" + key

	raw, err := g.redis.Get(ctx, g.config.ResultKeyPrefix+full)
	switch {
	case err == nil:
		var resp Response
		if jerr := json.Unmarshal(raw, &resp); jerr == nil {
			logger.Info("[idempotency] replaying stored response", "key", full, "status", resp.Status)
			return nil, &resp, nil
		}
		logger.Warn("[idempotency] discarding unreadable stored response", "key", full)
	case !errors.Is(err, redis.NilError):
		return nil, nil, fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}

	lockValue := []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
	acquired, err := g.redis.SetNX(ctx, g.config.LockKeyPrefix+full, lockValue, g.config.LockTTL)
	if err != nil {
		logger.Error("[idempotency] failed to acquire lock", "key", full, "error", err)
		return nil, nil, fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	if !acquired {
		return nil, nil, ErrInFlight
	}
	claim := &Claim{key: full}

	// A holder may have completed between the lookup above and SETNX.
	raw, err = g.redis.Get(ctx, g.config.ResultKeyPrefix+full)
	switch {
	case err == nil:
		var resp Response
		if jerr := json.Unmarshal(raw, &resp); jerr == nil {
			g.release(ctx, claim)
			logger.Info("[idempotency] replaying response stored while claiming", "key", full, "status", resp.Status)
			return nil, &resp, nil
		}
	case !errors.Is(err, redis.NilError):
		g.release(ctx, claim)
		return nil, nil, fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	return claim, nil, nil
}

// Complete stores resp for replay and releases the claim.
func (g *Guard) Complete(ctx context.Context, c *Claim, resp Response) error {
	if c == nil || c.done {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := g.redis.Set(ctx, g.config.ResultKeyPrefix+c.key, raw, g.config.ResultTTL); err != nil {
		logger.Error("[idempotency] failed to store response", "key", c.key, "error", err)
		return fmt.Errorf("store idempotent response: %w", err)
	}
	g.release(ctx, c)
	return nil
}

// Abandon releases the claim without storing anything, so the key can be
// reused. Used when the request was rejected before any write.
func (g *Guard) Abandon(ctx context.Context, c *Claim) {
	if c == nil || c.done {
		return
	}
	g.release(ctx, c)
}

func (g *Guard) release(ctx context.Context, c *Claim) {
	if err := g.redis.Del(ctx, g.config.LockKeyPrefix+c.key); err != nil {
		logger.Warn("[idempotency] failed to release lock", "key", c.key, "error", err)
	}
	c.done = true
}
