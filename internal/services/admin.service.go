package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/auth"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/repository"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
	"github.com/nimasrn/storefront-backoffice/pkg/redis"
)

var (
	ErrNoToken         = errors.New("no bearer token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrRoleCheckFailed = errors.New("role check failed")
	ErrNoProfile       = errors.New("no profile for token subject")
	ErrNotAdmin        = errors.New("user is not an admin")
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ProfileCache keeps recently resolved admin profiles so every admin request
// does not hit the users table.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*model.User, bool)
	Set(ctx context.Context, user *model.User)
}

type AdminService struct {
	verifier TokenVerifier
	users    UserRepository
	cache    ProfileCache
}

// NewAdminService builds the admin resolver. cache may be nil.
func NewAdminService(verifier TokenVerifier, users UserRepository, cache ProfileCache) *AdminService {
	return &AdminService{
		verifier: verifier,
		users:    users,
		cache:    cache,
	}
}

// Resolve maps a bearer token to an admin profile. The returned error is one
// of ErrNoToken, ErrInvalidToken, ErrRoleCheckFailed, ErrNoProfile or
// ErrNotAdmin.
func (s *AdminService) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if s.cache != nil {
		if u, ok := s.cache.Get(ctx, claims.Subject); ok {
			return u, nil
		}
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrNoProfile
	}
	profile, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNoProfile
		}
		logger.Error("[admin] role check failed", "user_id", id, "error", err)
		return nil, errors.Join(ErrRoleCheckFailed, err)
	}
	if !profile.IsAdmin() {
		return nil, ErrNotAdmin
	}

	if s.cache != nil {
		s.cache.Set(ctx, profile)
	}
	return profile, nil
}

// RedisProfileCache remembers which subjects resolved to an admin, under
// admin:profile:<id>. Only id and role are kept; a hit yields a profile with
// just those two fields. A zero ttl disables it.
type RedisProfileCache struct {
	rdb redis.RedisAdapter
	ttl time.Duration
}

type cachedRole struct {
	ID   uuid.UUID  `json:"id"`
	Role model.Role `json:"role"`
}

func NewRedisProfileCache(rdb redis.RedisAdapter, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{rdb: rdb, ttl: ttl}
}

func (c *RedisProfileCache) key(userID string) string {
	return "admin:profile:" + userID
}

func (c *RedisProfileCache) Get(ctx context.Context, userID string) (*model.User, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(userID))
	if err != nil {
		if !errors.Is(err, redis.NilError) {
			logger.Warn("[admin] profile cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var entry cachedRole
	if err := json.Unmarshal(raw, &entry); err != nil || entry.ID == uuid.Nil {
		return nil, false
	}
	return &model.User{ID: entry.ID, Role: entry.Role}, true
}

func (c *RedisProfileCache) Set(ctx context.Context, user *model.User) {
	if c == nil || c.ttl <= 0 || user == nil {
		return
	}
	raw, err := json.Marshal(cachedRole{ID: user.ID, Role: user.Role})
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(user.ID.String()), raw, c.ttl); err != nil {
		logger.Warn("[admin] profile cache write failed", "user_id", user.ID, "error", err)
	}
}
