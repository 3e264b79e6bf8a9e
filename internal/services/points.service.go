package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/repository"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
	"github.com/nimasrn/storefront-backoffice/pkg/prom"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Search(ctx context.Context, f model.UserFilter) ([]*model.User, error)
	AddPoints(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
}

type PointAdjustmentRepository interface {
	Create(ctx context.Context, adj *model.PointAdjustment) error
	ListUnexpiredGrants(ctx context.Context, userID uuid.UUID, now time.Time) ([]*model.PointAdjustment, error)
}

// ExpiryParser turns the free-form expires_at field into an instant. A nil
// instant with a nil error means the grant never expires.
type ExpiryParser interface {
	ParseOptional(raw *string) (*time.Time, error)
}

// PartialAdjustmentError is returned when the ledger row was appended but the
// cached balance could not be incremented. The ledger is the source of truth;
// the cached users.points is stale until repaired.
type PartialAdjustmentError struct {
	AdjustmentID uuid.UUID
	UserID       uuid.UUID
	Err          error
}

func (e *PartialAdjustmentError) Error() string {
	return fmt.Sprintf("adjustment %s recorded but balance of user %s not updated: %v", e.AdjustmentID, e.UserID, e.Err)
}

func (e *PartialAdjustmentError) Unwrap() error { return e.Err }

func (e *PartialAdjustmentError) Is(target error) bool {
	return target == ErrBalanceNotUpdated || target == ErrPersistence
}

type PointsService struct {
	users       UserRepository
	adjustments PointAdjustmentRepository
	expiry      ExpiryParser
	now         func() time.Time
}

func NewPointsService(users UserRepository, adjustments PointAdjustmentRepository, expiry ExpiryParser) *PointsService {
	return &PointsService{
		users:       users,
		adjustments: adjustments,
		expiry:      expiry,
		now:         time.Now,
	}
}

// RecordAdjustment appends one ledger entry and then moves the cached balance
// by the same delta. Every validation runs before the first write.
func (s *PointsService) RecordAdjustment(ctx context.Context, req model.AdjustmentCreateRequest) (*model.AdjustmentResult, error) {
	rawID := strings.TrimSpace(req.UserID)
	if rawID == "" {
		return nil, ErrMissingUserID
	}
	if req.Delta == 0 {
		return nil, ErrInvalidDelta
	}
	expiresAt, err := s.expiry.ParseOptional(req.ExpiresAt)
	if err != nil {
		return nil, ErrInvalidExpiry
	}

	user, err := s.lookupUser(ctx, rawID)
	if err != nil {
		return nil, err
	}

	adj := &model.PointAdjustment{
		UserID:    user.ID,
		Delta:     req.Delta,
		Reason:    strings.TrimSpace(req.Reason),
		ExpiresAt: expiresAt,
	}
	if err := s.adjustments.Create(ctx, adj); err != nil {
		prom.PointsFailure("append")
		return nil, persistence("append adjustment", err)
	}
	prom.PointsAdjusted(adj.Delta)

	balance, err := s.users.AddPoints(ctx, user.ID, adj.Delta)
	if err != nil {
		prom.PointsFailure("balance")
		logger.Error("[points] balance_update_failed",
			"user_id", user.ID, "adjustment_id", adj.ID, "delta", adj.Delta, "error", err)
		return nil, &PartialAdjustmentError{AdjustmentID: adj.ID, UserID: user.ID, Err: err}
	}

	logger.Info("[points] adjustment recorded",
		"user_id", user.ID, "adjustment_id", adj.ID, "delta", adj.Delta, "points", balance)

	return &model.AdjustmentResult{
		AdjustmentID: adj.ID,
		UserID:       user.ID,
		Points:       balance,
	}, nil
}

// Summarize reports the cached balance and the still-valid grants grouped by
// the instant they lapse. It is a point-in-time read with no isolation.
func (s *PointsService) Summarize(ctx context.Context, userID string) (*model.PointsSummary, error) {
	rawID := strings.TrimSpace(userID)
	if rawID == "" {
		return nil, ErrMissingUserID
	}

	user, err := s.lookupUser(ctx, rawID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	grants, err := s.adjustments.ListUnexpiredGrants(ctx, user.ID, now)
	if err != nil {
		prom.PointsFailure("summary")
		return nil, persistence("list grants", err)
	}

	buckets := GroupExpiringGrants(grants, now)
	summary := &model.PointsSummary{
		User:           user,
		ExpiringByDate: buckets,
	}
	if len(buckets) > 0 {
		first := buckets[0]
		summary.NextExpiring = &first
	}
	return summary, nil
}

// GroupExpiringGrants sums positive grants that expire after now by their
// exact expiry instant, earliest first. Deductions and grants without an
// expiry are ignored.
func GroupExpiringGrants(grants []*model.PointAdjustment, now time.Time) []model.ExpiringBucket {
	sums := make(map[[2]int64]*model.ExpiringBucket)
	buckets := make([]model.ExpiringBucket, 0, len(grants))
	for _, g := range grants {
		if g == nil || g.Delta <= 0 || g.ExpiresAt == nil || !g.ExpiresAt.After(now) {
			continue
		}
		at := g.ExpiresAt.UTC()
		key := [2]int64{at.Unix(), int64(at.Nanosecond())}
		if b, ok := sums[key]; ok {
			b.Points += g.Delta
			continue
		}
		sums[key] = &model.ExpiringBucket{ExpiresAt: at, Points: g.Delta}
	}
	for _, b := range sums {
		buckets = append(buckets, *b)
	}
	slices.SortFunc(buckets, func(a, b model.ExpiringBucket) int {
		return a.ExpiresAt.Compare(b.ExpiresAt)
	})
	return buckets
}

func (s *PointsService) lookupUser(ctx context.Context, rawID string) (*model.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		// not a key any user can have
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistence("get user", err)
	}
	return user, nil
}
