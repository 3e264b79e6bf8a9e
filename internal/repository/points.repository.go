package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
)

// PointAdjustmentRepository is the append-only ledger. There is deliberately
// no update or delete.
type PointAdjustmentRepository struct {
	*pg.DB
}

func NewPointAdjustmentRepository(db *pg.DB) *PointAdjustmentRepository {
	return &PointAdjustmentRepository{
		db,
	}
}

// Create appends the adjustment and fills in its id and creation time.
func (r *PointAdjustmentRepository) Create(ctx context.Context, adj *model.PointAdjustment) error {
	entity := toPointAdjustmentEntity(adj)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return err
	}
	adj.ID = entity.ID
	adj.CreatedAt = entity.CreatedAt
	return nil
}

// ListUnexpiredGrants returns the positive adjustments of a user that carry an
// expiry later than now, oldest expiry first.
func (r *PointAdjustmentRepository) ListUnexpiredGrants(ctx context.Context, userID uuid.UUID, now time.Time) ([]*model.PointAdjustment, error) {
	var entities []*PointAdjustmentEntity
	err := r.Read(ctx).
		Where("user_id = ?", userID).
		Where("delta > 0").
		Where("expires_at IS NOT NULL AND expires_at > ?", now.UTC()).
		Order("expires_at ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toPointAdjustmentModels(entities), nil
}

// SumDeltas is the balance recomputed from the ledger. It should always match
// the cached users.points; no request path calls it, it exists to check that
// invariant in tests and by hand when repairing a partial adjustment.
func (r *PointAdjustmentRepository) SumDeltas(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.Read(ctx).
		Model(&PointAdjustmentEntity{}).
		Select("COALESCE(SUM(delta), 0)").
		Where("user_id = ?", userID).
		Scan(&total).
		Error
	return total, err
}
