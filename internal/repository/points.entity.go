package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
)

type PointAdjustmentEntity struct {
	pg.Model
	UserID    uuid.UUID  `gorm:"type:uuid;column:user_id;not null;index"`
	Delta     int64      `gorm:"column:delta;not null"`
	Reason    *string    `gorm:"column:reason"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
}

func (PointAdjustmentEntity) TableName() string {
	return "user_points"
}

func toPointAdjustmentEntity(m *model.PointAdjustment) *PointAdjustmentEntity {
	if m == nil {
		return nil
	}
	return &PointAdjustmentEntity{
		Model:     pg.Model{ID: m.ID},
		UserID:    m.UserID,
		Delta:     m.Delta,
		Reason:    nullable(m.Reason),
		ExpiresAt: utcPtr(m.ExpiresAt),
	}
}

func toPointAdjustmentModel(e *PointAdjustmentEntity) *model.PointAdjustment {
	if e == nil {
		return nil
	}
	return &model.PointAdjustment{
		ID:        e.ID,
		UserID:    e.UserID,
		Delta:     e.Delta,
		Reason:    deref(e.Reason),
		ExpiresAt: utcPtr(e.ExpiresAt),
		CreatedAt: e.CreatedAt,
	}
}

func toPointAdjustmentModels(entities []*PointAdjustmentEntity) []*model.PointAdjustment {
	if entities == nil {
		return nil
	}
	models := make([]*model.PointAdjustment, len(entities))
	for i, e := range entities {
		models[i] = toPointAdjustmentModel(e)
	}
	return models
}
