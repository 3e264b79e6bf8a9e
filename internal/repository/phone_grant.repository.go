package repository

import (
	"context"

	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
)

type PendingPhoneGrantRepository struct {
	*pg.DB
}

func NewPendingPhoneGrantRepository(db *pg.DB) *PendingPhoneGrantRepository {
	return &PendingPhoneGrantRepository{
		db,
	}
}

func (r *PendingPhoneGrantRepository) Create(ctx context.Context, grant *model.PendingPhoneGrant) error {
	entity := toPendingPhoneGrantEntity(grant)
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return err
	}
	grant.ID = entity.ID
	grant.CreatedAt = entity.CreatedAt
	return nil
}

// ListByPhone returns every grant recorded for a normalized phone, oldest first.
func (r *PendingPhoneGrantRepository) ListByPhone(ctx context.Context, phone string) ([]*model.PendingPhoneGrant, error) {
	var entities []*PendingPhoneGrantEntity
	err := r.Read(ctx).
		Where("phone = ?", phone).
		Order("created_at ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	models := make([]*model.PendingPhoneGrant, len(entities))
	for i, e := range entities {
		models[i] = toPendingPhoneGrantModel(e)
	}
	return models, nil
}
