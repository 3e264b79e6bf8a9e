package repository

import (
	"time"

	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
)

type PendingPhoneGrantEntity struct {
	pg.Model
	Phone     string     `gorm:"column:phone;not null;index"`
	Name      *string    `gorm:"column:name"`
	Email     *string    `gorm:"column:email"`
	Delta     int64      `gorm:"column:delta;not null"`
	Reason    *string    `gorm:"column:reason"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
}

func (PendingPhoneGrantEntity) TableName() string {
	return "phone_points_grants"
}

func toPendingPhoneGrantEntity(m *model.PendingPhoneGrant) *PendingPhoneGrantEntity {
	if m == nil {
		return nil
	}
	return &PendingPhoneGrantEntity{
		Model:     pg.Model{ID: m.ID},
		Phone:     m.Phone,
		Name:      nullable(m.Name),
		Email:     nullable(m.Email),
		Delta:     m.Delta,
		Reason:    nullable(m.Reason),
		ExpiresAt: utcPtr(m.ExpiresAt),
	}
}

func toPendingPhoneGrantModel(e *PendingPhoneGrantEntity) *model.PendingPhoneGrant {
	if e == nil {
		return nil
	}
	return &model.PendingPhoneGrant{
		ID:        e.ID,
		Phone:     e.Phone,
		Name:      deref(e.Name),
		Email:     deref(e.Email),
		Delta:     e.Delta,
		Reason:    deref(e.Reason),
		ExpiresAt: utcPtr(e.ExpiresAt),
		CreatedAt: e.CreatedAt,
	}
}
