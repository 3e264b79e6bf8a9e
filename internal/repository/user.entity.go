package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
)

type UserEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Email     string    `gorm:"column:email;not null;default:''"`
	Name      string    `gorm:"column:name;not null;default:''"`
	Label     *string   `gorm:"column:label"`
	Phone     *string   `gorm:"column:phone"`
	Role      string    `gorm:"column:role;not null;default:user"`
	Points    int64     `gorm:"column:points;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserEntity) TableName() string {
	return "users"
}

func toUserEntity(m *model.User) *UserEntity {
	if m == nil {
		return nil
	}
	role := string(m.Role)
	if role == "" {
		role = string(model.RoleUser)
	}
	return &UserEntity{
		ID:     m.ID,
		Email:  m.Email,
		Name:   m.Name,
		Label:  nullable(m.Label),
		Phone:  nullable(m.Phone),
		Role:   role,
		Points: m.Points,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:     e.ID,
		Email:  e.Email,
		Name:   e.Name,
		Label:  deref(e.Label),
		Phone:  deref(e.Phone),
		Role:   model.Role(e.Role),
		Points: e.Points,
	}
}

func toUserModels(entities []*UserEntity) []*model.User {
	if entities == nil {
		return nil
	}
	models := make([]*model.User, len(entities))
	for i, e := range entities {
		models[i] = toUserModel(e)
	}
	return models
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
