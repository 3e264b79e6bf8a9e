package model

import (
	"time"

	"github.com/google/uuid"
)

// PendingPhoneGrant records points promised to a phone number that has no
// account yet. Rows are never merged or updated.
type PendingPhoneGrant struct {
	ID        uuid.UUID  `json:"id"`
	Phone     string     `json:"phone"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Delta     int64      `json:"points"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// PendingGrantCreateRequest is the body of POST /api/admin/points-migrate.
type PendingGrantCreateRequest struct {
	Phone     string  `json:"phone"`
	Points    int64   `json:"points"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Reason    string  `json:"reason"`
	ExpiresAt *string `json:"expires_at"`
}

type PendingGrantResult struct {
	Phone  string `json:"phone"`
	Points int64  `json:"points"`
}
