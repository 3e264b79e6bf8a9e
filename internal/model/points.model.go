package model

import (
	"time"

	"github.com/google/uuid"
)

// PointAdjustment is one immutable ledger entry. Positive deltas are grants,
// negative deltas are deductions.
type PointAdjustment struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Delta     int64      `json:"delta"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// AdjustmentCreateRequest is the body of POST /api/admin/points.
type AdjustmentCreateRequest struct {
	UserID    string  `json:"user_id"`
	Delta     int64   `json:"delta"`
	Reason    string  `json:"reason"`
	ExpiresAt *string `json:"expires_at"`
}

type AdjustmentResult struct {
	AdjustmentID uuid.UUID `json:"-"`
	UserID       uuid.UUID `json:"user_id"`
	Points       int64     `json:"points"`
}

// ExpiringBucket is the sum of still-valid grants sharing one expiry instant.
type ExpiringBucket struct {
	ExpiresAt time.Time `json:"expires_at"`
	Points    int64     `json:"points"`
}

type PointsSummary struct {
	User           *User            `json:"user"`
	ExpiringByDate []ExpiringBucket `json:"expiring_by_date"`
	NextExpiring   *ExpiringBucket  `json:"next_expiring"`
}

func (s *PointsSummary) CurrentBalance() int64 {
	if s == nil || s.User == nil {
		return 0
	}
	return s.User.Points
}
