package services

import (
	"context"
	"strings"

	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/phone"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
	"github.com/nimasrn/storefront-backoffice/pkg/prom"
)

type PendingPhoneGrantRepository interface {
	Create(ctx context.Context, grant *model.PendingPhoneGrant) error
	ListByPhone(ctx context.Context, phone string) ([]*model.PendingPhoneGrant, error)
}

// PhoneGrantService records points for phone numbers that have no account
// yet. Grants are only logged; nothing folds them into a user balance.
type PhoneGrantService struct {
	grants PendingPhoneGrantRepository
	expiry ExpiryParser
}

func NewPhoneGrantService(grants PendingPhoneGrantRepository, expiry ExpiryParser) *PhoneGrantService {
	return &PhoneGrantService{
		grants: grants,
		expiry: expiry,
	}
}

func (s *PhoneGrantService) RecordPendingGrant(ctx context.Context, req model.PendingGrantCreateRequest) (*model.PendingGrantResult, error) {
	normalized := phone.Normalize(req.Phone)
	if normalized == "" {
		return nil, ErrInvalidPhone
	}
	if req.Points <= 0 {
		return nil, ErrInvalidPoints
	}
	expiresAt, err := s.expiry.ParseOptional(req.ExpiresAt)
	if err != nil {
		return nil, ErrInvalidExpiry
	}

	grant := &model.PendingPhoneGrant{
		Phone:     normalized,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Delta:     req.Points,
		Reason:    strings.TrimSpace(req.Reason),
		ExpiresAt: expiresAt,
	}
	if err := s.grants.Create(ctx, grant); err != nil {
		prom.PointsFailure("pending_grant")
		return nil, persistence("append pending grant", err)
	}
	prom.PendingGrantRecorded()
	logger.Info("[points] pending grant recorded", "phone", normalized, "grant_id", grant.ID, "points", grant.Delta)

	return &model.PendingGrantResult{
		Phone:  normalized,
		Points: grant.Delta,
	}, nil
}

// ListPendingGrants returns the grants logged for a phone in any notation.
func (s *PhoneGrantService) ListPendingGrants(ctx context.Context, rawPhone string) ([]*model.PendingPhoneGrant, error) {
	normalized := phone.Normalize(rawPhone)
	if normalized == "" {
		return nil, ErrInvalidPhone
	}
	grants, err := s.grants.ListByPhone(ctx, normalized)
	if err != nil {
		return nil, persistence("list pending grants", err)
	}
	return grants, nil
}
