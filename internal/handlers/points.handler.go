package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/fasthttp/router"
	"github.com/nimasrn/storefront-backoffice/internal/idempotency"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/services"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
)

type PointsService interface {
	RecordAdjustment(ctx context.Context, req model.AdjustmentCreateRequest) (*model.AdjustmentResult, error)
	Summarize(ctx context.Context, userID string) (*model.PointsSummary, error)
}

type PhoneGrantService interface {
	RecordPendingGrant(ctx context.Context, req model.PendingGrantCreateRequest) (*model.PendingGrantResult, error)
	ListPendingGrants(ctx context.Context, rawPhone string) ([]*model.PendingPhoneGrant, error)
}

type IdempotencyGuard interface {
	Begin(ctx context.Context, scope, key string) (*idempotency.Claim, *idempotency.Response, error)
	Complete(ctx context.Context, c *idempotency.Claim, resp idempotency.Response) error
	Abandon(ctx context.Context, c *idempotency.Claim)
}

type PointsHandler struct {
	points PointsService
	grants PhoneGrantService
	guard  IdempotencyGuard
}

// RegisterPointsRoutes mounts the ledger endpoints on the admin group; every
// route goes through requireAdmin first.
func RegisterPointsRoutes(e *router.Group, h *PointsHandler, requireAdmin xhttp.MiddlewareFunc) {
	e.POST("/points", requireAdmin(h.CreateAdjustment))
	e.GET("/points", requireAdmin(h.GetSummary))
	e.POST("/points-migrate", requireAdmin(h.CreatePendingGrant))
	e.GET("/points-migrate", requireAdmin(h.ListPendingGrants))
}

// NewPointsHandler builds the handler. guard may be nil, in which case the
// Idempotency-Key header is ignored.
func NewPointsHandler(points PointsService, grants PhoneGrantService, guard IdempotencyGuard) *PointsHandler {
	return &PointsHandler{
		points: points,
		grants: grants,
		guard:  guard,
	}
}

func (h *PointsHandler) CreateAdjustment(ctx *xhttp.RequestCtx) {
	var req model.AdjustmentCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	h.idempotent(ctx, "points", func() (int, any, bool) {
		res, err := h.points.RecordAdjustment(ctx, req)
		if err != nil {
			status, body := errorResponse(err)
			// The ledger row exists once the balance step is reached, so a
			// retry with the same key must not append again.
			return status, body, errors.Is(err, services.ErrBalanceNotUpdated)
		}
		return xhttp.StatusOK, success(envelope{"user_id": res.UserID, "points": res.Points}), true
	})
}

func (h *PointsHandler) GetSummary(ctx *xhttp.RequestCtx) {
	summary, err := h.points.Summarize(ctx, query(ctx, "user_id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{
		"user":             summary.User,
		"expiring_by_date": summary.ExpiringByDate,
		"next_expiring":    summary.NextExpiring,
	})
}

func (h *PointsHandler) CreatePendingGrant(ctx *xhttp.RequestCtx) {
	var req model.PendingGrantCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	h.idempotent(ctx, "points-migrate", func() (int, any, bool) {
		res, err := h.grants.RecordPendingGrant(ctx, req)
		if err != nil {
			status, body := errorResponse(err)
			return status, body, false
		}
		return xhttp.StatusOK, success(envelope{"phone": res.Phone, "points": res.Points}), true
	})
}

func (h *PointsHandler) ListPendingGrants(ctx *xhttp.RequestCtx) {
	rows, err := h.grants.ListPendingGrants(ctx, query(ctx, "phone"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"rows": rows})
}

// idempotent runs fn at most once per Idempotency-Key. fn reports whether its
// outcome should be stored for replay; otherwise the key is released.
func (h *PointsHandler) idempotent(ctx *xhttp.RequestCtx, scope string, fn func() (int, any, bool)) {
	key := strings.TrimSpace(string(ctx.Request.Header.Peek(idempotency.HeaderKey)))
	if key == "" || h.guard == nil {
		status, body, _ := fn()
		writeJSON(ctx, status, body)
		return
	}
	if admin := AdminFromCtx(ctx); admin != nil {
		scope += ":" + admin.ID.String()
	}

	claim, stored, err := h.guard.Begin(ctx, scope, key)
	switch {
	case errors.Is(err, idempotency.ErrKeyTooLong):
		writeFail(ctx, xhttp.StatusBadRequest, "invalid_idempotency_key", err.Error())
		return
	case errors.Is(err, idempotency.ErrInFlight):
		writeFail(ctx, xhttp.StatusConflict, "in_flight", err.Error())
		return
	case err != nil:
		logger.Error("[points-handler] idempotency guard unavailable", "scope", scope, "error", err)
		writeFail(ctx, xhttp.StatusServiceUnavailable, "idempotency_unavailable", "idempotency store unavailable")
		return
	}
	if stored != nil {
		ctx.Response.Header.Set(idempotency.HeaderReplayed, "true")
		writeRawJSON(ctx, stored.Status, stored.Body)
		return
	}

	status, body, keep := fn()
	raw, _ := json.Marshal(body)
	if keep {
		if err := h.guard.Complete(ctx, claim, idempotency.Response{Status: status, Body: raw}); err != nil {
			logger.Warn("[points-handler] response not stored for replay", "scope", scope, "error", err)
		}
	} else {
		h.guard.Abandon(ctx, claim)
	}
	writeRawJSON(ctx, status, raw)
}
