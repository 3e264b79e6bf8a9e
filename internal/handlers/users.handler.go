package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
)

type UserService interface {
	Search(ctx context.Context, query string) ([]*model.User, error)
	Profile(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type UserHandler struct {
	svc UserService
}

func RegisterUserRoutes(e *router.Group, h *UserHandler, requireAdmin xhttp.MiddlewareFunc) {
	e.GET("/users", requireAdmin(h.SearchUsers))
	e.GET("/me", requireAdmin(h.Me))
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) SearchUsers(ctx *xhttp.RequestCtx) {
	rows, err := h.svc.Search(ctx, query(ctx, "q"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"rows": rows})
}

// Me answers with the caller's current row; the guard's profile may come
// from the role cache and carry only id and role.
func (h *UserHandler) Me(ctx *xhttp.RequestCtx) {
	admin := AdminFromCtx(ctx)
	if admin == nil {
		writeFail(ctx, xhttp.StatusUnauthorized, "no_token", "no_token")
		return
	}
	profile, err := h.svc.Profile(ctx, admin.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeOK(ctx, xhttp.StatusOK, envelope{"profile": profile})
}
