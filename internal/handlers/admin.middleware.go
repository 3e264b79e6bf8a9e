package handlers

import (
	"context"
	"errors"

	"github.com/nimasrn/storefront-backoffice/internal/auth"
	"github.com/nimasrn/storefront-backoffice/internal/model"
	"github.com/nimasrn/storefront-backoffice/internal/services"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
)

const adminUserKey = "admin_profile"

type AdminResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// RequireAdmin rejects the request unless its bearer token belongs to a user
// with the admin role. The resolved profile is stored on the request.
func RequireAdmin(resolver AdminResolver) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			token := auth.BearerToken(string(ctx.Request.Header.Peek("Authorization")))
			profile, err := resolver.Resolve(ctx, token)
			if err != nil {
				status, reason := adminFailure(err)
				writeFail(ctx, status, reason, reason)
				return
			}
			ctx.SetUserValue(adminUserKey, profile)
			next(ctx)
		}
	}
}

func adminFailure(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNoToken):
		return xhttp.StatusUnauthorized, "no_token"
	case errors.Is(err, services.ErrInvalidToken):
		return xhttp.StatusUnauthorized, "invalid_token"
	case errors.Is(err, services.ErrNoProfile):
		return xhttp.StatusForbidden, "no_profile"
	case errors.Is(err, services.ErrNotAdmin):
		return xhttp.StatusForbidden, "not_admin"
	}
	return xhttp.StatusInternalServerError, "role_check_failed"
}

// AdminFromCtx returns the profile stored by RequireAdmin.
func AdminFromCtx(ctx *xhttp.RequestCtx) *model.User {
	u, _ := ctx.UserValue(adminUserKey).(*model.User)
	return u
}
