package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/nimasrn/storefront-backoffice/internal/services"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
)

// envelope is the {ok: ...} body every endpoint answers with.
type envelope map[string]any

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	writeRawJSON(ctx, status, b)
}

func writeRawJSON(ctx *xhttp.RequestCtx, status int, b []byte) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func success(fields envelope) envelope {
	out := envelope{"ok": true}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func failure(reason, msg string) envelope {
	return envelope{"ok": false, "error": msg, "reason": reason}
}

func writeOK(ctx *xhttp.RequestCtx, status int, fields envelope) {
	writeJSON(ctx, status, success(fields))
}

func writeFail(ctx *xhttp.RequestCtx, status int, reason, msg string) {
	writeJSON(ctx, status, failure(reason, msg))
}

// errorResponse maps a service error onto a status and reason code. The
// error text is forwarded as is.
func errorResponse(err error) (int, envelope) {
	status, reason := classify(err)
	body := failure(reason, err.Error())
	var partial *services.PartialAdjustmentError
	if errors.As(err, &partial) {
		body["adjustment_id"] = partial.AdjustmentID
	}
	return status, body
}

func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	status, body := errorResponse(err)
	writeJSON(ctx, status, body)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrMissingUserID):
		return xhttp.StatusBadRequest, "missing_user_id"
	case errors.Is(err, services.ErrInvalidDelta):
		return xhttp.StatusBadRequest, "invalid_delta"
	case errors.Is(err, services.ErrInvalidPoints):
		return xhttp.StatusBadRequest, "invalid_points"
	case errors.Is(err, services.ErrInvalidPhone):
		return xhttp.StatusBadRequest, "invalid_phone"
	case errors.Is(err, services.ErrInvalidExpiry):
		return xhttp.StatusBadRequest, "invalid_expiry"
	case errors.Is(err, services.ErrValidation):
		return xhttp.StatusBadRequest, "validation"
	case errors.Is(err, services.ErrNothingToUpdate):
		return xhttp.StatusBadRequest, "nothing_to_update"
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrBrandNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrProductNotFound):
		return xhttp.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrDuplicateSlug):
		return xhttp.StatusConflict, "duplicate_slug"
	case errors.Is(err, services.ErrStorage):
		return xhttp.StatusInternalServerError, "upload_failed"
	case errors.Is(err, services.ErrBalanceNotUpdated):
		return xhttp.StatusInternalServerError, "balance_not_updated"
	case errors.Is(err, services.ErrPersistence):
		return xhttp.StatusInternalServerError, "persistence_failure"
	}
	return xhttp.StatusInternalServerError, "server_error"
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return strings.TrimSpace(string(ctx.QueryArgs().Peek(key)))
}
