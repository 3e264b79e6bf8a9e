package handlers

import (
	"context"

	"github.com/fasthttp/router"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
)

// HealthCheck is one named dependency probed by the health endpoint.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks []HealthCheck
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	status := xhttp.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			logger.Warn("[health] dependency check failed", "name", c.Name, "error", err)
			results[c.Name] = "down"
			status = xhttp.StatusServiceUnavailable
			continue
		}
		results[c.Name] = "ok"
	}
	writeJSON(ctx, status, envelope{"ok": status == xhttp.StatusOK, "checks": results})
}
