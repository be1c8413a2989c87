package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-capture/api/internal/database"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db      database.Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new handler instance.
func NewHealthHandler(db database.Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Live handles GET /healthz requests.
func (h *HealthHandler) Live(c echo.Context) error {
	return Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
}

// Ready handles GET /readyz requests.
func (h *HealthHandler) Ready(c echo.Context) error {
	if h.db == nil {
		return Error(c, http.StatusServiceUnavailable, "database unavailable")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return Error(c, http.StatusServiceUnavailable, "database unavailable")
	}
	return Success(c, http.StatusOK, "service ready", map[string]any{"status": "ok"})
}
