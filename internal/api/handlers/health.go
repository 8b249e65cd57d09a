package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ReadinessChecker reports whether the daemon is ready to serve data.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	checker ReadinessChecker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(rc ReadinessChecker) *HealthHandler {
	return &HealthHandler{checker: rc}
}

// Healthz returns 200 while the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 once a sale history poll has succeeded and the breaker
// is closed, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if !h.checker.Ready() {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
