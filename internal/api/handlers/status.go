package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/csfloat-tracker/internal/watch"
)

// Watcher is the subset of the poller the status endpoints use.
type Watcher interface {
	Summaries() []watch.Summary
	Poll(ctx context.Context) error
}

// StatusHandler exposes the latest sale history summaries.
type StatusHandler struct {
	watcher Watcher
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(w Watcher) *StatusHandler {
	return &StatusHandler{watcher: w}
}

// List returns every summary.
func (h *StatusHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.watcher.Summaries())
}

// Get returns the summary for one market hash name.
func (h *StatusHandler) Get(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid market hash name"})
	}
	for _, s := range h.watcher.Summaries() {
		if s.MarketHashName == name {
			return c.JSON(http.StatusOK, s)
		}
	}
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no sale history for " + name})
}

// Poll runs a sale history poll immediately.
func (h *StatusHandler) Poll(c echo.Context) error {
	if err := h.watcher.Poll(c.Request().Context()); err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "poll failed: " + err.Error()})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "poll completed"})
}

// Register mounts the health, readiness and status routes on e.
func Register(e *echo.Echo, health *HealthHandler, status *StatusHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	v1 := e.Group("/api/v1")
	v1.GET("/status", status.List)
	v1.GET("/status/:name", status.Get)
	v1.POST("/poll", status.Poll)
}
