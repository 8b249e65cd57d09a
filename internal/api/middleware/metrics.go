// Package middleware provides Echo middleware for the watch daemon.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/csfloat-tracker/internal/metrics"
)

// probePaths are served without request metrics.
var probePaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

// probeGauges maps probe paths to their up/down gauge.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and count by
// method, route and status. Probe paths only update their up/down gauge.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}

			if _, ok := probePaths[route]; ok {
				err := next(c)
				setProbeGauge(route, c.Response().Status)
				return err
			}

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start).Seconds()

			labels := []string{c.Request().Method, route, strconv.Itoa(c.Response().Status)}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(elapsed)
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}

func setProbeGauge(route string, status int) {
	g, ok := probeGauges[route]
	if !ok {
		return
	}
	if status >= 200 && status < 300 {
		g.Set(1)
		return
	}
	g.Set(0)
}
