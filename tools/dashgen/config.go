package main

import "errors"

// KnownMetrics is the set of metric names exported by the watch daemon
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"csf_http_request_duration_seconds": true,
	"csf_http_requests_total":           true,

	// Health metrics.
	"csf_healthz_up": true,
	"csf_readyz_up":  true,

	// CSFloat API metrics.
	"csf_api_requests_total":           true,
	"csf_api_request_duration_seconds": true,
	"csf_api_errors_total":             true,
	"csf_rate_limit_remaining":         true,
	"csf_rate_limit_limit":             true,
	"csf_pacer_wait_duration_seconds":  true,

	// Sale history breaker metrics.
	"csf_history_breaker_trips_total":      true,
	"csf_history_breaker_rejections_total": true,

	// Watch metrics.
	"csf_watch_polls_total":            true,
	"csf_watch_poll_duration_seconds":  true,
	"csf_watch_sales_observed":         true,
	"csf_watch_latest_sale_price":      true,
	"csf_watch_last_success_timestamp": true,

	// Price alert metrics.
	"csf_watch_alerts_total":            true,
	"csf_notification_duration_seconds": true,
	"csf_notification_failures_total":   true,

	// Recording rules.
	"csf:http_requests:rate5m": true,
	"csf:http_errors:rate5m":   true,
	"csf:api_requests:rate5m":  true,
	"csf:api_errors:rate5m":    true,
	"csf:watch_polls:rate5m":   true,

	// Standard Prometheus metrics referenced in alerts.
	"up": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
