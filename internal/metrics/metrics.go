// Package metrics defines Prometheus metrics for csfloat-tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "csf"

// HTTP server metrics for the watch daemon.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the last /readyz probe succeeded, 0 otherwise.",
	})
)

// CSFloat API metrics.
var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total CSFloat API requests by operation and response status.",
	}, []string{"operation", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of CSFloat API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	APIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Total failed CSFloat API calls by error kind.",
	}, []string{"kind"})

	RateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_limit_remaining",
		Help:      "Calls remaining in the current rate limit window as last reported by the API.",
	})

	RateLimitLimit = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_limit_limit",
		Help:      "Size of the rate limit window as last reported by the API.",
	})

	PacerWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pacer_wait_duration_seconds",
		Help:      "Time a queued call waited for its pacing slot.",
		Buckets:   []float64{0, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})
)

// Sale history metrics.
var (
	HistoryBreakerTripsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_breaker_trips_total",
		Help:      "Total number of times the sale history breaker opened.",
	})

	HistoryBreakerRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_breaker_rejections_total",
		Help:      "Total sale history calls rejected by an open breaker.",
	})
)

// Watch poller metrics.
var (
	WatchPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watch_polls_total",
		Help:      "Total sale history polls by result.",
	}, []string{"result"})

	WatchPollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "watch_poll_duration_seconds",
		Help:      "Duration of a full watch poll cycle in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	WatchSalesObserved = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watch_sales_observed",
		Help:      "Number of sales returned by the last poll of a market hash name.",
	}, []string{"market_hash_name"})

	WatchLatestSalePrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watch_latest_sale_price",
		Help:      "Price in major units of the most recent sale of a market hash name.",
	}, []string{"market_hash_name"})

	WatchLastSuccessTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watch_last_success_timestamp",
		Help:      "Unix timestamp of the last poll cycle that completed without error.",
	})
)

// Price alert metrics.
var (
	WatchAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watch_alerts_total",
		Help:      "Total price alerts raised by the watch poller.",
	})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of alert webhook deliveries in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total failed alert webhook deliveries.",
	})
)
