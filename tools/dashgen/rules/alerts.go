package rules

// AlertRules returns a PrometheusRule CR containing alert rules for the
// watch daemon.
func AlertRules() PrometheusRule {
	return newPrometheusRule("csf-alerts",
		RuleGroup{
			Name: "csf-alerts",
			Rules: []Rule{
				{
					Alert: "CsfWatchDown",
					Expr:  `absent(up{job="csfloat-watch"})`,
					For:   "2m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "CSFloat watch daemon is down",
						"description": "The csfloat-watch job has been absent for more than 2 minutes.",
					},
				},
				{
					Alert: "CsfReadinessDown",
					Expr:  `csf_readyz_up == 0`,
					For:   "10m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "CSFloat watch daemon is not ready",
						"description": "No clean poll has completed or the sale history breaker is open.",
					},
				},
				{
					Alert: "CsfHighErrorRate",
					Expr:  `csf:http_errors:rate5m / csf:http_requests:rate5m > 0.05`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "High HTTP error rate on the watch daemon",
						"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
					},
				},
				{
					Alert: "CsfAPIErrors",
					Expr:  `sum(csf:api_errors:rate5m{kind!="canceled"}) > 0.1`,
					For:   "10m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "CSFloat API calls are failing",
						"description": "API errors have exceeded 0.1/s for the last 10 minutes.",
					},
				},
				{
					Alert: "CsfQuotaLow",
					Expr:  `csf_rate_limit_limit > 0 and csf_rate_limit_remaining / csf_rate_limit_limit < 0.1`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "CSFloat rate limit quota is nearly exhausted",
						"description": "Less than 10% of the rate limit window remains.",
					},
				},
				{
					Alert: "CsfBreakerOpened",
					Expr:  `increase(csf_history_breaker_trips_total[15m]) > 0`,
					For:   "0m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Sale history breaker opened",
						"description": "Sale history polling is paused until the breaker cooldown elapses.",
					},
				},
				{
					Alert: "CsfWatchStale",
					Expr:  `time() - csf_watch_last_success_timestamp > 3600`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Sale history data is stale",
						"description": "No poll cycle has completed cleanly in the last hour.",
					},
				},
				{
					Alert: "CsfNotificationFailures",
					Expr:  `increase(csf_notification_failures_total[5m]) > 0`,
					For:   "1m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Price alert delivery failures detected",
						"description": "One or more price alerts failed to post to the Discord webhook.",
					},
				},
			},
		},
	)
}
