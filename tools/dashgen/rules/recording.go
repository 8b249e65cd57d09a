package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("csf-recording-rules",
		RuleGroup{
			Name: "csf-recording",
			Rules: []Rule{
				{
					Record: "csf:http_requests:rate5m",
					Expr:   `sum(rate(csf_http_requests_total[5m]))`,
				},
				{
					Record: "csf:http_errors:rate5m",
					Expr:   `sum(rate(csf_http_requests_total{status=~"5.."}[5m]))`,
				},
				{
					Record: "csf:api_requests:rate5m",
					Expr:   `sum by (operation) (rate(csf_api_requests_total[5m]))`,
				},
				{
					Record: "csf:api_errors:rate5m",
					Expr:   `sum by (kind) (rate(csf_api_errors_total[5m]))`,
				},
				{
					Record: "csf:watch_polls:rate5m",
					Expr:   `sum by (result) (rate(csf_watch_polls_total[5m]))`,
				},
			},
		},
	)
}
