package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/csfloat-tracker/tools/dashgen/rules"
)

var known = map[string]bool{
	"csf_requests_total":           true,
	"csf_request_duration_seconds": true,
}

func TestCheckExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		expr      string
		wantError string
	}{
		{name: "known counter", expr: `rate(csf_requests_total[5m])`},
		{name: "histogram bucket", expr: `histogram_quantile(0.95, sum(rate(csf_request_duration_seconds_bucket[5m])) by (le))`},
		{name: "function only", expr: `time()`},
		{name: "unknown metric", expr: `csf_missing_total`, wantError: `unknown metric "csf_missing_total"`},
		{name: "bad syntax", expr: `sum(rate(csf_requests_total[5m])`, wantError: "invalid PromQL"},
		{name: "empty", expr: "  ", wantError: "empty expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var res Result
			checkExpr(&res, "test", tt.expr, known)
			if tt.wantError == "" {
				assert.True(t, res.Ok(), "errors: %v", res.Errors)
				return
			}
			require.Len(t, res.Errors, 1)
			assert.Contains(t, res.Errors[0], tt.wantError)
		})
	}
}

func TestRules_RecordingNamesBecomeKnown(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{Spec: rules.PrometheusRuleSpec{Groups: []rules.RuleGroup{{
		Name: "g",
		Rules: []rules.Rule{
			{Record: "csf:requests:rate5m", Expr: `sum(rate(csf_requests_total[5m]))`},
			{Alert: "Busy", Expr: `csf:requests:rate5m > 10`, Labels: map[string]string{"severity": "warning"}},
			{Alert: "Quiet", Expr: `csf:requests:rate5m == 0`},
		},
	}}}}

	res := Rules(cr, known)
	assert.True(t, res.Ok(), "errors: %v", res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "alert Quiet: missing severity")
}

func TestRules_RejectsAmbiguousRule(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{Spec: rules.PrometheusRuleSpec{Groups: []rules.RuleGroup{{
		Name:  "g",
		Rules: []rules.Rule{{Expr: `csf_requests_total`}},
	}}}}

	res := Rules(cr, known)
	assert.False(t, res.Ok())
}
