// Package validate checks generated dashboards and rules against the PromQL
// grammar and the set of metrics the watch daemon exports.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/csfloat-tracker/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation, warnings do
// not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// panelJSON is the subset of a serialized panel needed to reach its queries.
// Row panels nest their children under "panels".
type panelJSON struct {
	Title   string      `json:"title"`
	Type    string      `json:"type"`
	Targets []target    `json:"targets"`
	Panels  []panelJSON `json:"panels"`
}

type target struct {
	Expr  string `json:"expr"`
	RefID string `json:"refId"`
}

// Dashboard parses every query in dash and checks that each metric it
// selects is in known.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	data, err := json.Marshal(dash)
	if err != nil {
		res.errorf("marshaling dashboard: %v", err)
		return res
	}
	var doc struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		res.errorf("decoding dashboard JSON: %v", err)
		return res
	}

	seen := make(map[string]bool)
	var walk func(panels []panelJSON)
	walk = func(panels []panelJSON) {
		for _, p := range panels {
			if p.Type == "row" || len(p.Panels) > 0 {
				walk(p.Panels)
				continue
			}
			if seen[p.Title] {
				res.warnf("panel %q: duplicate title", p.Title)
			}
			seen[p.Title] = true

			if len(p.Targets) == 0 {
				res.warnf("panel %q: no queries", p.Title)
			}
			for _, t := range p.Targets {
				checkExpr(&res, fmt.Sprintf("panel %q query %s", p.Title, t.RefID), t.Expr, known)
			}
		}
	}
	walk(doc.Panels)

	return res
}

// Rules parses every rule expression in cr. Recording rule names are added
// to the known set for the rules that follow them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	names := make(map[string]bool, len(known))
	for k, v := range known {
		names[k] = v
	}

	for _, g := range cr.Spec.Groups {
		for i, r := range g.Rules {
			where := fmt.Sprintf("group %s rule %d", g.Name, i)
			switch {
			case r.Record != "" && r.Alert != "":
				res.errorf("%s: has both record and alert", where)
			case r.Record != "":
				where = fmt.Sprintf("recording rule %s", r.Record)
				names[r.Record] = true
			case r.Alert != "":
				where = fmt.Sprintf("alert %s", r.Alert)
				if r.Labels["severity"] == "" {
					res.warnf("%s: missing severity label", where)
				}
			default:
				res.errorf("%s: has neither record nor alert", where)
			}
			checkExpr(&res, where, r.Expr, names)
		}
	}

	return res
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		res.errorf("%s: empty expression", where)
		return
	}

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: invalid PromQL: %v", where, err)
		return
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !isKnown(vs.Name, known) {
			res.errorf("%s: unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
