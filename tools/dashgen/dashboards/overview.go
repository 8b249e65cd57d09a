// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/csfloat-tracker/tools/dashgen/panels"
)

// BuildOverview constructs the CSFloat watch dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("CSFloat Watch").
		Uid("csf-overview").
		Tags([]string{"csf", "csfloat"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.LastPollStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("CSFloat API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.APILatency()).
		WithPanel(panels.APIErrors()).
		WithPanel(panels.PacerWait()))

	b.WithRow(dashboard.NewRowBuilder("Rate Limit").
		WithPanel(panels.QuotaRemaining()).
		WithPanel(panels.BreakerTrips()).
		WithPanel(panels.BreakerRejections()))

	b.WithRow(dashboard.NewRowBuilder("Watch").
		WithPanel(panels.PollResults()).
		WithPanel(panels.PollDuration()).
		WithPanel(panels.LatestSalePrice()).
		WithPanel(panels.SalesObserved()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
