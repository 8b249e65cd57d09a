package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// QuotaRemaining returns a timeseries panel showing the remaining quota
// against the window size.
func QuotaRemaining() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Rate Limit").
		Description("Remaining calls in the current window as reported by CSFloat").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`csf_rate_limit_remaining{job="`+Job+`"}`, "remaining", "A")).
		WithTarget(PromQuery(`csf_rate_limit_limit{job="`+Job+`"}`, "limit", "B")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("min", "last")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// BreakerTrips returns a stat panel showing how often the sale history
// breaker opened in the past 24 hours.
func BreakerTrips() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Breaker Trips (24h)").
		Description("Times the sale history breaker opened on low quota").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(csf_history_breaker_trips_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// BreakerRejections returns a stat panel showing sale history calls refused
// by an open breaker in the past 24 hours.
func BreakerRejections() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Breaker Rejections (24h)").
		Description("Sale history calls refused while the breaker was open").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(csf_history_breaker_rejections_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 50)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
