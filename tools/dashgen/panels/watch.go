package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PollResults returns a timeseries panel showing per-item poll outcomes.
func PollResults() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Poll Results").
		Description("Sale history polls per minute by result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`csf:watch_polls:rate5m * 60`, "{{result}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PollDuration returns a timeseries panel showing the p95 poll cycle
// duration.
func PollDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Poll Duration (p95)").
		Description("95th percentile duration of a full poll cycle").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(p95("csf_watch_poll_duration_seconds"), "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// LatestSalePrice returns a bar gauge panel showing the most recent sale
// price of each watched item.
func LatestSalePrice() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Latest Sale Price").
		Description("Most recent sale price per market hash name (USD)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`max by (market_hash_name) (csf_watch_latest_sale_price{job="`+Job+`"})`,
			"{{market_hash_name}}", "A",
		)).
		Unit("currencyUSD").
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// SalesObserved returns a bar gauge panel showing how many sales the last
// poll returned per item.
func SalesObserved() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Sales Observed").
		Description("Sales returned by the last poll per market hash name").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`max by (market_hash_name) (csf_watch_sales_observed{job="`+Job+`"})`,
			"{{market_hash_name}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
