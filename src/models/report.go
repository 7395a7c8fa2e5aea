package models

import "time"

// Names of the tidy tables a report carries.
const (
	ViewSample        = "sample"
	ViewMonthly       = "monthly"
	ViewCategories    = "categories"
	ViewProducts      = "products"
	ViewPriceQuantity = "price_quantity"
	ViewForecast      = "forecast"
	ViewInsights      = "insights"
)

// Views lists every view name in presentation order.
var Views = []string{
	ViewSample, ViewMonthly, ViewCategories, ViewProducts, ViewPriceQuantity, ViewForecast, ViewInsights,
}

// MTables groups the deterministic outputs of one pipeline run.
type MTables struct {
	Sample             []MTransaction     `json:"sample"`
	MonthlyRevenue     []MMonthlyRevenue  `json:"monthly"`
	RevenueByCategory  []MCategoryRevenue `json:"categories"`
	QuantityByProduct  []MProductQuantity `json:"products"`
	PriceQuantityPairs []MPriceQuantity   `json:"price_quantity"`
	Forecast           []MForecastPoint   `json:"forecast"`
	Trends             []MTrend           `json:"trends"`
}

// MReport is everything the presenter needs for one render.
type MReport struct {
	RunID       string             `json:"run_id"`
	Source      string             `json:"source"`
	GeneratedAt time.Time          `json:"generated_at"`
	Metrics     MProcessingMetrics `json:"processing_metrics"`
	Tables      MTables            `json:"tables"`
	Insights    []MInsight         `json:"insights"`
}
