package analysis

import (
	"fmt"
	"math"
	"time"

	"sales-observer/src/analysis/core"
	"sales-observer/src/models"

	"github.com/shopspring/decimal"
)

// BusinessDayChecker tells trading days from weekends and holidays.
type BusinessDayChecker interface {
	IsBusinessDay(t time.Time) bool
}

// InsightOptions tunes the narrative derivation.
type InsightOptions struct {
	PriceThreshold float64
	TopProducts    int
	// StableTolerance is the monthly slope, relative to mean actual revenue,
	// under which a trend is reported as stable.
	StableTolerance float64
	Calendar        BusinessDayChecker
}

const defaultStableTolerance = 0.01

// -----------------------------------------------------------------------------

// BuildInsights turns the report tables into narrative statements.
// It never fails: sections without data are omitted.
func BuildInsights(tables *models.MTables, clean *models.MCleanTable, opts InsightOptions) []models.MInsight {
	var out []models.MInsight
	out = append(out, monthlyInsights(tables.MonthlyRevenue)...)
	out = append(out, categoryInsights(tables.RevenueByCategory)...)
	out = append(out, productInsights(tables.QuantityByProduct, opts.TopProducts)...)
	out = append(out, priceInsights(tables.PriceQuantityPairs, opts.PriceThreshold)...)
	out = append(out, trendInsights(tables.Forecast, tables.Trends, opts.StableTolerance)...)
	if opts.Calendar != nil {
		out = append(out, calendarInsights(clean, opts.Calendar)...)
	}
	return out
}

// -----------------------------------------------------------------------------

func monthlyInsights(monthly []models.MMonthlyRevenue) []models.MInsight {
	if len(monthly) == 0 {
		return nil
	}

	best, worst := monthly[0], monthly[0]
	for _, m := range monthly[1:] {
		if m.TotalSales.GreaterThan(best.TotalSales) {
			best = m
		}
		if m.TotalSales.LessThan(worst.TotalSales) {
			worst = m
		}
	}

	out := []models.MInsight{{
		Section: models.ViewMonthly,
		Kind:    "best_month",
		Message: fmt.Sprintf("%s had the highest revenue (%s)", best.MonthName, best.TotalSales.StringFixed(2)),
		Value:   best.TotalSales.InexactFloat64(),
	}}
	if len(monthly) < 2 {
		return out
	}

	out = append(out, models.MInsight{
		Section: models.ViewMonthly,
		Kind:    "worst_month",
		Message: fmt.Sprintf("%s had the lowest revenue (%s)", worst.MonthName, worst.TotalSales.StringFixed(2)),
		Value:   worst.TotalSales.InexactFloat64(),
	})

	last, prev := monthly[len(monthly)-1], monthly[len(monthly)-2]
	change := core.CalculateChangePercent(last.TotalSales.InexactFloat64(), prev.TotalSales.InexactFloat64())
	out = append(out, models.MInsight{
		Section: models.ViewMonthly,
		Kind:    "last_month_change",
		Message: fmt.Sprintf("Revenue changed %+.1f%% from %s to %s", change*100, prev.MonthName, last.MonthName),
		Value:   change,
	})
	return out
}

// -----------------------------------------------------------------------------

func categoryInsights(categories []models.MCategoryRevenue) []models.MInsight {
	if len(categories) == 0 {
		return nil
	}

	total := decimal.Zero
	top, bottom := categories[0], categories[0]
	for _, c := range categories {
		total = total.Add(c.TotalSales)
		if c.TotalSales.GreaterThan(top.TotalSales) {
			top = c
		}
		if c.TotalSales.LessThan(bottom.TotalSales) {
			bottom = c
		}
	}

	share := 0.0
	if !total.IsZero() {
		share = top.TotalSales.Div(total).InexactFloat64()
	}

	out := []models.MInsight{{
		Section: models.ViewCategories,
		Kind:    "top_category",
		Message: fmt.Sprintf("%s leads revenue with %.1f%% of the total", top.Category, share*100),
		Value:   share,
	}}
	if len(categories) > 1 {
		out = append(out, models.MInsight{
			Section: models.ViewCategories,
			Kind:    "bottom_category",
			Message: fmt.Sprintf("%s has the lowest revenue (%s)", bottom.Category, bottom.TotalSales.StringFixed(2)),
			Value:   bottom.TotalSales.InexactFloat64(),
		})
	}
	return out
}

// -----------------------------------------------------------------------------

func productInsights(products []models.MProductQuantity, top int) []models.MInsight {
	if top <= 0 {
		top = 3
	}
	if len(products) < top {
		top = len(products)
	}

	out := make([]models.MInsight, 0, top)
	for i := 0; i < top; i++ {
		p := products[i]
		out = append(out, models.MInsight{
			Section: models.ViewProducts,
			Kind:    fmt.Sprintf("rank_%d", i+1),
			Message: fmt.Sprintf("#%d best seller: %s (%d units)", i+1, p.ProductName, p.QuantitySold),
			Value:   float64(p.QuantitySold),
		})
	}
	return out
}

// -----------------------------------------------------------------------------

func priceInsights(pairs []models.MPriceQuantity, threshold float64) []models.MInsight {
	if len(pairs) == 0 {
		return nil
	}

	prices := make([]float64, len(pairs))
	quantities := make([]float64, len(pairs))
	var below, above []float64
	var unitsBelow, unitsTotal float64
	for i, p := range pairs {
		prices[i] = p.Price.InexactFloat64()
		quantities[i] = float64(p.QuantitySold)
		unitsTotal += quantities[i]
		if prices[i] < threshold {
			below = append(below, quantities[i])
			unitsBelow += quantities[i]
		} else {
			above = append(above, quantities[i])
		}
	}

	share := 0.0
	if unitsTotal > 0 {
		share = unitsBelow / unitsTotal
	}
	meanBelow, _ := core.CalculateMeanStd(below)
	meanAbove, _ := core.CalculateMeanStd(above)
	corr := core.CalculateCorrelation(prices, quantities)

	return []models.MInsight{
		{
			Section: models.ViewPriceQuantity,
			Kind:    "units_below_threshold",
			Message: fmt.Sprintf("%.1f%% of units sold were priced below %.2f", share*100, threshold),
			Value:   share,
		},
		{
			Section: models.ViewPriceQuantity,
			Kind:    "mean_quantity_below_threshold",
			Message: fmt.Sprintf("Sales below %.2f average %.2f units, against %.2f units at or above it", threshold, meanBelow, meanAbove),
			Value:   meanBelow - meanAbove,
		},
		{
			Section: models.ViewPriceQuantity,
			Kind:    "price_quantity_correlation",
			Message: fmt.Sprintf("Price and quantity correlation is %.2f", corr),
			Value:   corr,
		},
	}
}

// -----------------------------------------------------------------------------

func trendInsights(points []models.MForecastPoint, trends []models.MTrend, tolerance float64) []models.MInsight {
	if tolerance <= 0 {
		tolerance = defaultStableTolerance
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range points {
		if p.Kind != models.KindActual {
			continue
		}
		sums[p.Category] += p.Value
		counts[p.Category]++
	}

	out := make([]models.MInsight, 0, len(trends))
	for _, tr := range trends {
		mean := 0.0
		if counts[tr.Category] > 0 {
			mean = sums[tr.Category] / float64(counts[tr.Category])
		}

		direction := "stable"
		if math.Abs(tr.Slope) > tolerance*math.Abs(mean) {
			if tr.Slope > 0 {
				direction = "growing"
			} else {
				direction = "declining"
			}
		}
		out = append(out, models.MInsight{
			Section: models.ViewForecast,
			Kind:    "trend_" + direction,
			Message: fmt.Sprintf("%s is %s by %.2f per month (fit on %d months)", tr.Category, direction, tr.Slope, tr.Points),
			Value:   tr.Slope,
		})
	}
	return out
}

// -----------------------------------------------------------------------------

func calendarInsights(clean *models.MCleanTable, cal BusinessDayChecker) []models.MInsight {
	if clean == nil || len(clean.Rows) == 0 {
		return nil
	}

	total, offDays := decimal.Zero, decimal.Zero
	for _, row := range clean.Rows {
		total = total.Add(row.TotalSales)
		if !cal.IsBusinessDay(row.Date) {
			offDays = offDays.Add(row.TotalSales)
		}
	}

	share := 0.0
	if !total.IsZero() {
		share = offDays.Div(total).InexactFloat64()
	}
	return []models.MInsight{{
		Section: models.ViewMonthly,
		Kind:    "non_business_day_share",
		Message: fmt.Sprintf("%.1f%% of revenue was booked on weekends or holidays", share*100),
		Value:   share,
	}}
}
