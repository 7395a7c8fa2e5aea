package analysis

import (
	"sort"

	"sales-observer/src/models"

	"github.com/shopspring/decimal"
)

// Aggregator derives the grouped views from a cleaned table.
// Each method reads the table only and allocates its own result.
type Aggregator struct {
	Labeler *MonthLabeler
}

// -----------------------------------------------------------------------------

func NewAggregator(labeler *MonthLabeler) *Aggregator {
	return &Aggregator{Labeler: labeler}
}

// -----------------------------------------------------------------------------

// monthlyTotals sums TotalSales per month for rows accepted by keep,
// returning buckets in ascending month order.
func monthlyTotals(rows []models.MCleanTransaction, keep func(*models.MCleanTransaction) bool) ([]int, map[int]decimal.Decimal) {
	totals := make(map[int]decimal.Decimal)
	for i := range rows {
		if keep != nil && !keep(&rows[i]) {
			continue
		}
		totals[rows[i].Month] = totals[rows[i].Month].Add(rows[i].TotalSales)
	}

	months := make([]int, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Ints(months)
	return months, totals
}

// -----------------------------------------------------------------------------

// MonthlyRevenue groups by month and sums revenue, in calendar order.
func (a *Aggregator) MonthlyRevenue(clean *models.MCleanTable) ([]models.MMonthlyRevenue, error) {
	months, totals := monthlyTotals(clean.Rows, nil)

	labels, err := a.Labeler.Labels(months)
	if err != nil {
		return nil, err
	}

	out := make([]models.MMonthlyRevenue, 0, len(months))
	for _, m := range months {
		out = append(out, models.MMonthlyRevenue{
			Month:      m,
			MonthName:  labels[m],
			TotalSales: totals[m],
		})
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// RevenueByCategory groups by category and sums revenue, ordered by category name.
func (a *Aggregator) RevenueByCategory(clean *models.MCleanTable) []models.MCategoryRevenue {
	groups := newOrderedGroups[string, decimal.Decimal]()
	for i := range clean.Rows {
		row := &clean.Rows[i]
		groups.update(row.Category, func(acc *decimal.Decimal) {
			*acc = acc.Add(row.TotalSales)
		})
	}

	out := make([]models.MCategoryRevenue, 0, groups.len())
	groups.each(func(category string, total decimal.Decimal) {
		out = append(out, models.MCategoryRevenue{Category: category, TotalSales: total})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// -----------------------------------------------------------------------------

// QuantityByProduct sums units per product, best sellers first.
// Equal quantities keep the order in which products first appear.
func (a *Aggregator) QuantityByProduct(clean *models.MCleanTable) []models.MProductQuantity {
	groups := newOrderedGroups[string, int64]()
	for i := range clean.Rows {
		row := &clean.Rows[i]
		groups.update(row.ProductName, func(acc *int64) {
			*acc += row.QuantitySold
		})
	}

	out := make([]models.MProductQuantity, 0, groups.len())
	groups.each(func(product string, qty int64) {
		out = append(out, models.MProductQuantity{ProductName: product, QuantitySold: qty})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].QuantitySold > out[j].QuantitySold })
	return out
}

// -----------------------------------------------------------------------------

// PriceQuantityPairs passes (price, quantity) through for every cleaned row.
func (a *Aggregator) PriceQuantityPairs(clean *models.MCleanTable) []models.MPriceQuantity {
	out := make([]models.MPriceQuantity, len(clean.Rows))
	for i, row := range clean.Rows {
		out[i] = models.MPriceQuantity{Price: row.Price, QuantitySold: row.QuantitySold}
	}
	return out
}
