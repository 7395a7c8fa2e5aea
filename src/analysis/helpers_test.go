package analysis

import (
	"testing"

	"sales-observer/src/config"
	"sales-observer/src/logger"
	"sales-observer/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func tx(date, category, product string, qty int64, price, total string) models.MTransaction {
	return models.MTransaction{
		DateSold:     date,
		Category:     category,
		ProductName:  product,
		QuantitySold: qty,
		Price:        decimal.RequireFromString(price),
		TotalSales:   decimal.RequireFromString(total),
	}
}

func rawTable(rows ...models.MTransaction) *models.MRawTable {
	return &models.MRawTable{
		Source:  "test.csv",
		Columns: append([]string(nil), models.RequiredColumns...),
		Rows:    rows,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := config.Default()
	p, err := NewPipeline(cfg.MConfig, nil, logger.NewNop())
	require.NoError(t, err)
	return p
}

// sampleTable has three categories over months 1-4 plus one broken date.
func sampleTable() *models.MRawTable {
	return rawTable(
		tx("2024-01-10", "Clothing", "Produto 10", 5, "80", "400"),
		tx("2024-01-15", "Grocery", "Produto 13", 10, "12.5", "125"),
		tx("2024-02-03", "Electronics", "Produto 2", 1, "950", "950"),
		tx("2024-02-20", "Clothing", "Produto 16", 7, "60", "420"),
		tx("2024-03-05", "Clothing", "Produto 10", 9, "80", "720"),
		tx("2024-03-09", "Grocery", "Produto 13", 4, "12.5", "50"),
		tx("not a date", "Clothing", "Produto 10", 100, "80", "8000"),
		tx("2024-04-01", "Electronics", "Produto 2", 2, "900", "1800"),
		tx("2024-04-28", "Clothing", "Produto 16", 3, "60", "180"),
	)
}
