package exporter

import (
	"bytes"
	"testing"

	"sales-observer/src/helpers"
	"sales-observer/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *models.MReport {
	return &models.MReport{
		RunID: "run-1",
		Tables: models.MTables{
			Sample: []models.MTransaction{
				{DateSold: "2024-03-05", Category: "Home, Garden", ProductName: "Produto 10", QuantitySold: 5,
					Price: decimal.NewFromInt(80), TotalSales: decimal.RequireFromString("400.50")},
			},
			MonthlyRevenue: []models.MMonthlyRevenue{
				{Month: 3, MonthName: "Março", TotalSales: decimal.RequireFromString("400.50")},
			},
			RevenueByCategory: []models.MCategoryRevenue{
				{Category: "Home, Garden", TotalSales: decimal.NewFromInt(400)},
			},
			QuantityByProduct:  []models.MProductQuantity{{ProductName: "Produto 10", QuantitySold: 5}},
			PriceQuantityPairs: []models.MPriceQuantity{{Price: decimal.NewFromInt(80), QuantitySold: 5}},
			Forecast: []models.MForecastPoint{
				{Category: "Clothing", Month: 3, Value: 400, Kind: models.KindActual},
				{Category: "Clothing", Month: 6, Value: 412.5, Kind: models.KindPredicted},
			},
		},
		Insights: []models.MInsight{{Section: "monthly", Kind: "best_month", Message: "Março", Value: 400.5}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, models.ViewMonthly, sampleReport()))
	assert.Equal(t, "month,month_name,total_sales\n3,Março,400.5\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, models.ViewCategories, sampleReport()))
	assert.Equal(t, "category,total_sales\n\"Home, Garden\",400\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, models.ViewSample, sampleReport()))
	assert.Equal(t, "date_sold,category,product_name,quantity_sold,price,total_sales\n"+
		"2024-03-05,\"Home, Garden\",Produto 10,5,80,400.5\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, models.ViewForecast, sampleReport()))
	assert.Equal(t, "category,month,value,kind\nClothing,3,400,actual\nClothing,6,412.5,predicted\n", buf.String())
}

func TestWriteCSV_UnknownView(t *testing.T) {
	err := WriteCSV(&bytes.Buffer{}, "pie", sampleReport())
	assert.ErrorIs(t, err, helpers.ErrUnknownView)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, models.Views, f.GetSheetList())

	rows, err := f.GetRows(models.ViewForecast)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"category", "month", "value", "kind"}, rows[0])
	assert.Equal(t, []string{"Clothing", "6", "412.5", "predicted"}, rows[2])

	rows, err = f.GetRows(models.ViewSample)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Produto 10", rows[1][2])

	rows, err = f.GetRows(models.ViewProducts)
	require.NoError(t, err)
	assert.Equal(t, []string{"Produto 10", "5"}, rows[1])
}

func TestBuildTable_EveryView(t *testing.T) {
	for _, view := range models.Views {
		table, err := BuildTable(sampleReport(), view)
		require.NoError(t, err, view)
		assert.NotEmpty(t, table.Header)
		for _, row := range table.Rows {
			assert.Len(t, row, len(table.Header))
		}
	}
}
