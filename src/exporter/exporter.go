// Package exporter writes report views as tidy tables.
package exporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"sales-observer/src/helpers"
	"sales-observer/src/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Table is one tidy view: a header and typed cells.
type Table struct {
	View   string
	Header []string
	Rows   [][]interface{}
}

// -----------------------------------------------------------------------------

// BuildTable lays out one view of the report.
func BuildTable(report *models.MReport, view string) (*Table, error) {
	t := report.Tables
	out := &Table{View: view}

	switch view {
	case models.ViewSample:
		out.Header = []string{"date_sold", "category", "product_name", "quantity_sold", "price", "total_sales"}
		for _, r := range t.Sample {
			out.Rows = append(out.Rows, []interface{}{r.DateSold, r.Category, r.ProductName, r.QuantitySold, r.Price, r.TotalSales})
		}
	case models.ViewMonthly:
		out.Header = []string{"month", "month_name", "total_sales"}
		for _, r := range t.MonthlyRevenue {
			out.Rows = append(out.Rows, []interface{}{r.Month, r.MonthName, r.TotalSales})
		}
	case models.ViewCategories:
		out.Header = []string{"category", "total_sales"}
		for _, r := range t.RevenueByCategory {
			out.Rows = append(out.Rows, []interface{}{r.Category, r.TotalSales})
		}
	case models.ViewProducts:
		out.Header = []string{"product_name", "quantity_sold"}
		for _, r := range t.QuantityByProduct {
			out.Rows = append(out.Rows, []interface{}{r.ProductName, r.QuantitySold})
		}
	case models.ViewPriceQuantity:
		out.Header = []string{"price", "quantity_sold"}
		for _, r := range t.PriceQuantityPairs {
			out.Rows = append(out.Rows, []interface{}{r.Price, r.QuantitySold})
		}
	case models.ViewForecast:
		out.Header = []string{"category", "month", "value", "kind"}
		for _, r := range t.Forecast {
			out.Rows = append(out.Rows, []interface{}{r.Category, r.Month, r.Value, string(r.Kind)})
		}
	case models.ViewInsights:
		out.Header = []string{"section", "kind", "message", "value"}
		for _, r := range report.Insights {
			out.Rows = append(out.Rows, []interface{}{r.Section, r.Kind, r.Message, r.Value})
		}
	default:
		return nil, helpers.NewValidationError(helpers.ErrUnknownView, "view %q", view)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// WriteCSV writes one view as CSV with a header row.
func WriteCSV(w io.Writer, view string, report *models.MReport) error {
	table, err := BuildTable(report, view)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(table.Records()); err != nil {
		return err
	}
	return cw.Error()
}

// Records renders every cell as text, decimals in full precision.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		out[r] = record
	}
	return out
}

// -----------------------------------------------------------------------------

// WriteXLSX writes every view into its own sheet.
func WriteXLSX(w io.Writer, report *models.MReport) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, view := range models.Views {
		table, err := BuildTable(report, view)
		if err != nil {
			return err
		}

		idx, err := f.NewSheet(view)
		if err != nil {
			return err
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		header := make([]interface{}, len(table.Header))
		for j, h := range table.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(view, "A1", &header); err != nil {
			return err
		}
		for r, row := range table.Rows {
			cells := make([]interface{}, len(row))
			for j, cell := range row {
				cells[j] = sheetCell(cell)
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(view, cell, &cells); err != nil {
				return err
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.Write(w)
}

// -----------------------------------------------------------------------------

func formatCell(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	default:
		return ""
	}
}

// sheetCell converts decimals so they land as numbers, not text.
func sheetCell(v interface{}) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return v
}
