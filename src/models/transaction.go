package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Logical column names of the transaction table.
const (
	ColDateSold     = "Date_Sold"
	ColCategory     = "Category"
	ColProductName  = "Product_Name"
	ColQuantitySold = "Quantity_Sold"
	ColPrice        = "Price"
	ColTotalSales   = "Total_Sales"
)

// RequiredColumns lists the logical columns every input must carry.
var RequiredColumns = []string{
	ColDateSold, ColCategory, ColProductName, ColQuantitySold, ColPrice, ColTotalSales,
}

// MTransaction is one raw sales row as read from the source.
// DateSold is kept as text; parsing belongs to the cleaning stage.
type MTransaction struct {
	DateSold     string          `json:"date_sold"`
	Category     string          `json:"category"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Price        decimal.Decimal `json:"price"`
	TotalSales   decimal.Decimal `json:"total_sales"`
}

// MRawTable is the loader output. SkippedRows counts rows left out because
// a numeric cell was empty.
type MRawTable struct {
	Source      string         `json:"source"`
	Columns     []string       `json:"columns"`
	Rows        []MTransaction `json:"rows"`
	SkippedRows int            `json:"skipped_rows"`
}

// HasColumn reports whether the logical column was present in the input header.
func (t *MRawTable) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Clone returns a copy that shares no slices with t.
func (t *MRawTable) Clone() *MRawTable {
	return &MRawTable{
		Source:      t.Source,
		Columns:     slices.Clone(t.Columns),
		Rows:        slices.Clone(t.Rows),
		SkippedRows: t.SkippedRows,
	}
}

// MCleanTransaction is a transaction with a parsed date and its month bucket.
type MCleanTransaction struct {
	MTransaction
	Date  time.Time `json:"date"`
	Month int       `json:"month"`
}

// MCleanTable is the cleaning stage output.
type MCleanTable struct {
	Rows        []MCleanTransaction `json:"rows"`
	DroppedRows int                 `json:"dropped_rows"`
}
