// Package tabular turns header+records grids from any source into the raw
// transaction table.
package tabular

import (
	"errors"
	"strings"

	"sales-observer/src/helpers"
	"sales-observer/src/models"

	"github.com/shopspring/decimal"
)

const bom = "\ufeff"

// -----------------------------------------------------------------------------

// NormalizeHeader trims blanks and a leading BOM and lowercases the name.
func NormalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, bom)))
}

// -----------------------------------------------------------------------------

// logicalColumns pairs each logical column with its configured header name.
func logicalColumns(columns models.MColumnMapping) [][2]string {
	return [][2]string{
		{models.ColDateSold, columns.DateSold},
		{models.ColCategory, columns.Category},
		{models.ColProductName, columns.ProductName},
		{models.ColQuantitySold, columns.QuantitySold},
		{models.ColPrice, columns.Price},
		{models.ColTotalSales, columns.TotalSales},
	}
}

// -----------------------------------------------------------------------------

// IndexHeader maps each logical column to its position in header.
// Every required column must be present.
func IndexHeader(source string, header []string, columns models.MColumnMapping) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	idx := make(map[string]int, len(models.RequiredColumns))
	var missing []string
	for _, pair := range logicalColumns(columns) {
		pos, ok := positions[NormalizeHeader(pair[1])]
		if !ok {
			missing = append(missing, pair[1])
			continue
		}
		idx[pair[0]] = pos
	}
	if len(missing) > 0 {
		return nil, helpers.NewConfigurationError(helpers.ErrMissingColumn,
			"%s: missing column(s) %s", source, strings.Join(missing, ", "))
	}
	return idx, nil
}

// -----------------------------------------------------------------------------

// HasHeader reports whether header carries every configured column.
func HasHeader(header []string, columns models.MColumnMapping) bool {
	_, err := IndexHeader("", header, columns)
	return err == nil
}

// -----------------------------------------------------------------------------

// ParseRecords converts data records (header excluded) into a raw table.
// Blank records are skipped. A row with an empty numeric cell is dropped and
// counted in SkippedRows. A numeric cell that does not parse is fatal and
// reported with its 1-based line number, the header being line 1.
func ParseRecords(source string, header []string, records [][]string, columns models.MColumnMapping) (*models.MRawTable, error) {
	idx, err := IndexHeader(source, header, columns)
	if err != nil {
		return nil, err
	}

	table := &models.MRawTable{
		Source:  source,
		Columns: append([]string(nil), models.RequiredColumns...),
		Rows:    make([]models.MTransaction, 0, len(records)),
	}
	for i, record := range records {
		if isBlank(record) {
			continue
		}
		row, err := parseRow(record, idx, i+2)
		if errors.Is(err, errBlankCell) {
			table.SkippedRows++
			continue
		}
		if err != nil {
			return nil, helpers.NewDataSourceError(err, "%s", source)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// -----------------------------------------------------------------------------

func parseRow(record []string, idx map[string]int, line int) (models.MTransaction, error) {
	cell := func(col string) string {
		if pos := idx[col]; pos < len(record) {
			return strings.TrimSpace(record[pos])
		}
		return ""
	}

	for _, col := range []string{models.ColQuantitySold, models.ColPrice, models.ColTotalSales} {
		if cell(col) == "" {
			return models.MTransaction{}, errBlankCell
		}
	}

	qty, err := parseQuantity(cell(models.ColQuantitySold))
	if err != nil {
		return models.MTransaction{}, invalidCell(line, models.ColQuantitySold, err)
	}
	price, err := parseAmount(cell(models.ColPrice))
	if err != nil {
		return models.MTransaction{}, invalidCell(line, models.ColPrice, err)
	}
	total, err := parseAmount(cell(models.ColTotalSales))
	if err != nil {
		return models.MTransaction{}, invalidCell(line, models.ColTotalSales, err)
	}

	return models.MTransaction{
		DateSold:     cell(models.ColDateSold),
		Category:     cell(models.ColCategory),
		ProductName:  cell(models.ColProductName),
		QuantitySold: qty,
		Price:        price,
		TotalSales:   total,
	}, nil
}

// -----------------------------------------------------------------------------

func invalidCell(line int, column string, cause error) error {
	return helpers.NewValidationError(helpers.ErrInvalidCell, "line %d, column %s: %v", line, column, cause)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errNegative(s)
	}
	return d, nil
}

func parseQuantity(s string) (int64, error) {
	d, err := parseAmount(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, errNotInteger(s)
	}
	return d.IntPart(), nil
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
