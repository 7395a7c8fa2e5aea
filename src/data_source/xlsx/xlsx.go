package xlsx

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"sales-observer/src/data_source/csvfile"
	"sales-observer/src/data_source/tabular"
	"sales-observer/src/helpers"
	"sales-observer/src/logger"
	"sales-observer/src/models"

	"github.com/xuri/excelize/v2"
)

// dateLayout is how serial dates are rendered before cleaning parses them.
const dateLayout = "2006-01-02 15:04:05"

type XLSXSource struct {
	Path    string
	Sheet   string
	Columns models.MColumnMapping
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewXLSXSource(path, sheet string, columns models.MColumnMapping, log *logger.Logger) *XLSXSource {
	return &XLSXSource{Path: path, Sheet: sheet, Columns: columns, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *XLSXSource) Name() string {
	if s.Sheet != "" {
		return "xlsx:" + s.Path + "#" + s.Sheet
	}
	return "xlsx:" + s.Path
}

// -----------------------------------------------------------------------------

func (s *XLSXSource) Identity(ctx context.Context) (string, error) {
	id, err := csvfile.FileIdentity(s.Path)
	if err != nil {
		return "", err
	}
	return id + "#" + s.Sheet, nil
}

// -----------------------------------------------------------------------------

func (s *XLSXSource) Load(ctx context.Context) (*models.MRawTable, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "cannot open %s", s.Path)
	}
	defer f.Close()

	table, err := Decode(f, s.Path, s.Sheet, s.Columns)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Loaded %d rows from %s", len(table.Rows), s.Name())
	return table, nil
}

// -----------------------------------------------------------------------------

// Decode reads a workbook. With an empty sheet name the first sheet whose
// first row carries the configured header is used.
func Decode(r io.Reader, source, sheet string, columns models.MColumnMapping) (*models.MRawTable, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "cannot open workbook %s", source)
	}
	defer book.Close()

	rows, err := findRows(book, sheet, columns)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "%s", source)
	}

	idx, err := tabular.IndexHeader(source, rows[0], columns)
	if err != nil {
		return nil, err
	}
	dateCol := idx[models.ColDateSold]
	for _, row := range rows[1:] {
		if dateCol < len(row) {
			row[dateCol] = serialToDate(row[dateCol])
		}
	}
	return tabular.ParseRecords(source, rows[0], rows[1:], columns)
}

// -----------------------------------------------------------------------------

func findRows(book *excelize.File, sheet string, columns models.MColumnMapping) ([][]string, error) {
	raw := excelize.Options{RawCellValue: true}

	if sheet != "" {
		rows, err := book.GetRows(sheet, raw)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, helpers.NewValidationError(nil, "sheet %q is empty", sheet)
		}
		return rows, nil
	}

	for _, name := range book.GetSheetList() {
		rows, err := book.GetRows(name, raw)
		if err != nil || len(rows) == 0 {
			continue
		}
		if tabular.HasHeader(rows[0], columns) {
			return rows, nil
		}
	}
	return nil, helpers.NewConfigurationError(helpers.ErrMissingColumn, "no sheet carries the sales header")
}

// -----------------------------------------------------------------------------

// serialToDate turns an Excel date serial into text. Anything else is kept.
func serialToDate(value string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format(dateLayout)
}
