package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sales-observer/src/data_source/tabular"
	"sales-observer/src/helpers"
	"sales-observer/src/logger"
	"sales-observer/src/models"
)

type CSVSource struct {
	Path    string
	Columns models.MColumnMapping
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCSVSource(path string, columns models.MColumnMapping, log *logger.Logger) *CSVSource {
	return &CSVSource{Path: path, Columns: columns, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *CSVSource) Name() string {
	return "csv:" + s.Path
}

// -----------------------------------------------------------------------------

// Identity is path + size + modification time.
func (s *CSVSource) Identity(ctx context.Context) (string, error) {
	return FileIdentity(s.Path)
}

// -----------------------------------------------------------------------------

func (s *CSVSource) Load(ctx context.Context) (*models.MRawTable, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "cannot open %s", s.Path)
	}
	defer f.Close()

	table, err := Decode(f, s.Path, s.Columns)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Loaded %d rows from %s", len(table.Rows), s.Path)
	return table, nil
}

// -----------------------------------------------------------------------------

// Decode reads a comma separated stream whose first record is the header.
func Decode(r io.Reader, source string, columns models.MColumnMapping) (*models.MRawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "cannot parse csv from %s", source)
	}
	if len(records) == 0 {
		return nil, helpers.NewDataSourceError(nil, "%s is empty", source)
	}
	return tabular.ParseRecords(source, records[0], records[1:], columns)
}

// -----------------------------------------------------------------------------

// FileIdentity keys a local file on its absolute path, size and mtime.
func FileIdentity(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", helpers.NewDataSourceError(err, "cannot stat %s", path)
	}
	return fmt.Sprintf("file:%s:%d:%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}
