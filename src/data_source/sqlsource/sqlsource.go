package sqlsource

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"strings"

	"sales-observer/src/data_source/tabular"
	"sales-observer/src/helpers"
	"sales-observer/src/logger"
	"sales-observer/src/models"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const DefaultQuery = "SELECT * FROM sales"

// SQLSource reads the table with one query against SQLite or PostgreSQL.
type SQLSource struct {
	Driver  string
	DSN     string
	Query   string
	Columns models.MColumnMapping
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

// NewSQLSource accepts sqlite://path/to/file.db and postgres:// URLs.
func NewSQLSource(location, query string, columns models.MColumnMapping, log *logger.Logger) (*SQLSource, error) {
	s := &SQLSource{Query: query, Columns: columns, Logger: log}
	if s.Query == "" {
		s.Query = DefaultQuery
	}

	switch {
	case strings.HasPrefix(location, "sqlite://"):
		s.Driver = "sqlite"
		s.DSN = strings.TrimPrefix(location, "sqlite://")
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		s.Driver = "postgres"
		s.DSN = location
	default:
		return nil, helpers.NewConfigurationError(helpers.ErrUnknownSource, "%q is not a sqlite:// or postgres:// location", location)
	}
	if s.DSN == "" {
		return nil, helpers.NewConfigurationError(nil, "%q has no database", location)
	}
	return s, nil
}

// -----------------------------------------------------------------------------

func (s *SQLSource) Name() string {
	if s.Driver == "postgres" {
		return "postgres:" + redact(s.DSN)
	}
	return s.Driver + ":" + s.DSN
}

// -----------------------------------------------------------------------------

// Identity is always empty: only the query result itself tells whether the
// table changed, so the cache goes through Snapshot.
func (s *SQLSource) Identity(ctx context.Context) (string, error) {
	return "", nil
}

// -----------------------------------------------------------------------------

// Snapshot runs the query once and keys the table on a hash of the result.
func (s *SQLSource) Snapshot(ctx context.Context) (string, *models.MRawTable, error) {
	header, records, err := s.query(ctx)
	if err != nil {
		return "", nil, err
	}
	table, err := s.parse(header, records)
	if err != nil {
		return "", nil, err
	}
	return s.Name() + "|sha256:" + hashRecords(header, records), table, nil
}

// -----------------------------------------------------------------------------

func (s *SQLSource) Load(ctx context.Context) (*models.MRawTable, error) {
	header, records, err := s.query(ctx)
	if err != nil {
		return nil, err
	}
	return s.parse(header, records)
}

// -----------------------------------------------------------------------------

func (s *SQLSource) parse(header []string, records [][]string) (*models.MRawTable, error) {
	table, err := tabular.ParseRecords(s.Name(), header, records, s.Columns)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Loaded %d rows from %s", len(table.Rows), s.Name())
	return table, nil
}

// hashRecords separates cells and records with the ASCII unit and record
// separators so that shifted cell boundaries hash differently.
func hashRecords(header []string, records [][]string) string {
	h := sha256.New()
	write := func(cells []string) {
		for _, c := range cells {
			h.Write([]byte(c))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	write(header)
	for _, r := range records {
		write(r)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// -----------------------------------------------------------------------------

func (s *SQLSource) query(ctx context.Context) ([]string, [][]string, error) {
	db, err := sql.Open(s.Driver, s.DSN)
	if err != nil {
		return nil, nil, helpers.NewDataSourceError(err, "open %s", s.Name())
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, helpers.NewDataSourceError(err, "connect %s", s.Name())
	}

	rows, err := db.QueryContext(ctx, s.Query)
	if err != nil {
		return nil, nil, helpers.NewDataSourceError(err, "query %s", s.Name())
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, helpers.NewDataSourceError(err, "columns %s", s.Name())
	}

	var records [][]string
	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, helpers.NewDataSourceError(err, "scan %s", s.Name())
		}
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = c.String
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, helpers.NewDataSourceError(err, "read %s", s.Name())
	}
	return header, records, nil
}

// -----------------------------------------------------------------------------

// redact hides the password of a postgres URL.
func redact(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, _ := strings.Cut(creds, ":")
	return scheme + "://" + user + "@" + host
}
