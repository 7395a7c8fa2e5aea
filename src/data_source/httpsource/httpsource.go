package httpsource

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"strings"

	"sales-observer/src/data_source/csvfile"
	"sales-observer/src/data_source/xlsx"
	"sales-observer/src/interfaces"
	"sales-observer/src/logger"
	"sales-observer/src/models"
)

// HTTPSource downloads the table from a URL. Bodies ending in .xlsx are read
// as workbooks, everything else as CSV.
type HTTPSource struct {
	URL     string
	Sheet   string
	Columns models.MColumnMapping
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewHTTPSource(rawURL, sheet string, columns models.MColumnMapping, netMgr interfaces.INetworkManager, log *logger.Logger) *HTTPSource {
	return &HTTPSource{URL: rawURL, Sheet: sheet, Columns: columns, Network: netMgr, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *HTTPSource) Name() string {
	return "http:" + s.URL
}

// -----------------------------------------------------------------------------

// Identity returns the server's validator, or "" when it sends none.
func (s *HTTPSource) Identity(ctx context.Context) (string, error) {
	validator, err := s.Network.Head(ctx, s.URL)
	if err != nil {
		s.Logger.Debug("HEAD %s failed, falling back to content hash: %v", s.URL, err)
		return "", nil
	}
	if validator == "" {
		return "", nil
	}
	return s.URL + "|" + validator, nil
}

// -----------------------------------------------------------------------------

// Snapshot downloads the body once and keys the table on its hash.
func (s *HTTPSource) Snapshot(ctx context.Context) (string, *models.MRawTable, error) {
	body, err := s.Network.Get(ctx, s.URL, nil)
	if err != nil {
		return "", nil, err
	}
	table, err := s.decode(body)
	if err != nil {
		return "", nil, err
	}
	sum := sha256.Sum256(body)
	return s.URL + "|sha256:" + hex.EncodeToString(sum[:]), table, nil
}

// -----------------------------------------------------------------------------

func (s *HTTPSource) Load(ctx context.Context) (*models.MRawTable, error) {
	body, err := s.Network.Get(ctx, s.URL, nil)
	if err != nil {
		return nil, err
	}
	return s.decode(body)
}

// -----------------------------------------------------------------------------

func (s *HTTPSource) decode(body []byte) (*models.MRawTable, error) {
	var table *models.MRawTable
	var err error
	if isWorkbook(s.URL) {
		table, err = xlsx.Decode(bytes.NewReader(body), s.URL, s.Sheet, s.Columns)
	} else {
		table, err = csvfile.Decode(bytes.NewReader(body), s.URL, s.Columns)
	}
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Loaded %d rows from %s", len(table.Rows), s.URL)
	return table, nil
}

// -----------------------------------------------------------------------------

func isWorkbook(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	return strings.EqualFold(path.Ext(p), ".xlsx")
}
