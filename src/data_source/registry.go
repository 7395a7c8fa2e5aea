package datasource

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"sales-observer/src/data_source/csvfile"
	"sales-observer/src/data_source/gcs"
	"sales-observer/src/data_source/httpsource"
	"sales-observer/src/data_source/sqlsource"
	"sales-observer/src/data_source/xlsx"
	"sales-observer/src/helpers"
	"sales-observer/src/interfaces"
	"sales-observer/src/logger"
	"sales-observer/src/models"
)

// Source kinds understood by Resolve.
const (
	KindCSV      = "csv"
	KindXLSX     = "xlsx"
	KindHTTP     = "http"
	KindGCS      = "gcs"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Factory builds a source for one location.
type Factory func(location string) (interfaces.ITransactionSource, error)

// Registry maps source locations onto source implementations.
type Registry struct {
	Config    models.MSourceConfig
	Network   interfaces.INetworkManager
	Logger    *logger.Logger
	mu        sync.RWMutex
	factories map[string]Factory
}

// -----------------------------------------------------------------------------

func NewRegistry(cfg models.MSourceConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *Registry {
	r := &Registry{
		Config:    cfg,
		Network:   netMgr,
		Logger:    log,
		factories: make(map[string]Factory),
	}

	r.factories[KindCSV] = func(loc string) (interfaces.ITransactionSource, error) {
		return csvfile.NewCSVSource(loc, r.Config.Columns, r.Logger.With("csv")), nil
	}
	r.factories[KindXLSX] = func(loc string) (interfaces.ITransactionSource, error) {
		return xlsx.NewXLSXSource(loc, r.Config.Sheet, r.Config.Columns, r.Logger.With("xlsx")), nil
	}
	r.factories[KindHTTP] = func(loc string) (interfaces.ITransactionSource, error) {
		if r.Network == nil {
			return nil, helpers.NewConfigurationError(nil, "no network manager for %s", loc)
		}
		return httpsource.NewHTTPSource(loc, r.Config.Sheet, r.Config.Columns, r.Network, r.Logger.With("http")), nil
	}
	r.factories[KindGCS] = func(loc string) (interfaces.ITransactionSource, error) {
		return gcs.NewGCSSource(loc, r.Config.Sheet, r.Config.Columns, r.Logger.With("gcs"))
	}
	sqlFactory := func(loc string) (interfaces.ITransactionSource, error) {
		return sqlsource.NewSQLSource(loc, r.Config.Query, r.Config.Columns, r.Logger.With("sql"))
	}
	r.factories[KindSQLite] = sqlFactory
	r.factories[KindPostgres] = sqlFactory

	return r
}

// -----------------------------------------------------------------------------

// Register adds a factory for a new kind.
func (r *Registry) Register(kind string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("source kind %s already registered", kind)
	}
	r.factories[kind] = f
	r.Logger.Info("Registered source kind: %s", kind)
	return nil
}

// -----------------------------------------------------------------------------

// Kinds lists the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]string, 0, len(r.factories))
	for k := range r.factories {
		list = append(list, k)
	}
	sort.Strings(list)
	return list
}

// -----------------------------------------------------------------------------

// Kind classifies a location by scheme, then by file extension.
func Kind(location string) (string, error) {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindHTTP, nil
	case strings.HasPrefix(lower, "gs://"):
		return KindGCS, nil
	case strings.HasPrefix(lower, "sqlite://"):
		return KindSQLite, nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres, nil
	}

	switch strings.ToLower(filepath.Ext(strings.TrimPrefix(location, "file://"))) {
	case ".csv", ".txt":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	}
	return "", helpers.NewConfigurationError(helpers.ErrUnknownSource, "cannot tell the source kind of %q", location)
}

// -----------------------------------------------------------------------------

// Resolve returns the source serving location.
func (r *Registry) Resolve(location string) (interfaces.ITransactionSource, error) {
	kind, err := Kind(location)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, helpers.NewConfigurationError(helpers.ErrUnknownSource, "source kind %s not registered", kind)
	}

	if kind == KindCSV || kind == KindXLSX {
		location = strings.TrimPrefix(location, "file://")
	}
	src, err := factory(location)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("Resolved %s to %s", location, src.Name())
	return src, nil
}
