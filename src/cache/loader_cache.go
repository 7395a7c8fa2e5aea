// Package cache memoizes loaded transaction tables for one analysis session.
package cache

import (
	"context"

	"sales-observer/src/helpers"
	"sales-observer/src/interfaces"
	"sales-observer/src/logger"
	"sales-observer/src/metrics"
	"sales-observer/src/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const DefaultSize = 8

// LoaderCache keys loaded tables on the source identity. A source whose
// identity is unchanged is never read twice, and concurrent misses for the
// same identity share one load.
type LoaderCache struct {
	entries *lru.Cache[string, *models.MRawTable]
	group   singleflight.Group
	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewLoaderCache(size int, m *metrics.Metrics, log *logger.Logger) (*LoaderCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, *models.MRawTable](size)
	if err != nil {
		return nil, err
	}
	return &LoaderCache{entries: entries, Metrics: m, Logger: log}, nil
}

// -----------------------------------------------------------------------------

// Load returns the table for src and whether it came from the cache.
// Callers get their own copy and may not alter the cached table.
func (c *LoaderCache) Load(ctx context.Context, src interfaces.ITransactionSource) (*models.MRawTable, bool, error) {
	key, err := src.Identity(ctx)
	if err != nil {
		return nil, false, err
	}
	if key == "" {
		snap, ok := src.(interfaces.ISnapshotSource)
		if !ok {
			return nil, false, helpers.NewDataSourceError(nil, "%s has no identity to cache on", src.Name())
		}
		return c.loadSnapshot(ctx, snap)
	}

	if table, ok := c.entries.Get(key); ok {
		c.Metrics.RecordCacheRequest(true)
		c.Logger.Debug("Cache hit for %s", src.Name())
		return table.Clone(), true, nil
	}
	c.Metrics.RecordCacheRequest(false)

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// another caller may have filled the entry while we waited
		if table, ok := c.entries.Get(key); ok {
			return table, nil
		}
		table, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, table)
		return table, nil
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		c.Logger.Debug("Shared in-flight load for %s", src.Name())
	}
	return v.(*models.MRawTable).Clone(), false, nil
}

// -----------------------------------------------------------------------------

type snapshotResult struct {
	table *models.MRawTable
	hit   bool
}

// loadSnapshot reads a content-keyed source exactly once. The returned table
// is always the one decoded from the bytes its key was hashed from; a hit
// only means an identical table was already cached and is reused.
func (c *LoaderCache) loadSnapshot(ctx context.Context, src interfaces.ISnapshotSource) (*models.MRawTable, bool, error) {
	v, err, _ := c.group.Do("snapshot|"+src.Name(), func() (interface{}, error) {
		key, table, err := src.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if cached, ok := c.entries.Get(key); ok {
			return snapshotResult{table: cached, hit: true}, nil
		}
		c.entries.Add(key, table)
		return snapshotResult{table: table}, nil
	})
	if err != nil {
		return nil, false, err
	}

	res := v.(snapshotResult)
	c.Metrics.RecordCacheRequest(res.hit)
	if res.hit {
		c.Logger.Debug("Cache hit for %s", src.Name())
	}
	return res.table.Clone(), res.hit, nil
}

// -----------------------------------------------------------------------------

// Purge drops every cached table.
func (c *LoaderCache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached tables.
func (c *LoaderCache) Len() int {
	return c.entries.Len()
}
