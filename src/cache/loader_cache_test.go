package cache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sales-observer/src/config"
	"sales-observer/src/data_source/httpsource"
	"sales-observer/src/helpers"
	"sales-observer/src/logger"
	"sales-observer/src/metrics"
	"sales-observer/src/models"
	"sales-observer/src/network"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mu       sync.Mutex
	identity string
	loads    atomic.Int32
	delay    time.Duration
	err      error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Identity(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, nil
}

func (s *countingSource) setIdentity(id string) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
}

func (s *countingSource) Load(ctx context.Context) (*models.MRawTable, error) {
	s.loads.Add(1)
	time.Sleep(s.delay)
	if s.err != nil {
		return nil, s.err
	}
	return &models.MRawTable{
		Source:  "counting",
		Columns: append([]string(nil), models.RequiredColumns...),
		Rows: []models.MTransaction{{
			DateSold:     "2024-03-05",
			Category:     "Clothing",
			ProductName:  "Produto 10",
			QuantitySold: 5,
			Price:        decimal.NewFromInt(80),
			TotalSales:   decimal.NewFromInt(400),
		}},
	}, nil
}

func newCache(t *testing.T, size int) *LoaderCache {
	t.Helper()
	c, err := NewLoaderCache(size, metrics.NewMetrics(), logger.NewNop())
	require.NoError(t, err)
	return c
}

func TestLoaderCache_HitReturnsIdenticalTable(t *testing.T) {
	c := newCache(t, 2)
	src := &countingSource{identity: "v1"}

	first, hit, err := c.Load(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.Load(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.loads.Load())
	assert.Equal(t, 1, c.Len())
}

func TestLoaderCache_CallersCannotCorruptEntry(t *testing.T) {
	c := newCache(t, 2)
	src := &countingSource{identity: "v1"}

	first, _, err := c.Load(context.Background(), src)
	require.NoError(t, err)
	first.Rows[0].Category = "Tampered"
	first.Rows = first.Rows[:0]

	again, _, err := c.Load(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, again.Rows, 1)
	assert.Equal(t, "Clothing", again.Rows[0].Category)
}

func TestLoaderCache_IdentityChangeReloads(t *testing.T) {
	c := newCache(t, 2)
	src := &countingSource{identity: "v1"}

	_, _, err := c.Load(context.Background(), src)
	require.NoError(t, err)
	src.setIdentity("v2")
	_, hit, err := c.Load(context.Background(), src)
	require.NoError(t, err)

	assert.False(t, hit)
	assert.Equal(t, int32(2), src.loads.Load())
}

func TestLoaderCache_ConcurrentMissesShareOneLoad(t *testing.T) {
	c := newCache(t, 2)
	src := &countingSource{identity: "v1", delay: 50 * time.Millisecond}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, _, err := c.Load(context.Background(), src)
			assert.NoError(t, err)
			assert.Len(t, table.Rows, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.loads.Load())
}

func TestLoaderCache_ErrorsAreNotCached(t *testing.T) {
	c := newCache(t, 2)
	src := &countingSource{identity: "v1", err: errors.New("disk on fire")}

	_, _, err := c.Load(context.Background(), src)
	assert.Error(t, err)
	_, _, err = c.Load(context.Background(), src)
	assert.Error(t, err)

	assert.Equal(t, int32(2), src.loads.Load())
	assert.Zero(t, c.Len())
}

func TestLoaderCache_EvictionAndPurge(t *testing.T) {
	c := newCache(t, 1)
	a := &countingSource{identity: "a"}
	b := &countingSource{identity: "b"}

	_, _, _ = c.Load(context.Background(), a)
	_, _, _ = c.Load(context.Background(), b)
	_, hit, err := c.Load(context.Background(), a)
	require.NoError(t, err)
	assert.False(t, hit)

	c.Purge()
	assert.Zero(t, c.Len())
}

// snapshotSource is keyed on its content: each read returns the current
// version and the key of exactly that version.
type snapshotSource struct {
	mu      sync.Mutex
	version int
	reads   atomic.Int32
}

func (s *snapshotSource) Name() string { return "snapshot" }

func (s *snapshotSource) Identity(ctx context.Context) (string, error) { return "", nil }

func (s *snapshotSource) Load(ctx context.Context) (*models.MRawTable, error) {
	_, table, err := s.Snapshot(ctx)
	return table, err
}

func (s *snapshotSource) Snapshot(ctx context.Context) (string, *models.MRawTable, error) {
	s.reads.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()

	table := &models.MRawTable{Source: "snapshot", Columns: append([]string(nil), models.RequiredColumns...)}
	for i := 0; i < s.version; i++ {
		table.Rows = append(table.Rows, models.MTransaction{DateSold: "2024-03-05", Category: "Clothing", QuantitySold: 1})
	}
	return fmt.Sprintf("v%d", s.version), table, nil
}

func (s *snapshotSource) setVersion(v int) {
	s.mu.Lock()
	s.version = v
	s.mu.Unlock()
}

func TestLoaderCache_SnapshotReadsOncePerLoad(t *testing.T) {
	c := newCache(t, 2)
	src := &snapshotSource{version: 1}

	table, hit, err := c.Load(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, int32(1), src.reads.Load())

	src.setVersion(2)
	table, hit, err = c.Load(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, int32(2), src.reads.Load())

	table, hit, err = c.Load(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, int32(3), src.reads.Load())
	assert.Equal(t, 2, c.Len())
}

type anonymousSource struct{ countingSource }

func (s *anonymousSource) Identity(ctx context.Context) (string, error) { return "", nil }

func TestLoaderCache_EmptyIdentityWithoutSnapshot(t *testing.T) {
	c := newCache(t, 2)
	src := &anonymousSource{}

	_, _, err := c.Load(context.Background(), src)
	var srcErr *helpers.DataSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Zero(t, src.loads.Load())
}

func TestLoaderCache_HTTPBodyWithoutValidator(t *testing.T) {
	const header = "Date_Sold,Category,Product_Name,Quantity_Sold,Price,Total_Sales\n"
	const row = "2024-03-05,Clothing,Produto 10,5,80,400\n"

	var gets atomic.Int32
	var rows atomic.Int32
	rows.Store(1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			return
		}
		gets.Add(1)
		w.Write([]byte(header + strings.Repeat(row, int(rows.Load()))))
	}))
	defer srv.Close()

	nm, err := network.NewNetworkManager(models.MNetworkConfig{RequestTimeout: 5}, logger.NewNop())
	require.NoError(t, err)
	src := httpsource.NewHTTPSource(srv.URL+"/sales.csv", "", config.DefaultColumns(), nm, logger.NewNop())
	c := newCache(t, 2)

	table, hit, err := c.Load(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, int32(1), gets.Load())

	rows.Store(2)
	table, hit, err = c.Load(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, int32(2), gets.Load())

	table, hit, err = c.Load(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, int32(3), gets.Load())
}
