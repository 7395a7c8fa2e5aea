package httpsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"sales-observer/src/config"
	"sales-observer/src/logger"
	"sales-observer/src/models"
	"sales-observer/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = "Date_Sold,Category,Product_Name,Quantity_Sold,Price,Total_Sales\n" +
	"2024-03-05,Clothing,Produto 10,5,80,400\n"

func newSource(t *testing.T, url string) *HTTPSource {
	t.Helper()
	nm, err := network.NewNetworkManager(models.MNetworkConfig{RequestTimeout: 5}, logger.NewNop())
	require.NoError(t, err)
	return NewHTTPSource(url, "", config.DefaultColumns(), nm, logger.NewNop())
}

func TestHTTPSource_LoadCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	table, err := newSource(t, srv.URL+"/sales.csv").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Produto 10", table.Rows[0].ProductName)
}

func TestHTTPSource_IdentityUsesETag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	id, err := newSource(t, srv.URL).Identity(context.Background())
	require.NoError(t, err)
	assert.Contains(t, id, `etag:"v1"`)
}

func TestHTTPSource_NoValidatorMeansSnapshot(t *testing.T) {
	content := body
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		w.Write([]byte(content))
	}))
	defer srv.Close()

	src := newSource(t, srv.URL)
	id, err := src.Identity(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Zero(t, gets.Load())

	first, table, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, first, "sha256:")
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, int32(1), gets.Load())

	content = body + "2024-03-06,Clothing,Produto 10,1,80,80\n"
	second, table, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, int32(2), gets.Load())
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, isWorkbook("https://example.com/data/Sales.XLSX?token=1"))
	assert.False(t, isWorkbook("https://example.com/data/sales.csv"))
	assert.False(t, isWorkbook("https://example.com/export"))
}
