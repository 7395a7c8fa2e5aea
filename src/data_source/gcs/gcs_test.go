package gcs

import (
	"context"
	"errors"
	"testing"

	"sales-observer/src/config"
	"sales-observer/src/helpers"
	"sales-observer/src/logger"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	bucket, object, err := ParseLocation("gs://sales-bucket/exports/2024/sales.csv")
	require.NoError(t, err)
	assert.Equal(t, "sales-bucket", bucket)
	assert.Equal(t, "exports/2024/sales.csv", object)

	for _, bad := range []string{"s3://b/o", "gs://bucket", "gs:///object", "gs://bucket/"} {
		_, _, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestGCSSource_ClientFailureIsDataSourceError(t *testing.T) {
	src, err := NewGCSSource("gs://b/o.csv", "", config.DefaultColumns(), logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "gs://b/o.csv", src.Name())

	src.NewClient = func(ctx context.Context) (*storage.Client, error) {
		return nil, errors.New("no credentials")
	}

	_, err = src.Load(context.Background())
	var dsErr *helpers.DataSourceError
	assert.ErrorAs(t, err, &dsErr)

	_, err = src.Identity(context.Background())
	assert.ErrorAs(t, err, &dsErr)
}
