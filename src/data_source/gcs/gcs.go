package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"sales-observer/src/data_source/csvfile"
	"sales-observer/src/data_source/xlsx"
	"sales-observer/src/helpers"
	"sales-observer/src/logger"
	"sales-observer/src/models"

	"cloud.google.com/go/storage"
)

// GCSSource reads a CSV or XLSX object from Google Cloud Storage.
type GCSSource struct {
	Bucket  string
	Object  string
	Sheet   string
	Columns models.MColumnMapping
	Logger  *logger.Logger

	// NewClient is overridable for tests; defaults to storage.NewClient.
	NewClient func(ctx context.Context) (*storage.Client, error)
}

// -----------------------------------------------------------------------------

func NewGCSSource(location, sheet string, columns models.MColumnMapping, log *logger.Logger) (*GCSSource, error) {
	bucket, object, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	return &GCSSource{
		Bucket:  bucket,
		Object:  object,
		Sheet:   sheet,
		Columns: columns,
		Logger:  log,
		NewClient: func(ctx context.Context) (*storage.Client, error) {
			return storage.NewClient(ctx)
		},
	}, nil
}

// -----------------------------------------------------------------------------

// ParseLocation splits gs://bucket/path/to/object.
func ParseLocation(location string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(location, "gs://")
	if !ok {
		return "", "", helpers.NewConfigurationError(helpers.ErrUnknownSource, "%q is not a gs:// location", location)
	}
	bucket, object, _ = strings.Cut(rest, "/")
	if bucket == "" || object == "" {
		return "", "", helpers.NewConfigurationError(nil, "%q must name a bucket and an object", location)
	}
	return bucket, object, nil
}

// -----------------------------------------------------------------------------

func (s *GCSSource) Name() string {
	return fmt.Sprintf("gs://%s/%s", s.Bucket, s.Object)
}

// -----------------------------------------------------------------------------

// Identity is the object generation, which changes on every overwrite.
func (s *GCSSource) Identity(ctx context.Context) (string, error) {
	client, err := s.NewClient(ctx)
	if err != nil {
		return "", helpers.NewDataSourceError(err, "create storage client")
	}
	defer client.Close()

	attrs, err := client.Bucket(s.Bucket).Object(s.Object).Attrs(ctx)
	if err != nil {
		return "", helpers.NewDataSourceError(err, "stat %s", s.Name())
	}
	return fmt.Sprintf("%s#%d.%d", s.Name(), attrs.Generation, attrs.Metageneration), nil
}

// -----------------------------------------------------------------------------

func (s *GCSSource) Load(ctx context.Context) (*models.MRawTable, error) {
	client, err := s.NewClient(ctx)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "create storage client")
	}
	defer client.Close()

	r, err := client.Bucket(s.Bucket).Object(s.Object).NewReader(ctx)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "open GCS object reader %s", s.Name())
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, helpers.NewDataSourceError(err, "read GCS object %s", s.Name())
	}

	var table *models.MRawTable
	if strings.EqualFold(path.Ext(s.Object), ".xlsx") {
		table, err = xlsx.Decode(bytes.NewReader(data), s.Name(), s.Sheet, s.Columns)
	} else {
		table, err = csvfile.Decode(bytes.NewReader(data), s.Name(), s.Columns)
	}
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Loaded %d rows from %s", len(table.Rows), s.Name())
	return table, nil
}
