package interfaces

import (
	"context"

	"sales-observer/src/models"
)

// -----------------------------------------------------------------------------
// ITransactionSource reads the sales transaction table from one location.
// -----------------------------------------------------------------------------

type ITransactionSource interface {

	// Name returns a short, human readable description of the source
	Name() string

	// -----------------------------------------------------------------------------

	// Identity returns a key that changes whenever the underlying data changes
	// (path+size+mtime, object generation, HTTP validator). Cheap compared to Load.
	// An empty key means the source cannot tell without reading its content;
	// such sources implement ISnapshotSource.
	Identity(ctx context.Context) (string, error)

	// -----------------------------------------------------------------------------

	// Load reads and parses the whole table.
	Load(ctx context.Context) (*models.MRawTable, error)
}

// -----------------------------------------------------------------------------
// ISnapshotSource is a source keyed on a hash of its content. One read yields
// both the table and the key of exactly the bytes that were decoded.
// -----------------------------------------------------------------------------

type ISnapshotSource interface {
	ITransactionSource
	Snapshot(ctx context.Context) (string, *models.MRawTable, error)
}

// -----------------------------------------------------------------------------
// ISourceResolver maps a configured location onto a transaction source.
// -----------------------------------------------------------------------------

type ISourceResolver interface {
	Resolve(location string) (ITransactionSource, error)
}
