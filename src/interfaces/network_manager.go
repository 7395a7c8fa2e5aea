package interfaces

import "context"

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for outbound HTTP downloads.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Get performs a GET request to the specified URL with parameters.
	// Returns the response body as bytes or an error.
	Get(ctx context.Context, url string, params map[string]string) ([]byte, error)

	// -----------------------------------------------------------------------------

	// Head returns a validator for the resource (ETag or Last-Modified), empty if none.
	Head(ctx context.Context, url string) (string, error)
}
