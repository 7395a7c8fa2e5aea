package interfaces

import (
	"context"

	"sales-observer/src/models"
)

// -----------------------------------------------------------------------------
// IAnalyticsService is what the HTTP and gRPC surfaces need from a session.
// -----------------------------------------------------------------------------

type IAnalyticsService interface {
	// Refresh reloads the source if it changed and recomputes the report
	Refresh(ctx context.Context) (*models.MReport, error)

	// Latest returns the last successful report
	Latest() (*models.MReport, error)

	// Status summarises the session
	Status() models.MServiceStatus

	// Invalidate forgets cached tables
	Invalidate()
}
