package interfaces

import "sales-observer/src/models"

// -----------------------------------------------------------------------------
// IReportPublisher receives every freshly computed report (websocket hub, logs...).
// -----------------------------------------------------------------------------

type IReportPublisher interface {
	// -----------------------------------------------------------------------------
	// Publish pushes the report to listeners. Must not block the caller for long.
	Publish(report *models.MReport)
}
