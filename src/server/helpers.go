package server

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"sales-observer/src/helpers"
	"sales-observer/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

// normalizeViews validates view names. No names means every view.
func normalizeViews(views []string) ([]string, error) {
	if len(views) == 0 {
		return slices.Clone(models.Views), nil
	}
	out := make([]string, 0, len(views))
	for _, v := range views {
		if !slices.Contains(models.Views, v) {
			return nil, helpers.NewValidationError(helpers.ErrUnknownView, "view %q", v)
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------

// filterReport returns a shallow copy carrying only the requested views.
func filterReport(report *models.MReport, views []string) *models.MReport {
	if report == nil {
		return nil
	}
	out := &models.MReport{
		RunID:       report.RunID,
		Source:      report.Source,
		GeneratedAt: report.GeneratedAt,
		Metrics:     report.Metrics,
	}
	for _, v := range views {
		switch v {
		case models.ViewSample:
			out.Tables.Sample = report.Tables.Sample
		case models.ViewMonthly:
			out.Tables.MonthlyRevenue = report.Tables.MonthlyRevenue
		case models.ViewCategories:
			out.Tables.RevenueByCategory = report.Tables.RevenueByCategory
		case models.ViewProducts:
			out.Tables.QuantityByProduct = report.Tables.QuantityByProduct
		case models.ViewPriceQuantity:
			out.Tables.PriceQuantityPairs = report.Tables.PriceQuantityPairs
		case models.ViewForecast:
			out.Tables.Forecast = report.Tables.Forecast
			out.Tables.Trends = report.Tables.Trends
		case models.ViewInsights:
			out.Insights = report.Insights
		}
	}
	return out
}

// -----------------------------------------------------------------------------

// queryLimit parses ?limit=. Absent means no limit (-1). On a bad value the
// request is aborted with 400 and ok is false.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return -1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(c, helpers.NewValidationError(err, "limit must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

// head returns at most the first limit items. A negative limit keeps all.
func head[T any](items []T, limit int) []T {
	if limit >= 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}

// -----------------------------------------------------------------------------

func statusFor(err error) int {
	var valErr *helpers.ValidationError
	var cfgErr *helpers.ConfigurationError
	var srcErr *helpers.DataSourceError
	switch {
	case errors.Is(err, helpers.ErrNoReport):
		return http.StatusServiceUnavailable
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.As(err, &srcErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

func writeError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
