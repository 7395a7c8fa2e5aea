package server

import (
	"fmt"
	"net/http"
	"strconv"

	"sales-observer/src/exporter"
	"sales-observer/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Session endpoints
// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := s.connections
	s.stateMutex.RUnlock()

	var latest int64
	report, err := s.Service.Latest()
	if err == nil {
		latest = report.GeneratedAt.Unix()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   connections,
		"has_report":    err == nil,
		"latest_update": latest,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":            s.Config.Name,
		"horizon":         s.Config.Forecast.Horizon,
		"clamp_negative":  s.Config.Forecast.ClampNegative,
		"month_locale":    s.Config.Report.MonthLocale,
		"price_threshold": s.Config.Report.PriceThreshold,
		"calendar_mic":    s.Config.Report.CalendarMIC,
		"views":           models.Views,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Service.Status())
}

// -----------------------------------------------------------------------------

func (s *APIServer) latest(c *gin.Context) (*models.MReport, bool) {
	report, err := s.Service.Latest()
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return report, true
}

// -----------------------------------------------------------------------------

func (s *APIServer) getMetrics(c *gin.Context) {
	if report, ok := s.latest(c); ok {
		c.JSON(http.StatusOK, report.Metrics)
	}
}

func (s *APIServer) getReport(c *gin.Context) {
	if report, ok := s.latest(c); ok {
		c.JSON(http.StatusOK, report)
	}
}

func (s *APIServer) getInsights(c *gin.Context) {
	if report, ok := s.latest(c); ok {
		c.JSON(http.StatusOK, report.Insights)
	}
}

// -----------------------------------------------------------------------------

// postReload recomputes the report. ?purge=true forgets cached tables first.
func (s *APIServer) postReload(c *gin.Context) {
	if purge, _ := strconv.ParseBool(c.Query("purge")); purge {
		s.Service.Invalidate()
	}

	report, err := s.Service.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":             report.RunID,
		"processing_metrics": report.Metrics,
	})
}

// -----------------------------------------------------------------------------
// Views
// -----------------------------------------------------------------------------

func (s *APIServer) getMonthly(c *gin.Context) {
	if report, ok := s.latest(c); ok {
		c.JSON(http.StatusOK, report.Tables.MonthlyRevenue)
	}
}

func (s *APIServer) getCategories(c *gin.Context) {
	if report, ok := s.latest(c); ok {
		c.JSON(http.StatusOK, report.Tables.RevenueByCategory)
	}
}

func (s *APIServer) getPriceQuantity(c *gin.Context) {
	if report, ok := s.latest(c); ok {
		c.JSON(http.StatusOK, report.Tables.PriceQuantityPairs)
	}
}

// -----------------------------------------------------------------------------

// getProducts returns best sellers, optionally only the first ?limit=N.
func (s *APIServer) getProducts(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	report, ok := s.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, head(report.Tables.QuantityByProduct, limit))
}

// getSample returns the first loaded rows, optionally only the first ?limit=N.
func (s *APIServer) getSample(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	report, ok := s.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, head(report.Tables.Sample, limit))
}

// -----------------------------------------------------------------------------

// getForecast returns the combined series, optionally for one ?category=.
func (s *APIServer) getForecast(c *gin.Context) {
	report, ok := s.latest(c)
	if !ok {
		return
	}

	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusOK, gin.H{"points": report.Tables.Forecast, "trends": report.Tables.Trends})
		return
	}

	points := make([]models.MForecastPoint, 0)
	for _, p := range report.Tables.Forecast {
		if p.Category == category {
			points = append(points, p)
		}
	}
	trends := make([]models.MTrend, 0, 1)
	for _, t := range report.Tables.Trends {
		if t.Category == category {
			trends = append(trends, t)
		}
	}
	if len(points) == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no forecast for category %q", category)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points, "trends": trends})
}

// -----------------------------------------------------------------------------
// Export
// -----------------------------------------------------------------------------

func (s *APIServer) getExportCSV(c *gin.Context) {
	view := c.DefaultQuery("view", models.ViewMonthly)
	if _, err := normalizeViews([]string{view}); err != nil {
		writeError(c, err)
		return
	}

	report, ok := s.latest(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, view))
	c.Status(http.StatusOK)
	if err := exporter.WriteCSV(c.Writer, view, report); err != nil {
		s.Logger.Error("CSV export of %s failed: %v", view, err)
	}
}

func (s *APIServer) getExportXLSX(c *gin.Context) {
	report, ok := s.latest(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="sales-report.xlsx"`)
	c.Status(http.StatusOK)
	if err := exporter.WriteXLSX(c.Writer, report); err != nil {
		s.Logger.Error("XLSX export failed: %v", err)
	}
}
