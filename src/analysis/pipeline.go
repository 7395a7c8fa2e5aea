package analysis

import (
	"context"
	"fmt"
	"slices"
	"time"

	"sales-observer/src/logger"
	"sales-observer/src/models"

	"github.com/google/uuid"
)

// Pipeline composes the cleaning, aggregation, forecasting and narrative
// stages. Every stage receives the previous stage's output explicitly.
type Pipeline struct {
	Config     *models.MConfig
	Cleaner    *Cleaner
	Aggregator *Aggregator
	Forecaster *Forecaster
	Insights   InsightOptions
	Logger     *logger.Logger

	now func() time.Time
}

// -----------------------------------------------------------------------------

// NewPipeline wires the stages from configuration. cal may be nil.
func NewPipeline(cfg *models.MConfig, cal BusinessDayChecker, log *logger.Logger) (*Pipeline, error) {
	labeler, err := NewMonthLabeler(cfg.Report.MonthLocale)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Config:     cfg,
		Cleaner:    NewCleaner(cfg.Cleaning.DateLayouts),
		Aggregator: NewAggregator(labeler),
		Forecaster: NewForecaster(cfg.Forecast, log.With("forecaster")),
		Insights: InsightOptions{
			PriceThreshold: cfg.Report.PriceThreshold,
			TopProducts:    cfg.Report.TopProducts,
			Calendar:       cal,
		},
		Logger: log,
		now:    time.Now,
	}, nil
}

// -----------------------------------------------------------------------------

// Tables runs the deterministic part of the pipeline: identical input yields
// identical tables.
func (p *Pipeline) Tables(ctx context.Context, raw *models.MRawTable) (*models.MTables, *models.MCleanTable, error) {
	// 1. Clean
	clean, err := p.Cleaner.Clean(raw)
	if err != nil {
		return nil, nil, err
	}
	if clean.DroppedRows > 0 {
		p.Logger.Warning("Dropped %d of %d rows with unparseable %s", clean.DroppedRows, len(raw.Rows), models.ColDateSold)
	}
	if raw.SkippedRows > 0 {
		p.Logger.Warning("Skipped %d rows with an empty numeric cell", raw.SkippedRows)
	}

	// 2. Aggregate (independent views)
	monthly, err := p.Aggregator.MonthlyRevenue(clean)
	if err != nil {
		return nil, nil, fmt.Errorf("monthly revenue: %w", err)
	}
	tables := &models.MTables{
		Sample:             Preview(raw, p.Config.Report.SampleRows),
		MonthlyRevenue:     monthly,
		RevenueByCategory:  p.Aggregator.RevenueByCategory(clean),
		QuantityByProduct:  p.Aggregator.QuantityByProduct(clean),
		PriceQuantityPairs: p.Aggregator.PriceQuantityPairs(clean),
	}

	// 3. Forecast every category seen in the input, even if cleaning emptied it
	tables.Forecast, tables.Trends, err = p.Forecaster.Forecast(ctx, clean, rawCategories(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("forecast: %w", err)
	}

	return tables, clean, nil
}

// -----------------------------------------------------------------------------

// Run executes the whole pipeline and stamps the result.
func (p *Pipeline) Run(ctx context.Context, raw *models.MRawTable) (*models.MReport, error) {
	start := p.now()

	tables, clean, err := p.Tables(ctx, raw)
	if err != nil {
		return nil, err
	}

	report := &models.MReport{
		RunID:       uuid.NewString(),
		Source:      raw.Source,
		GeneratedAt: start.UTC(),
		Tables:      *tables,
		Insights:    BuildInsights(tables, clean, p.Insights),
		Metrics: models.MProcessingMetrics{
			InputRows:          len(raw.Rows) + raw.SkippedRows,
			CleanRows:          len(clean.Rows),
			DroppedRows:        clean.DroppedRows + raw.SkippedRows,
			BlankCellRows:      raw.SkippedRows,
			CategoriesForecast: len(tables.Trends),
		},
	}
	report.Metrics.DurationSeconds = p.now().Sub(start).Seconds()

	p.Logger.Info("Pipeline run %s: %d rows in, %d clean, %d categories forecast",
		report.RunID, report.Metrics.InputRows, report.Metrics.CleanRows, report.Metrics.CategoriesForecast)
	return report, nil
}

// -----------------------------------------------------------------------------

// Preview returns the first n rows as loaded, before any cleaning.
func Preview(raw *models.MRawTable, n int) []models.MTransaction {
	if n > len(raw.Rows) {
		n = len(raw.Rows)
	}
	if n <= 0 {
		return []models.MTransaction{}
	}
	return slices.Clone(raw.Rows[:n])
}

// -----------------------------------------------------------------------------

func rawCategories(raw *models.MRawTable) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, row := range raw.Rows {
		if _, ok := seen[row.Category]; !ok {
			seen[row.Category] = struct{}{}
			out = append(out, row.Category)
		}
	}
	return out
}
