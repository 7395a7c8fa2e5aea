package analysis

import (
	"context"
	"slices"
	"sort"

	"sales-observer/src/analysis/core"
	"sales-observer/src/helpers"
	"sales-observer/src/logger"
	"sales-observer/src/models"

	"golang.org/x/sync/errgroup"
)

// Forecaster fits one linear revenue trend per category and projects it over
// a fixed horizon of month buckets.
type Forecaster struct {
	Horizon       []int
	ClampNegative bool
	Parallel      int
	Logger        *logger.Logger
}

// categoryForecast is the per-category result slot.
type categoryForecast struct {
	points []models.MForecastPoint
	trend  models.MTrend
	ok     bool
}

// -----------------------------------------------------------------------------

func NewForecaster(cfg models.MForecastConfig, log *logger.Logger) *Forecaster {
	return &Forecaster{
		Horizon:       slices.Clone(cfg.Horizon),
		ClampNegative: cfg.ClampNegative,
		Parallel:      cfg.Parallel,
		Logger:        log,
	}
}

// -----------------------------------------------------------------------------

// Forecast builds the combined actual+predicted series for each category.
// When categories is nil the categories present in the cleaned table are used.
// Categories without history are skipped; the rest are unaffected. Output is
// grouped by category in lexical order, actual points first.
func (f *Forecaster) Forecast(ctx context.Context, clean *models.MCleanTable, categories []string) ([]models.MForecastPoint, []models.MTrend, error) {
	if categories == nil {
		categories = categoriesOf(clean)
	} else {
		categories = slices.Clone(categories)
		sort.Strings(categories)
		categories = slices.Compact(categories)
	}

	results := make([]categoryForecast, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	if f.Parallel > 0 {
		g.SetLimit(f.Parallel)
	} else {
		g.SetLimit(1)
	}
	for i, category := range categories {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = f.forecastCategory(clean, category)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	log := f.Logger
	if log == nil {
		log = logger.NewNop()
	}

	var points []models.MForecastPoint
	var trends []models.MTrend
	for i, res := range results {
		if !res.ok {
			log.Warning("%v", helpers.NewForecastError(nil, "category %q has no history, skipped", categories[i]))
			continue
		}
		points = append(points, res.points...)
		trends = append(trends, res.trend)
	}
	return points, trends, nil
}

// -----------------------------------------------------------------------------

func (f *Forecaster) forecastCategory(clean *models.MCleanTable, category string) categoryForecast {
	months, totals := monthlyTotals(clean.Rows, func(r *models.MCleanTransaction) bool {
		return r.Category == category
	})

	x := make([]float64, len(months))
	y := make([]float64, len(months))
	points := make([]models.MForecastPoint, 0, len(months)+len(f.Horizon))
	for i, m := range months {
		x[i] = float64(m)
		y[i] = totals[m].InexactFloat64()
		points = append(points, models.MForecastPoint{
			Category: category,
			Month:    m,
			Value:    y[i],
			Kind:     models.KindActual,
		})
	}

	fit, ok := core.FitLinear(x, y)
	if !ok {
		return categoryForecast{}
	}

	for _, m := range f.Horizon {
		v := fit.Predict(float64(m))
		if f.ClampNegative && v < 0 {
			v = 0
		}
		points = append(points, models.MForecastPoint{
			Category: category,
			Month:    m,
			Value:    v,
			Kind:     models.KindPredicted,
		})
	}

	return categoryForecast{
		points: points,
		trend: models.MTrend{
			Category:  category,
			Slope:     fit.Slope,
			Intercept: fit.Intercept,
			Points:    fit.Points,
		},
		ok: true,
	}
}

// -----------------------------------------------------------------------------

func categoriesOf(clean *models.MCleanTable) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range clean.Rows {
		if _, ok := seen[row.Category]; ok {
			continue
		}
		seen[row.Category] = struct{}{}
		out = append(out, row.Category)
	}
	sort.Strings(out)
	return out
}
