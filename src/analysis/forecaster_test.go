package analysis

import (
	"context"
	"testing"

	"sales-observer/src/logger"
	"sales-observer/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForecaster(parallel int, clamp bool) *Forecaster {
	return NewForecaster(models.MForecastConfig{
		Horizon:       []int{6, 7, 8, 9},
		ClampNegative: clamp,
		Parallel:      parallel,
	}, logger.NewNop())
}

func cleanRows(rows ...models.MCleanTransaction) *models.MCleanTable {
	return &models.MCleanTable{Rows: rows}
}

func at(month int, category, total string) models.MCleanTransaction {
	return models.MCleanTransaction{
		MTransaction: tx("", category, "P", 1, total, total),
		Month:        month,
	}
}

func byKind(points []models.MForecastPoint, category string, kind models.SeriesKind) []models.MForecastPoint {
	var out []models.MForecastPoint
	for _, p := range points {
		if p.Category == category && p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func TestForecaster_SinglePointIsFlat(t *testing.T) {
	points, trends, err := newTestForecaster(0, false).Forecast(context.Background(),
		cleanRows(at(2, "Books", "1000")), nil)
	require.NoError(t, err)

	require.Len(t, trends, 1)
	assert.Equal(t, 0.0, trends[0].Slope)
	assert.Equal(t, 1, trends[0].Points)

	predicted := byKind(points, "Books", models.KindPredicted)
	require.Len(t, predicted, 4)
	for i, p := range predicted {
		assert.Equal(t, 6+i, p.Month)
		assert.Equal(t, 1000.0, p.Value)
	}
}

func TestForecaster_LinearSeries(t *testing.T) {
	clean := cleanRows(at(1, "A", "100"), at(2, "A", "200"), at(3, "A", "300"))
	points, trends, err := newTestForecaster(0, false).Forecast(context.Background(), clean, nil)
	require.NoError(t, err)

	require.Len(t, trends, 1)
	assert.InDelta(t, 100.0, trends[0].Slope, 1e-9)
	assert.InDelta(t, 0.0, trends[0].Intercept, 1e-9)

	predicted := byKind(points, "A", models.KindPredicted)
	require.Len(t, predicted, 4)
	for _, p := range predicted {
		assert.InDelta(t, float64(p.Month)*100, p.Value, 1e-9)
	}
}

func TestForecaster_PointCountPerCategory(t *testing.T) {
	clean := cleanSample(t)
	points, trends, err := newTestForecaster(0, false).Forecast(context.Background(), clean, nil)
	require.NoError(t, err)

	history := map[string]int{"Clothing": 4, "Electronics": 2, "Grocery": 2}
	require.Len(t, trends, len(history))
	for category, n := range history {
		assert.Len(t, byKind(points, category, models.KindActual), n, category)
		assert.Len(t, byKind(points, category, models.KindPredicted), 4, category)
	}
	assert.Len(t, points, 8+4*3)
}

func TestForecaster_OrderingWithinCategory(t *testing.T) {
	clean := cleanRows(at(4, "B", "10"), at(1, "B", "40"), at(2, "A", "5"), at(1, "B", "2"))
	points, _, err := newTestForecaster(0, false).Forecast(context.Background(), clean, nil)
	require.NoError(t, err)

	var got []string
	for _, p := range points {
		got = append(got, p.Category+":"+string(p.Kind))
	}
	assert.Equal(t, []string{
		"A:actual", "A:predicted", "A:predicted", "A:predicted", "A:predicted",
		"B:actual", "B:actual", "B:predicted", "B:predicted", "B:predicted", "B:predicted",
	}, got)

	actualB := byKind(points, "B", models.KindActual)
	assert.Equal(t, 1, actualB[0].Month)
	assert.Equal(t, 42.0, actualB[0].Value)
	assert.Equal(t, 4, actualB[1].Month)
}

func TestForecaster_SkipsCategoryWithoutHistory(t *testing.T) {
	clean := cleanRows(at(1, "A", "10"), at(2, "A", "20"))
	points, trends, err := newTestForecaster(0, false).Forecast(context.Background(), clean, []string{"Ghost", "A"})
	require.NoError(t, err)

	require.Len(t, trends, 1)
	assert.Equal(t, "A", trends[0].Category)
	assert.Empty(t, byKind(points, "Ghost", models.KindActual))
	assert.Empty(t, byKind(points, "Ghost", models.KindPredicted))
}

func TestForecaster_SkipWithoutLogger(t *testing.T) {
	f := &Forecaster{Horizon: []int{6, 7}}
	clean := cleanRows(at(1, "A", "10"))

	var trends []models.MTrend
	var err error
	require.NotPanics(t, func() {
		_, trends, err = f.Forecast(context.Background(), clean, []string{"Ghost", "A"})
	})
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, "A", trends[0].Category)
}

func TestForecaster_ClampNegative(t *testing.T) {
	clean := cleanRows(at(1, "A", "1000"), at(2, "A", "500"), at(3, "A", "0"))

	points, _, err := newTestForecaster(0, false).Forecast(context.Background(), clean, nil)
	require.NoError(t, err)
	assert.InDelta(t, -1500.0, byKind(points, "A", models.KindPredicted)[0].Value, 1e-9)

	points, _, err = newTestForecaster(0, true).Forecast(context.Background(), clean, nil)
	require.NoError(t, err)
	for _, p := range byKind(points, "A", models.KindPredicted) {
		assert.Equal(t, 0.0, p.Value)
	}
}

func TestForecaster_ParallelMatchesSequential(t *testing.T) {
	clean := cleanSample(t)
	seqPoints, seqTrends, err := newTestForecaster(1, false).Forecast(context.Background(), clean, nil)
	require.NoError(t, err)
	parPoints, parTrends, err := newTestForecaster(8, false).Forecast(context.Background(), clean, nil)
	require.NoError(t, err)

	assert.Equal(t, seqPoints, parPoints)
	assert.Equal(t, seqTrends, parTrends)
}

func TestForecaster_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestForecaster(2, false).Forecast(ctx, cleanSample(t), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
