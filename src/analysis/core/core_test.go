package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMeanStd(t *testing.T) {
	mean, std := CalculateMeanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)

	mean, std = CalculateMeanStd([]float64{5})
	assert.Equal(t, 5.0, mean)
	assert.Zero(t, std)

	mean, std = CalculateMeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 2.0, std)
}

func TestCalculateCorrelation(t *testing.T) {
	assert.InDelta(t, 1.0, CalculateCorrelation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, CalculateCorrelation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Zero(t, CalculateCorrelation([]float64{1, 2}, []float64{1}))
	assert.Zero(t, CalculateCorrelation([]float64{1}, []float64{1}))
	assert.Zero(t, CalculateCorrelation([]float64{1, 2, 3}, []float64{4, 4, 4}))
}

func TestCalculateChangePercent(t *testing.T) {
	assert.Equal(t, 0.5, CalculateChangePercent(150, 100))
	assert.Equal(t, -0.25, CalculateChangePercent(75, 100))
	assert.Zero(t, CalculateChangePercent(10, 0))
}

func TestFitLinear(t *testing.T) {
	tests := []struct {
		name          string
		x, y          []float64
		wantOK        bool
		wantSlope     float64
		wantIntercept float64
	}{
		{"empty", nil, nil, false, 0, 0},
		{"length mismatch", []float64{1, 2}, []float64{1}, false, 0, 0},
		{"single point is flat", []float64{2}, []float64{1000}, true, 0, 1000},
		{"same x is flat at mean", []float64{3, 3}, []float64{10, 20}, true, 0, 15},
		{"exact line", []float64{1, 2, 3, 4}, []float64{10, 20, 30, 40}, true, 10, 0},
		{"noisy", []float64{1, 2, 3}, []float64{1, 3, 2}, true, 0.5, 1},
		{"decreasing", []float64{1, 2}, []float64{100, 50}, true, -50, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, ok := FitLinear(tt.x, tt.y)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.wantSlope, fit.Slope, 1e-9)
			assert.InDelta(t, tt.wantIntercept, fit.Intercept, 1e-9)
			assert.Equal(t, len(tt.x), fit.Points)
		})
	}
}

func TestLinearFit_PredictIsUnclamped(t *testing.T) {
	fit, ok := FitLinear([]float64{1, 2}, []float64{100, 50})
	assert.True(t, ok)
	assert.Equal(t, -150.0, fit.Predict(6))
}
