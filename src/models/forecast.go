package models

// SeriesKind tags a forecast point as observed or model output.
type SeriesKind string

const (
	KindActual    SeriesKind = "actual"
	KindPredicted SeriesKind = "predicted"
)

// MForecastPoint is one row of the combined actual+predicted series.
type MForecastPoint struct {
	Category string     `json:"category"`
	Month    int        `json:"month"`
	Value    float64    `json:"value"`
	Kind     SeriesKind `json:"kind"`
}

// MTrend summarizes the fitted line for one category.
type MTrend struct {
	Category  string  `json:"category"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	Points    int     `json:"points"`
}
