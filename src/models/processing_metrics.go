package models

// MProcessingMetrics represents the performance metrics for one pipeline run.
type MProcessingMetrics struct {
	DurationSeconds    float64 `json:"duration_seconds"`
	InputRows          int     `json:"input_rows"`
	CleanRows          int     `json:"clean_rows"`
	DroppedRows        int     `json:"dropped_rows"`
	BlankCellRows      int     `json:"blank_cell_rows"`
	CategoriesForecast int     `json:"categories_forecast"`
	CacheHit           bool    `json:"cache_hit"`
}
