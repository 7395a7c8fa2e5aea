package models

// MInsight is one narrative statement derived from the report tables.
type MInsight struct {
	Section string  `json:"section"`
	Kind    string  `json:"kind"`
	Message string  `json:"message"`
	Value   float64 `json:"value"`
}
