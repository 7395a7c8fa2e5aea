package models

import "time"

// MServiceStatus summarises the analytics session for health and control endpoints.
type MServiceStatus struct {
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	HasReport   bool      `json:"has_report"`
	LastRunID   string    `json:"last_run_id,omitempty"`
	LastRunAt   time.Time `json:"last_run_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Runs        int64     `json:"runs"`
	Failures    int64     `json:"failures"`
	CachedLoads int       `json:"cached_loads"`
}
