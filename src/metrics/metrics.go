// Package metrics provides Prometheus metrics for the analytics pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salesobserver"

// Metrics owns a private registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// PipelineRuns counts pipeline executions by status.
	PipelineRuns *prometheus.CounterVec
	// PipelineDuration measures end to end refresh time.
	PipelineDuration prometheus.Histogram
	// RowsLoaded is the row count of the last loaded table.
	RowsLoaded prometheus.Gauge
	// RowsDropped counts rows removed by cleaning.
	RowsDropped prometheus.Counter
	// CacheRequests counts loader cache lookups by result.
	CacheRequests *prometheus.CounterVec
}

// -----------------------------------------------------------------------------

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PipelineRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_runs_total",
				Help:      "Total number of pipeline runs",
			},
			[]string{"status"},
		),
		PipelineDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_duration_seconds",
				Help:      "Duration of load and analysis in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		RowsLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rows_loaded",
				Help:      "Rows in the most recently analysed table",
			},
		),
		RowsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_dropped_total",
				Help:      "Rows dropped because their sale date did not parse",
			},
		),
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loader_cache_requests_total",
				Help:      "Loader cache lookups",
			},
			[]string{"result"},
		),
	}
}

// -----------------------------------------------------------------------------

// RecordRun records a pipeline run.
func (m *Metrics) RecordRun(status string, seconds float64) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(status).Inc()
	m.PipelineDuration.Observe(seconds)
}

// RecordRows records the size of an analysed table.
func (m *Metrics) RecordRows(loaded, dropped int) {
	if m == nil {
		return
	}
	m.RowsLoaded.Set(float64(loaded))
	m.RowsDropped.Add(float64(dropped))
}

// RecordCacheRequest records a loader cache hit or miss.
func (m *Metrics) RecordCacheRequest(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// -----------------------------------------------------------------------------

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
