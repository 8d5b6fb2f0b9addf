// Package metrics exposes Prometheus instrumentation for the import
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the pipeline's collectors.
type Metrics struct {
	registry *prometheus.Registry

	SessionsStarted    prometheus.Counter
	ActiveSessions     prometheus.Gauge
	ExtractedItems     prometheus.Histogram
	ImportRecords      *prometheus.CounterVec
	ImportDuration     prometheus.Histogram
	SnapshotRefreshes  prometheus.Counter
	SnapshotRefreshErr prometheus.Counter
}

// New creates a Metrics with its own registry, so tests can run isolated
// instances without duplicate-registration panics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "stockflow_import_sessions_started_total",
			Help: "Number of import sessions started.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stockflow_import_sessions_active",
			Help: "Import sessions currently held in memory.",
		}),
		ExtractedItems: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockflow_import_extracted_items",
			Help:    "Candidates extracted per document.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		ImportRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stockflow_import_records_total",
			Help: "Import records processed, by outcome.",
		}, []string{"outcome"}),
		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockflow_import_run_duration_seconds",
			Help:    "Wall time of import executor runs.",
			Buckets: prometheus.DefBuckets,
		}),
		SnapshotRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "stockflow_catalog_snapshot_refreshes_total",
			Help: "Catalog snapshot refreshes.",
		}),
		SnapshotRefreshErr: factory.NewCounter(prometheus.CounterOpts{
			Name: "stockflow_catalog_snapshot_refresh_errors_total",
			Help: "Failed catalog snapshot refreshes.",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
