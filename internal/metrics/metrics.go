// Package metrics provides Prometheus metrics for the pack tracker.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packtracker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "packtracker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Statistics Metrics
	StatsComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "packtracker_stats_compute_duration_seconds",
			Help:    "Time taken to read the store and rebuild a value series",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"range"},
	)

	StatsCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packtracker_stats_cache_results_total",
			Help: "Statistics cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	StatsReadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packtracker_stats_read_failures_total",
			Help: "Store reads that failed and were treated as empty",
		},
		[]string{"source"}, // "cards", "sealed", "card_logs", "sealed_logs"
	)

	StatsMalformedTimestamps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "packtracker_stats_malformed_timestamps_total",
			Help: "Change events whose time could not be parsed and was treated as the epoch",
		},
	)

	StatsSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "packtracker_stats_superseded_total",
			Help: "Statistics requests dropped because a newer request from the same client arrived",
		},
	)

	// Collection Metrics
	CollectionValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "packtracker_collection_value",
			Help: "Current total value of the collection (owned x unit cost)",
		},
	)

	CollectionItemsByKind = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "packtracker_collection_items",
			Help: "Number of owned items by kind",
		},
		[]string{"kind"},
	)

	CollectionValueByKind = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "packtracker_collection_value_by_kind",
			Help: "Collection value by kind",
		},
		[]string{"kind"},
	)

	// Edit and Import Metrics
	QuickEditRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packtracker_quick_edit_rows_total",
			Help: "Quick edit rows by kind and outcome",
		},
		[]string{"kind", "result"}, // result: "applied", "not_found", "error"
	)

	ImportItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packtracker_import_items_total",
			Help: "Bulk import rows written by kind and mode",
		},
		[]string{"kind", "mode", "result"}, // result: "written", "failed"
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "packtracker_import_duration_seconds",
			Help:    "Time taken to apply a bulk import",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Log ID Migration Metrics
	LogMigrationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "packtracker_log_migration_documents_total",
			Help: "Change log documents seen by the ID migration",
		},
		[]string{"kind", "action"}, // action: "migrated", "skipped"
	)
)
