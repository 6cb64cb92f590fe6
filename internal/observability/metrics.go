package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	DatasetRows       prometheus.Gauge
	DatasetLoads      prometheus.Counter
	CoercedTimestamps prometheus.Gauge

	QueriesTotal  *prometheus.CounterVec // labels: endpoint
	QueryDuration prometheus.Histogram
	FilteredRows  prometheus.Histogram
	ExportsTotal  prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DatasetRows,
		m.DatasetLoads,
		m.CoercedTimestamps,
		m.QueriesTotal,
		m.QueryDuration,
		m.FilteredRows,
		m.ExportsTotal,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fawn_dash",
			Name:      "dataset_rows",
			Help:      "Number of observations in the loaded dataset.",
		}),
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fawn_dash",
			Name:      "dataset_loads_total",
			Help:      "Total dataset loads from disk (cache misses).",
		}),
		CoercedTimestamps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fawn_dash",
			Name:      "dataset_coerced_timestamps",
			Help:      "Rows in the loaded dataset whose Period cell failed to parse.",
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fawn_dash",
			Name:      "queries_total",
			Help:      "Dashboard API requests by endpoint.",
		}, []string{"endpoint"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fawn_dash",
			Name:      "query_duration_seconds",
			Help:      "Duration of a full filter-and-aggregate pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		FilteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fawn_dash",
			Name:      "filtered_rows",
			Help:      "Number of rows remaining after filtering, per query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		ExportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fawn_dash",
			Name:      "exports_total",
			Help:      "CSV exports of the filtered view.",
		}),
	}
}
