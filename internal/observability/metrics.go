package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// facility map pipeline.
type Metrics struct {
	SnapshotsConsumed prometheus.Counter
	ViewsPublished    prometheus.Counter
	TransformErrors   prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Decode and join metrics.
	RowsDecoded     prometheus.Counter
	RecordsDropped  *prometheus.CounterVec // labels: reason={geo,color}
	DistinctCohorts prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// View store metrics.
	StaleViewsRejected prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SnapshotsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "facility_map",
			Name:      "snapshots_consumed_total",
			Help:      "Total table snapshots read from the source topic.",
		}),
		ViewsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "facility_map",
			Name:      "views_published_total",
			Help:      "Total map view models written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "facility_map",
			Name:      "transform_errors_total",
			Help:      "Total snapshot transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "facility_map",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		RowsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "facility_map",
			Name:      "rows_decoded_total",
			Help:      "Total table rows decoded into facility records.",
		}),
		RecordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facility_map",
			Name:      "records_dropped_total",
			Help:      "Records excluded from the colored map by join failures.",
		}, []string{"reason"}),
		DistinctCohorts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "facility_map",
			Name:      "distinct_cohorts",
			Help:      "Distinct launch cohorts in the most recent view.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facility_map",
			Name:      "batch_size",
			Help:      "Number of snapshots per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facility_map",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		StaleViewsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "facility_map",
			Name:      "stale_views_rejected_total",
			Help:      "Views dropped by the store because a newer generation was already installed.",
		}),
	}

	prometheus.MustRegister(
		m.SnapshotsConsumed,
		m.ViewsPublished,
		m.TransformErrors,
		m.PipelineRunning,
		m.RowsDecoded,
		m.RecordsDropped,
		m.DistinctCohorts,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.StaleViewsRejected,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SnapshotsConsumed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "facility_map", Name: "snapshots_consumed_total"}),
		ViewsPublished:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "facility_map", Name: "views_published_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "facility_map", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "facility_map", Name: "pipeline_running"}),
		RowsDecoded:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: "facility_map", Name: "rows_decoded_total"}),
		RecordsDropped:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "facility_map", Name: "records_dropped_total"}, []string{"reason"}),
		DistinctCohorts:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "facility_map", Name: "distinct_cohorts"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "facility_map", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "facility_map", Name: "batch_processing_duration_seconds"}),
		StaleViewsRejected:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "facility_map", Name: "stale_views_rejected_total"}),
	}
}
