package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for an ingest run.
type Metrics struct {
	FilesOpened     prometheus.Counter
	FilesSkipped    prometheus.Counter
	FilesPartial    prometheus.Counter
	LinesRead       prometheus.Counter
	RecordsObserved prometheus.Counter
	MalformedLines  prometheus.Counter
	RegionsTracked  prometheus.Gauge
	IngestDuration  prometheus.Histogram

	SummariesPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all ingest metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesOpened,
		m.FilesSkipped,
		m.FilesPartial,
		m.LinesRead,
		m.RecordsObserved,
		m.MalformedLines,
		m.RegionsTracked,
		m.IngestDuration,
		m.SummariesPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "files_opened_total",
			Help:      "Total input streams opened.",
		}),
		FilesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "files_skipped_total",
			Help:      "Total input streams that could not be opened.",
		}),
		FilesPartial: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "files_partial_total",
			Help:      "Total input streams that failed after some lines were ingested.",
		}),
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "lines_read_total",
			Help:      "Total lines read across all input streams.",
		}),
		RecordsObserved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "records_observed_total",
			Help:      "Total well-formed records folded into region statistics.",
		}),
		MalformedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "malformed_lines_total",
			Help:      "Total lines skipped because they did not parse.",
		}),
		RegionsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_etl",
			Name:      "regions_tracked",
			Help:      "Number of distinct region codes seen so far.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_etl",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of ingesting a single input stream.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SummariesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_etl",
			Name:      "summaries_published_total",
			Help:      "Region summaries published to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
