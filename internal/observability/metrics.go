package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the application.
type Metrics struct {
	DatasetsLoaded prometheus.Counter
	LoadErrors     prometheus.Counter
	RecordsLoaded  prometheus.Gauge
	DatasetReady   prometheus.Gauge
	EmptyResults   prometheus.Counter

	// Artifact metrics.
	Renders          *prometheus.CounterVec   // labels: kind={cluster,heat,magnitude,depth}, outcome={success,error}
	RenderDuration   *prometheus.HistogramVec // labels: kind
	ReportsGenerated *prometheus.CounterVec   // labels: outcome={success,error}
	ReportDuration   prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}

	RecordsExported prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetsLoaded,
		m.LoadErrors,
		m.RecordsLoaded,
		m.DatasetReady,
		m.EmptyResults,
		m.Renders,
		m.RenderDuration,
		m.ReportsGenerated,
		m.ReportDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.RecordsExported,
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
		DatasetsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_report",
			Name:      "datasets_loaded_total",
			Help:      "Total spreadsheets loaded successfully.",
		}),
		LoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_report",
			Name:      "load_errors_total",
			Help:      "Total spreadsheet loads that failed.",
		}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_report",
			Name:      "records_loaded",
			Help:      "Number of records in the current dataset.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_report",
			Name:      "dataset_ready",
			Help:      "1 when a dataset is loaded, 0 otherwise.",
		}),
		EmptyResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_report",
			Name:      "empty_results_total",
			Help:      "Year filters that matched no records.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_report",
			Name:      "renders_total",
			Help:      "Visualizations rendered by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake_report",
			Name:      "render_duration_seconds",
			Help:      "Duration of a visualization render.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_report",
			Name:      "reports_generated_total",
			Help:      "PDF reports by outcome.",
		}, []string{"outcome"}),
		ReportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_report",
			Name:      "report_duration_seconds",
			Help:      "Duration of a PDF report generation.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_report",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_report",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_report",
			Name:      "records_exported_total",
			Help:      "Records published to the export topic.",
		}),
	}
}
