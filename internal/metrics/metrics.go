// Package metrics holds the Prometheus instruments of the report engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Report building
	ReportBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_build_duration_seconds",
			Help:    "Duration of report content builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"report_type"},
	)

	ReportBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_builds_total",
			Help: "Total number of report content builds",
		},
		[]string{"report_type", "result"}, // result: "ok", "degraded", "error"
	)

	// Rendering
	ReportRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_render_duration_seconds",
			Help:    "Duration of report rendering in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	ReportRenderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_render_errors_total",
			Help: "Total number of failed renders",
		},
		[]string{"target", "error_type"}, // error_type: "unavailable", "failed"
	)

	ReportRenderBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_render_bytes",
			Help:    "Size of rendered artifacts in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"target"},
	)

	// Data source
	DataSourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "data_source_query_duration_seconds",
			Help:    "Duration of record queries against the data source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	DataSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "data_source_errors_total",
			Help: "Total number of failed record queries",
		},
		[]string{"kind"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Export jobs
	ExportJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_jobs_total",
			Help: "Total number of async export jobs by final status",
		},
		[]string{"status"},
	)

	ExportJobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "export_jobs_active",
			Help: "Number of export jobs queued or rendering",
		},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveBuild records a report build
func ObserveBuild(reportType, result string, started time.Time) {
	ReportBuildDuration.WithLabelValues(reportType).Observe(time.Since(started).Seconds())
	ReportBuildsTotal.WithLabelValues(reportType, result).Inc()
}

// ObserveRender records a successful render
func ObserveRender(target string, size int, started time.Time) {
	ReportRenderDuration.WithLabelValues(target).Observe(time.Since(started).Seconds())
	ReportRenderBytes.WithLabelValues(target).Observe(float64(size))
}

// ObserveQuery records a data source query
func ObserveQuery(kind string, started time.Time, err error) {
	DataSourceDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	if err != nil {
		DataSourceErrors.WithLabelValues(kind).Inc()
	}
}
