package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	queriesTotal        *prometheus.CounterVec
	queryDuration       prometheus.Histogram
	queryResults        prometheus.Histogram
	recordsSkipped      *prometheus.CounterVec
	exportsTotal        *prometheus.CounterVec
	activeSessions      prometheus.Gauge
	circuitBreakerState *prometheus.GaugeVec
	circuitRejections   *prometheus.CounterVec
}

// NewPrometheusMetrics registers the pipeline collectors with reg.
// The server passes prometheus.DefaultRegisterer; tests pass a fresh registry.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_queries_total",
				Help: "Total number of transaction queries executed",
			},
			[]string{"source", "status"},
		),
		queryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transaction_query_duration_milliseconds",
				Help:    "Transaction query duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		queryResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transaction_query_results",
				Help:    "Number of records matched per query",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		recordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_records_skipped_total",
				Help: "Total number of malformed source records skipped",
			},
			[]string{"source"},
		),
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_exports_total",
				Help: "Total number of result exports generated",
			},
			[]string{"format"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_query_sessions",
				Help: "Current number of open query sessions",
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		circuitRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuit_breaker_rejections_total",
				Help: "Total number of calls rejected by an open circuit breaker",
			},
			[]string{"service"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	source := tags["source"]

	switch name {
	case "query.executed":
		m.queriesTotal.WithLabelValues(source, "success").Inc()
	case "query.failed":
		m.queriesTotal.WithLabelValues(source, "failed_"+tags["reason"]).Inc()
	case "query.record_skipped":
		m.recordsSkipped.WithLabelValues(source).Inc()
	case "export.generated":
		if format := tags["format"]; format != "" {
			m.exportsTotal.WithLabelValues(format).Inc()
		}
	case "circuit_breaker.rejected":
		m.circuitRejections.WithLabelValues(tags["service"]).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "query.duration":
		m.queryDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "query.results":
		m.queryResults.Observe(value)
	case "sessions.active":
		m.activeSessions.Set(value)
	case "circuit_breaker.state":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	}
}
