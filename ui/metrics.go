package ui

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus collectors of the playground.
type Metrics struct {
	requests      *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
	linesWritten  *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewMetrics registers the playground collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proplog_ui_requests_total",
				Help: "Total number of canonicalization requests",
			},
			[]string{"endpoint"},
		),

		parseFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proplog_ui_parse_failures_total",
				Help: "Total number of requests rejected with a syntax error",
			},
			[]string{"endpoint"},
		),

		linesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proplog_ui_canonical_lines_total",
				Help: "Total number of canonical lines produced",
			},
			[]string{"endpoint"},
		),

		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proplog_ui_canonicalize_duration_seconds",
				Help:    "Time spent parsing and canonicalizing a request",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to 2.6s
			},
			[]string{"endpoint"},
		),
	}
}

func (m *Metrics) RecordRequest(endpoint string) {
	m.requests.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) RecordParseFailure(endpoint string) {
	m.parseFailures.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) RecordLines(endpoint string, n int) {
	m.linesWritten.WithLabelValues(endpoint).Add(float64(n))
}

func (m *Metrics) ObserveDuration(endpoint string, seconds float64) {
	m.duration.WithLabelValues(endpoint).Observe(seconds)
}
