package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "resume_parser"

// Parse outcomes recorded by ObserveParse
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus collectors for parsing and the HTTP API.
// Each Metrics owns its registry so tests and multiple servers never collide.
type Metrics struct {
	registry *prometheus.Registry

	parsesTotal     *prometheus.CounterVec
	parseDuration   *prometheus.HistogramVec
	entitiesFound   *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors, including the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "parses_total",
			Help:      "Résumés parsed, by input source and outcome.",
		}, []string{"source", "outcome"}),
		parseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent extracting and parsing one résumé.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"source"}),
		entitiesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "entities_total",
			Help:      "Entities reconstructed from parsed résumés, by kind.",
		}, []string{"kind"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.parsesTotal,
		m.parseDuration,
		m.entitiesFound,
		m.requestsTotal,
		m.requestDuration,
	)
	return m
}

// ObserveParse records one parse attempt. Nil-safe so callers can leave metrics unset.
func (m *Metrics) ObserveParse(source, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.parsesTotal.WithLabelValues(source, outcome).Inc()
	m.parseDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveEntities adds per-kind entity counts from a successful parse
func (m *Metrics) ObserveEntities(counts map[string]int) {
	if m == nil {
		return
	}
	for kind, n := range counts {
		m.entitiesFound.WithLabelValues(kind).Add(float64(n))
	}
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry for gathering in tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
