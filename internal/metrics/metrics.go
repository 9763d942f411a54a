// Package metrics exposes Prometheus collectors for storyboard generation and
// implements storyboard.Observer on top of them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

const namespace = "storyboard"

// Metrics holds the collectors registered on one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	callAttempts *prometheus.CounterVec
	callRetries  *prometheus.CounterVec
	generations  *prometheus.CounterVec
	duration     prometheus.Histogram
	httpRequests *prometheus.CounterVec
}

// New registers the storyboard collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the storyboard collectors on reg and serves them
// from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: gatherer,
		callAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "call_attempts_total",
				Help:      "Total outbound API call attempts, partitioned by call.",
			},
			[]string{"call"},
		),
		callRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "call_retries_total",
				Help:      "Total backoff retries after a transient failure, partitioned by call.",
			},
			[]string{"call"},
		),
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total storyboard generations, partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_seconds",
				Help:      "Wall-clock duration of a storyboard generation, including backoff waits.",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s .. 256s
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP API requests, partitioned by route and status code.",
			},
			[]string{"route", "code"},
		),
	}
}

// CallAttempted implements storyboard.Observer.
func (m *Metrics) CallAttempted(call string) {
	m.callAttempts.WithLabelValues(call).Inc()
}

// CallRetried implements storyboard.Observer.
func (m *Metrics) CallRetried(call string, _ int, _ time.Duration) {
	m.callRetries.WithLabelValues(call).Inc()
}

// GenerationFinished implements storyboard.Observer.
func (m *Metrics) GenerationFinished(outcome string, elapsed time.Duration) {
	m.generations.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// HTTPRequest counts one served request.
func (m *Metrics) HTTPRequest(route string, code int) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

var _ storyboard.Observer = (*Metrics)(nil)
