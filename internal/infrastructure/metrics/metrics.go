package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booking_registry"

type Metrics struct {
	outcomes     *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	gatherer     prometheus.Gatherer
}

var (
	once     sync.Once
	instance *Metrics
)

// Default registers the collectors on the global registry. Safe to call
// multiple times.
func Default() *Metrics {
	once.Do(func() {
		instance = New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return instance
}

func New(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Registry operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and status.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		gatherer: g,
	}
	reg.MustRegister(m.outcomes, m.httpDuration)
	return m
}

// RecordOutcome satisfies application.OutcomeRecorder.
func (m *Metrics) RecordOutcome(operation, outcome string) {
	m.outcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
