// Package metrics exposes the ledger's Prometheus instrumentation: a
// lazily-registered counter/histogram set scoped to the Controller's
// orchestrating operations and the OrderBook's fill/cancel activity.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type controllerMetrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var (
	once     sync.Once
	registry *controllerMetrics
)

// Controller returns the lazily-initialised controller metrics registry.
func Controller() *controllerMetrics {
	once.Do(func() {
		registry = &controllerMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "sibond",
				Subsystem: "controller",
				Name:      "operations_total",
				Help:      "Total controller operations segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "sibond",
				Subsystem: "controller",
				Name:      "errors_total",
				Help:      "Total controller operation failures segmented by operation and error kind.",
			}, []string{"operation", "kind"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "sibond",
				Subsystem: "controller",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for controller operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
		}
		prometheus.MustRegister(registry.requests, registry.errors, registry.latency)
	})
	return registry
}

// Observe records the outcome of a controller operation with its elapsed
// time in seconds.
func (m *controllerMetrics) Observe(operation string, err error, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		m.errors.WithLabelValues(operation, err.Error()).Inc()
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(seconds)
}

type orderBookMetrics struct {
	fills     *prometheus.CounterVec
	cancels   prometheus.Counter
}

var (
	obOnce sync.Once
	obReg  *orderBookMetrics
)

// OrderBook returns the lazily-initialised order book metrics registry.
func OrderBook() *orderBookMetrics {
	obOnce.Do(func() {
		obReg = &orderBookMetrics{
			fills: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "sibond",
				Subsystem: "orderbook",
				Name:      "fills_total",
				Help:      "Total order fills segmented by side.",
			}, []string{"side"}),
			cancels: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "sibond",
				Subsystem: "orderbook",
				Name:      "cancels_total",
				Help:      "Total order cancellations.",
			}),
		}
		prometheus.MustRegister(obReg.fills, obReg.cancels)
	})
	return obReg
}

func (m *orderBookMetrics) RecordFill(isSell bool) {
	if m == nil {
		return
	}
	side := "buy"
	if isSell {
		side = "sell"
	}
	m.fills.WithLabelValues(side).Inc()
}

func (m *orderBookMetrics) RecordCancel() {
	if m == nil {
		return
	}
	m.cancels.Inc()
}
