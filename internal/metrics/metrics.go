// Package metrics exposes Prometheus instrumentation for the chat backend:
// store operation latency and failures, turn outcomes, and guardrail trips.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type backendMetrics struct {
	storeOpDuration *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	storeBackend    *prometheus.GaugeVec

	turnsTotal     *prometheus.CounterVec
	turnDuration   *prometheus.HistogramVec
	guardrailTrips *prometheus.CounterVec
}

var (
	registry    *prometheus.Registry
	metricsOnce sync.Once
	metricsInst *backendMetrics
)

func get() *backendMetrics {
	metricsOnce.Do(func() {
		registry = prometheus.NewRegistry()

		m := &backendMetrics{
			storeOpDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "store_op_duration_seconds",
					Help:    "Conversation store operation duration by op and backend.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"op", "backend"},
			),
			storeErrors: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "store_errors_total",
					Help: "Swallowed conversation store failures by op and backend.",
				},
				[]string{"op", "backend"},
			),
			storeBackend: prometheus.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "store_backend_selected",
					Help: "Selected store backend (1 for the active one).",
				},
				[]string{"backend"},
			),
			turnsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chat_turns_total",
					Help: "Completed chat turns by agent and outcome.",
				},
				[]string{"agent", "status"},
			),
			turnDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "chat_turn_duration_seconds",
					Help:    "End-to-end chat turn duration by agent.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"agent"},
			),
			guardrailTrips: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "guardrail_trips_total",
					Help: "Input guardrail tripwire activations by guardrail.",
				},
				[]string{"guardrail"},
			),
		}

		registry.MustRegister(
			m.storeOpDuration,
			m.storeErrors,
			m.storeBackend,
			m.turnsTotal,
			m.turnDuration,
			m.guardrailTrips,
		)

		metricsInst = m
	})
	return metricsInst
}

// ObserveStoreOp records the duration of one store operation.
func ObserveStoreOp(op, backend string, d time.Duration) {
	get().storeOpDuration.WithLabelValues(op, backend).Observe(d.Seconds())
}

// IncStoreError counts a swallowed store failure.
func IncStoreError(op, backend string) {
	get().storeErrors.WithLabelValues(op, backend).Inc()
}

// SetStoreBackend marks which backend the selector chose.
func SetStoreBackend(backend string) {
	get().storeBackend.WithLabelValues(backend).Set(1)
}

// RecordTurn counts one finished chat turn and its duration.
func RecordTurn(agent, status string, d time.Duration) {
	m := get()
	m.turnsTotal.WithLabelValues(agent, status).Inc()
	m.turnDuration.WithLabelValues(agent).Observe(d.Seconds())
}

// IncGuardrailTrip counts one guardrail tripwire activation.
func IncGuardrailTrip(guardrail string) {
	get().guardrailTrips.WithLabelValues(guardrail).Inc()
}

// Handler serves the metrics registry over HTTP.
func Handler() http.Handler {
	get()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
