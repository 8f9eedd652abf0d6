// Package metrics exposes Prometheus collectors for the bridge.
package metrics

import (
	"net/http"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "payment_bridge"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	resolutions        *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	operations         *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	reconciled         *prometheus.CounterVec
	janitorRuns        *prometheus.CounterVec
	janitorSettled     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resolver",
				Name:      "resolutions_total",
				Help:      "Remote identity resolutions by entity kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "resolver",
				Name:      "resolution_duration_seconds",
				Help:      "Latency of a single remote lookup.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "bridge",
				Name:      "operations_total",
				Help:      "Bridged operations by name and result.",
			},
			[]string{"operation", "result"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "bridge",
				Name:      "operation_duration_seconds",
				Help:      "End to end latency of bridged operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		reconciled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconcile",
				Name:      "transactions_total",
				Help:      "Local transactions passed through reconciliation, by result.",
			},
			[]string{"result"},
		),
		janitorRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "janitor",
				Name:      "runs_total",
				Help:      "Janitor sweeps by result.",
			},
			[]string{"result"},
		),
		janitorSettled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "janitor",
				Name:      "settled_transactions_total",
				Help:      "Pending local transactions whose status was settled from the remote instance.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.resolutions,
		m.resolutionDuration,
		m.operations,
		m.operationDuration,
		m.reconciled,
		m.janitorRuns,
		m.janitorSettled,
	)
	return m
}

var _ resolver.Observer = (*Metrics)(nil)

func (m *Metrics) ObserveResolution(kind resolver.Kind, outcome resolver.Outcome, elapsed time.Duration) {
	m.resolutions.WithLabelValues(string(kind), string(outcome)).Inc()
	m.resolutionDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveOperation(operation string, elapsed time.Duration, err error) {
	m.operations.WithLabelValues(operation, result(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveReconcile(total int, report reconcile.Report) {
	matched := total - report.Reused - report.Skipped
	if matched > 0 {
		m.reconciled.WithLabelValues("matched").Add(float64(matched))
	}
	if report.Reused > 0 {
		m.reconciled.WithLabelValues("reused").Add(float64(report.Reused))
	}
	if report.Skipped > 0 {
		m.reconciled.WithLabelValues("skipped").Add(float64(report.Skipped))
	}
}

func (m *Metrics) ObserveJanitorRun(settled int, err error) {
	m.janitorRuns.WithLabelValues(result(err)).Inc()
	m.janitorSettled.Add(float64(settled))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
