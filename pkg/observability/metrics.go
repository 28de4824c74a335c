// Package observability exposes engine activity as Prometheus
// metrics, wired in through the domain lifecycle hooks.
package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberflow/emberflow/pkg/domain"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	registry     *prometheus.Registry
	runsTotal    *prometheus.CounterVec
	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emberflow",
			Name:      "runs_total",
			Help:      "Flow executions by final status.",
		}, []string{"status"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emberflow",
			Name:      "steps_total",
			Help:      "Executed steps by node type and status.",
		}, []string{"type", "status"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "emberflow",
			Name:      "step_duration_seconds",
			Help:      "Simulated step duration by node type.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2},
		}, []string{"type"}),
	}
	reg.MustRegister(m.runsTotal, m.stepsTotal, m.stepDuration)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors. Combine with
// other hooks via Merge when needed.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			m.runsTotal.WithLabelValues(string(e.Status)).Inc()
		},
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			m.stepsTotal.WithLabelValues(e.NodeType, string(e.Status)).Inc()
			m.stepDuration.WithLabelValues(e.NodeType).Observe(e.Elapsed)
		},
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather exposes the underlying registry, mainly for tests.
func (m *Metrics) Gather() prometheus.Gatherer {
	return m.registry
}
