// Package metrics exposes Prometheus instrumentation for the draw engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "mibu"

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is a
// valid no-op sink, so callers never need to branch on whether metrics are
// enabled.
type Metrics struct {
	drawsTotal      *prometheus.CounterVec
	shortfallsTotal prometheus.Counter
	reorderOutcomes *prometheus.CounterVec
	rewardsGranted  prometheus.Counter
	drawDuration    prometheus.Histogram
}

// Option configures Metrics construction.
type Option func(*options)

type options struct {
	namespace string
	registry  prometheus.Registerer
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(o *options) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

// WithRegistry registers the collectors on a custom registry instead of the
// process-global default.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// New builds and registers the engine collectors.
func New(opts ...Option) *Metrics {
	o := &options{
		namespace: defaultNamespace,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(o)
	}

	m := &Metrics{
		drawsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "draws_total",
			Help:      "Draw requests by terminal outcome.",
		}, []string{"outcome"}),
		shortfallsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "draw_shortfalls_total",
			Help:      "Draws that returned fewer places than requested.",
		}),
		reorderOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "reorder_outcomes_total",
			Help:      "Advisory reorder passes by outcome.",
		}, []string{"outcome"}),
		rewardsGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "rewards_granted_total",
			Help:      "Sponsor rewards granted.",
		}),
		drawDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "draw_duration_seconds",
			Help:      "End-to-end draw latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	o.registry.MustRegister(
		m.drawsTotal,
		m.shortfallsTotal,
		m.reorderOutcomes,
		m.rewardsGranted,
		m.drawDuration,
	)
	return m
}

// ObserveDraw records one finished draw attempt.
func (m *Metrics) ObserveDraw(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.drawsTotal.WithLabelValues(outcome).Inc()
	m.drawDuration.Observe(elapsed.Seconds())
}

// IncShortfall records a draw that came up short.
func (m *Metrics) IncShortfall() {
	if m == nil {
		return
	}
	m.shortfallsTotal.Inc()
}

// IncReorder records one advisory reorder outcome.
func (m *Metrics) IncReorder(outcome string) {
	if m == nil {
		return
	}
	m.reorderOutcomes.WithLabelValues(outcome).Inc()
}

// AddRewards records granted sponsor rewards.
func (m *Metrics) AddRewards(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rewardsGranted.Add(float64(n))
}
