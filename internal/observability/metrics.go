// Package observability holds the Prometheus metrics for the dispatcher.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"kisanmitra/internal/types"
)

// Metrics holds the counters and histograms recorded during dispatch runs.
type Metrics struct {
	Outcomes    *prometheus.CounterVec // label: decision
	RunDuration prometheus.Histogram
	RunSize     prometheus.Histogram
}

// NewMetrics creates all dispatcher metrics and registers them with the
// given registry (use prometheus.DefaultRegisterer in production, a fresh
// registry in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kisanmitra",
			Name:      "dispatch_outcomes_total",
			Help:      "Recipient outcomes per dispatch run, by decision.",
		}, []string{"decision"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kisanmitra",
			Name:      "dispatch_run_duration_seconds",
			Help:      "Duration of a complete dispatch run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		RunSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kisanmitra",
			Name:      "dispatch_run_recipients",
			Help:      "Number of recipients processed per dispatch run.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}

	reg.MustRegister(m.Outcomes, m.RunDuration, m.RunSize)
	return m
}

// RecordOutcome counts one terminal recipient decision.
func (m *Metrics) RecordOutcome(decision types.Decision) {
	m.Outcomes.WithLabelValues(string(decision)).Inc()
}

// RecordRun records the duration and size of a completed run.
func (m *Metrics) RecordRun(duration time.Duration, recipients int) {
	m.RunDuration.Observe(duration.Seconds())
	m.RunSize.Observe(float64(recipients))
}
