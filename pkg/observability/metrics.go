// Package observability wires engine hooks to Prometheus metrics.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/espalier/pkg/domain"
)

// Metrics holds the Prometheus collectors for engine activity. Attach it to
// an engine via Hooks().
type Metrics struct {
	BuildsTotal    *prometheus.CounterVec
	PhrasesApplied prometheus.Counter
	PhrasesSkipped prometheus.Counter
	CallbacksTotal prometheus.Counter
	BuildDuration  prometheus.Histogram
}

// NewMetrics creates and registers the collectors on the given registerer.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "builds_total",
			Help:      "Completed builds by status.",
		}, []string{"status"}),
		PhrasesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "phrases_applied_total",
			Help:      "Phrases dispatched to a registered handler.",
		}),
		PhrasesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "phrases_skipped_total",
			Help:      "Phrases dropped because no handler was registered.",
		}),
		CallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "callbacks_total",
			Help:      "Deferred callbacks executed during resolve.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "espalier",
			Name:      "build_duration_seconds",
			Help:      "Wall-clock duration of full builds.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.BuildsTotal, m.PhrasesApplied, m.PhrasesSkipped, m.CallbacksTotal, m.BuildDuration)
	return m
}

// Hooks returns engine hooks that feed these collectors.
func (m *Metrics) Hooks() domain.BuildHooks {
	return domain.BuildHooks{
		OnPhraseApplied: func(_ context.Context, _ *domain.PhraseEvent) {
			m.PhrasesApplied.Inc()
		},
		OnPhraseSkipped: func(_ context.Context, _ *domain.PhraseEvent) {
			m.PhrasesSkipped.Inc()
		},
		OnCallback: func(_ context.Context, ev *domain.CallbackEvent) {
			if !ev.Skipped {
				m.CallbacksTotal.Inc()
			}
		},
		OnBuildDone: func(_ context.Context, ev *domain.BuildEvent) {
			status := "ok"
			if ev.Err != nil {
				status = "error"
			}
			m.BuildsTotal.WithLabelValues(status).Inc()
			m.BuildDuration.Observe(ev.Duration.Seconds())
		},
	}
}
