package observability

import (
	"context"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/flatten"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by Logger hooks.
type Metrics struct {
	logs     *prometheus.CounterVec
	markers  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		logs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peek_logs_total",
				Help: "Total number of debug log calls by outcome",
			},
			[]string{"outcome"},
		),
		markers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peek_markers_total",
				Help: "Total number of markers produced while flattening",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "peek_flatten_duration_seconds",
				Help:    "Time spent flattening values",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}
	for _, o := range []domain.Outcome{domain.OutcomeEmitted, domain.OutcomeSkipped, domain.OutcomeTransportError} {
		m.logs.WithLabelValues(string(o))
	}
	if reg != nil {
		reg.MustRegister(m.logs, m.markers, m.duration)
	}
	return m
}

// Hooks returns the callbacks to pass to peek.WithHooks.
func (m *Metrics) Hooks() domain.LogHooks {
	return domain.LogHooks{
		OnSkip: func(ctx context.Context, ev *domain.LogEvent) {
			m.logs.WithLabelValues(string(domain.OutcomeSkipped)).Inc()
		},
		OnFlatten: func(ctx context.Context, ev *domain.LogEvent) {
			m.duration.Observe(ev.Duration.Seconds())
			for kind, n := range flatten.CountMarkers(ev.Node) {
				m.markers.WithLabelValues(string(kind)).Add(float64(n))
			}
		},
		OnEmit: func(ctx context.Context, ev *domain.LogEvent) {
			m.logs.WithLabelValues(string(ev.Outcome)).Inc()
		},
	}
}

// Collectors returns the underlying collectors, for custom registries.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.logs, m.markers, m.duration}
}
