package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for policy-gate decisions.
type Metrics struct {
	CallsRouted  *prometheus.CounterVec
	CallsBlocked prometheus.Counter
	UsersErased  prometheus.Counter
	RouteLatency prometheus.Histogram
}

// New registers and returns policy-gate metrics collectors.
func New() *Metrics {
	return &Metrics{
		CallsRouted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacygate_gate_calls_routed_total",
			Help: "External model calls evaluated by the gate, labeled by provider and decision",
		}, []string{"provider", "decision"}),
		CallsBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_gate_calls_blocked_total",
			Help: "External model calls blocked for missing consent",
		}),
		UsersErased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_gate_users_erased_total",
			Help: "Completed subject-erasure requests",
		}),
		RouteLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "privacygate_gate_route_latency_seconds",
			Help:    "Latency of full gate evaluations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementCallsRouted(provider, decision string) {
	m.CallsRouted.WithLabelValues(provider, decision).Inc()
}

func (m *Metrics) IncrementCallsBlocked() { m.CallsBlocked.Inc() }
func (m *Metrics) IncrementUsersErased() { m.UsersErased.Inc() }

func (m *Metrics) ObserveRouteLatency(durationSeconds float64) {
	m.RouteLatency.Observe(durationSeconds)
}
