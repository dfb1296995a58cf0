package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for consent ledger operations.
type Metrics struct {
	GrantsRecorded    *prometheus.CounterVec
	ChecksPassed      *prometheus.CounterVec
	ChecksFailed      *prometheus.CounterVec
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	GrantsErasedTotal prometheus.Counter
	CheckLatency      prometheus.Histogram
}

// New registers and returns consent metrics collectors.
func New() *Metrics {
	return &Metrics{
		GrantsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacygate_consent_grants_recorded_total",
			Help: "Total number of consent ledger rows appended, labeled by decision",
		}, []string{"decision"}),
		ChecksPassed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacygate_consent_checks_passed_total",
			Help: "Total number of consent checks that passed, labeled by scope",
		}, []string{"scope"}),
		ChecksFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacygate_consent_checks_failed_total",
			Help: "Total number of consent checks that failed, labeled by scope",
		}, []string{"scope"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_consent_cache_hits_total",
			Help: "Consent decision cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_consent_cache_misses_total",
			Help: "Consent decision cache misses",
		}),
		GrantsErasedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_consent_grants_erased_total",
			Help: "Consent rows removed by subject-erasure requests",
		}),
		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "privacygate_consent_check_latency_seconds",
			Help:    "Latency of consent checks in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementGrantsRecorded(decision string) {
	m.GrantsRecorded.WithLabelValues(decision).Inc()
}

func (m *Metrics) IncrementChecksPassed(scope string) {
	m.ChecksPassed.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementChecksFailed(scope string) {
	m.ChecksFailed.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementCacheHits()   { m.CacheHits.Inc() }
func (m *Metrics) IncrementCacheMisses() { m.CacheMisses.Inc() }

func (m *Metrics) AddGrantsErased(count float64) {
	m.GrantsErasedTotal.Add(count)
}

func (m *Metrics) ObserveCheckLatency(durationSeconds float64) {
	m.CheckLatency.Observe(durationSeconds)
}
