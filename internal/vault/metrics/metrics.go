package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for vault operations.
type Metrics struct {
	ItemsWritten     *prometheus.CounterVec
	DecryptFailures  prometheus.Counter
	ItemsErasedTotal prometheus.Counter
	FetchLatency     prometheus.Histogram
}

// New registers and returns vault metrics collectors.
func New() *Metrics {
	return &Metrics{
		ItemsWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacygate_vault_items_written_total",
			Help: "Vault items encrypted and written, labeled by operation",
		}, []string{"operation"}),
		DecryptFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_vault_decrypt_failures_total",
			Help: "Vault rows that failed authentication on decrypt and were skipped",
		}),
		ItemsErasedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_vault_items_erased_total",
			Help: "Vault items removed by subject-erasure requests",
		}),
		FetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "privacygate_vault_fetch_latency_seconds",
			Help:    "Latency of vault fetches, including decryption, in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementItemsWritten(operation string) {
	m.ItemsWritten.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncrementDecryptFailures() { m.DecryptFailures.Inc() }

func (m *Metrics) AddItemsErased(count float64) {
	m.ItemsErasedTotal.Add(count)
}

func (m *Metrics) ObserveFetchLatency(durationSeconds float64) {
	m.FetchLatency.Observe(durationSeconds)
}
