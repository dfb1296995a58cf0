package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for processing-log operations.
type Metrics struct {
	EntriesRecorded    *prometheus.CounterVec
	WriteFailures      prometheus.Counter
	MetadataTruncated  prometheus.Counter
	EntriesErasedTotal prometheus.Counter
}

// New registers and returns processing-log metrics collectors.
func New() *Metrics {
	return &Metrics{
		EntriesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacygate_proclog_entries_recorded_total",
			Help: "Total number of processing-log rows written, labeled by action",
		}, []string{"action"}),
		WriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_proclog_write_failures_total",
			Help: "Processing-log writes that failed and were swallowed",
		}),
		MetadataTruncated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_proclog_metadata_truncated_total",
			Help: "Log entries whose metadata was cut down to fit the size cap",
		}),
		EntriesErasedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacygate_proclog_entries_erased_total",
			Help: "Processing-log rows removed by subject-erasure requests",
		}),
	}
}

func (m *Metrics) IncrementEntriesRecorded(action string) {
	m.EntriesRecorded.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementWriteFailures()     { m.WriteFailures.Inc() }
func (m *Metrics) IncrementMetadataTruncated() { m.MetadataTruncated.Inc() }

func (m *Metrics) AddEntriesErased(count float64) {
	m.EntriesErasedTotal.Add(count)
}
