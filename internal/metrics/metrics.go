// Package metrics registers the process-wide Prometheus collectors for the
// ledger and scoring paths. Collectors register on the default registry so
// an embedding process can expose them on its own scrape endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// #region collectors

var (
	// ledgerEntries counts entries accepted by the ledger.
	// Labels: event_type
	ledgerEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "karma",
		Subsystem: "ledger",
		Name:      "entries_total",
		Help:      "Total ledger entries accepted, by event type",
	}, []string{"event_type"})

	// ledgerDropped counts entries dropped after the durable write failed.
	// Labels: sink
	ledgerDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "karma",
		Subsystem: "ledger",
		Name:      "dropped_total",
		Help:      "Total ledger entries dropped after durable write failure",
	}, []string{"sink"})

	// sinkRetries counts retried durable sink writes.
	// Labels: sink
	sinkRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "karma",
		Subsystem: "ledger",
		Name:      "sink_retries_total",
		Help:      "Total retried durable sink writes",
	}, []string{"sink"})

	// evaluations counts karma evaluations by action kind.
	// Labels: kind (merit, demerit, unknown)
	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "karma",
		Name:      "evaluations_total",
		Help:      "Total karma evaluations, by action kind",
	}, []string{"kind"})

	// scenarioEvents counts replayed scenario events by outcome.
	// Labels: result (applied, recorded, dropped)
	scenarioEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "karma",
		Name:      "scenario_events_total",
		Help:      "Total scenario events replayed, by result",
	}, []string{"result"})
)

// #endregion collectors

// #region recording

// RecordEntry records one accepted ledger entry.
func RecordEntry(eventType string) {
	ledgerEntries.WithLabelValues(eventType).Inc()
}

// RecordDrop records one entry dropped after its durable write failed.
func RecordDrop(sink string) {
	ledgerDropped.WithLabelValues(sink).Inc()
}

// RecordSinkRetry records one retried durable sink write.
func RecordSinkRetry(sink string) {
	sinkRetries.WithLabelValues(sink).Inc()
}

// RecordEvaluation records one karma evaluation.
func RecordEvaluation(kind string) {
	evaluations.WithLabelValues(kind).Inc()
}

// RecordScenarioEvent records one replayed scenario event.
func RecordScenarioEvent(result string) {
	scenarioEvents.WithLabelValues(result).Inc()
}

// #endregion recording
