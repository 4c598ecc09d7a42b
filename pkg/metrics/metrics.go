// Package metrics provides Prometheus instrumentation for the rating engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the engine's Prometheus collectors.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	ingestions    *prometheus.CounterVec
	rowsSkipped   prometheus.Counter
	recalcSeconds prometheus.Histogram
	competitors   prometheus.Gauge
	events        prometheus.Gauge
	ledgerSaves   *prometheus.CounterVec
	ledgerLoads   *prometheus.CounterVec
}

// Global manager on a custom registry, so the default Go collectors never
// pollute the engine's metric namespace.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "maratona",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.ingestions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "rating",
		Name:      "ingestions_total",
		Help:      "Scoreboard ingestions applied, by event kind and path (first|update)",
	}, []string{"kind", "path"})
	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "rating",
		Name:      "rows_skipped_total",
		Help:      "Scoreboard rows rejected with a skip reason",
	})
	m.recalcSeconds = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "rating",
		Name:      "recalculate_duration_seconds",
		Help:      "Duration of full score re-aggregation passes",
		Buckets:   prometheus.DefBuckets,
	})
	m.competitors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "rating",
		Name:      "competitors",
		Help:      "Competitors currently tracked in the ledger",
	})
	m.events = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "rating",
		Name:      "processed_events",
		Help:      "Events currently tracked in the ledger registry",
	})
	m.ledgerSaves = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ledger",
		Name:      "saves_total",
		Help:      "Ledger save attempts by result (ok|error)",
	}, []string{"result"})
	m.ledgerLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ledger",
		Name:      "loads_total",
		Help:      "Ledger load attempts by result (ok|missing|error)",
	}, []string{"result"})

	return m
}

// Registry exposes the manager's registry for scraping or test inspection.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Default returns the global manager.
func Default() *Manager { return globalManager }

// RecordIngestion counts one applied ingestion.
func RecordIngestion(kind string, firstTime bool) {
	path := "update"
	if firstTime {
		path = "first"
	}
	globalManager.ingestions.WithLabelValues(kind, path).Inc()
}

// RecordRowsSkipped counts rejected scoreboard rows.
func RecordRowsSkipped(n int) {
	globalManager.rowsSkipped.Add(float64(n))
}

// ObserveRecalculate records the duration of one re-aggregation pass.
func ObserveRecalculate(seconds float64) {
	globalManager.recalcSeconds.Observe(seconds)
}

// UpdateLedgerSize sets the ledger gauges.
func UpdateLedgerSize(competitors, events int) {
	globalManager.competitors.Set(float64(competitors))
	globalManager.events.Set(float64(events))
}

// RecordLedgerSave counts one save attempt.
func RecordLedgerSave(result string) {
	globalManager.ledgerSaves.WithLabelValues(result).Inc()
}

// RecordLedgerLoad counts one load attempt.
func RecordLedgerLoad(result string) {
	globalManager.ledgerLoads.WithLabelValues(result).Inc()
}
