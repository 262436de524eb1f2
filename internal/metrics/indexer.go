// Package metrics holds the Prometheus collectors for the indexer, its upstream client,
// the storage backends and the query API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "whisper"

var (
	indexerBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "blocks_total",
		Help:      "Count of block iterations by outcome.",
	}, []string{"contract", "status"})

	indexerBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "block_duration_seconds",
		Help:      "Duration of fetching, parsing and storing one block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"contract", "status"})

	indexerEventsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "events_stored_total",
		Help:      "Count of domain events written to the sink.",
	}, []string{"contract"})

	indexerDroppedLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "dropped_lines_total",
		Help:      "Count of contract log lines or event items skipped, by reason.",
	}, []string{"contract", "reason"})

	indexerTipHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "tip_height",
		Help:      "Cached chain tip height.",
	}, []string{"contract"})

	indexerCheckpointHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "checkpoint_height",
		Help:      "Last fully processed block height.",
	}, []string{"contract"})

	indexerPhase = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "phase",
		Help:      "Current poller phase; the active phase is 1.",
	}, []string{"contract", "phase"})
)

// Phases reported by the poller.
var phases = []string{"stopped", "at_tip", "fetching", "backoff"}

// Indexer tracks metrics for the block indexing loop of one contract.
type Indexer struct {
	contract string
}

// NewIndexer constructs an Indexer metrics collector.
func NewIndexer(contract string) *Indexer {
	if contract == "" {
		contract = "unknown"
	}
	return &Indexer{contract: contract}
}

// ObserveBlock records a processed block and the number of events it stored.
func (m Indexer) ObserveBlock(err error, stored int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	indexerBlocksTotal.WithLabelValues(m.contract, status).Inc()
	indexerBlockDuration.WithLabelValues(m.contract, status).Observe(time.Since(started).Seconds())
	if stored > 0 {
		indexerEventsStored.WithLabelValues(m.contract).Add(float64(stored))
	}
}

// ObserveSkipped records a block the upstream never served.
func (m Indexer) ObserveSkipped(_ uint64) {
	indexerBlocksTotal.WithLabelValues(m.contract, "skipped").Inc()
}

// ObserveDropped records log lines or items skipped for the given reason.
func (m Indexer) ObserveDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	indexerDroppedLines.WithLabelValues(m.contract, reason).Add(float64(n))
}

// SetTip records the cached chain tip.
func (m Indexer) SetTip(height uint64) {
	indexerTipHeight.WithLabelValues(m.contract).Set(float64(height))
}

// SetCheckpoint records the persisted checkpoint.
func (m Indexer) SetCheckpoint(height uint64) {
	indexerCheckpointHeight.WithLabelValues(m.contract).Set(float64(height))
}

// SetPhase marks phase as active and every other phase inactive.
func (m Indexer) SetPhase(phase string) {
	for _, p := range phases {
		v := 0.0
		if p == phase {
			v = 1
		}
		indexerPhase.WithLabelValues(m.contract, p).Set(v)
	}
}
