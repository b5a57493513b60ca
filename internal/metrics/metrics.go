package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PicksApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "draftwatch",
		Subsystem: "session",
		Name:      "picks_applied_total",
		Help:      "Pick events applied to the board.",
	})

	PicksDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "draftwatch",
		Subsystem: "session",
		Name:      "picks_duplicate_total",
		Help:      "Pick events ignored as duplicate deliveries.",
	})

	PicksRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "draftwatch",
		Subsystem: "session",
		Name:      "picks_rejected_total",
		Help:      "Pick events rejected, by reason.",
	}, []string{"reason"})

	SnapshotLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "draftwatch",
		Subsystem: "session",
		Name:      "snapshot_loads_total",
		Help:      "Snapshot load attempts, by outcome.",
	}, []string{"status"})

	HistoryFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "draftwatch",
		Subsystem: "session",
		Name:      "history_fetches_total",
		Help:      "Player history fetches, by outcome.",
	}, []string{"status"})

	FeedReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "draftwatch",
		Subsystem: "feed",
		Name:      "reconnects_total",
		Help:      "Times the push stream was re-dialed after a disconnect.",
	})

	FeedDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "draftwatch",
		Subsystem: "feed",
		Name:      "dropped_total",
		Help:      "Push messages dropped at the validation boundary.",
	})
)
