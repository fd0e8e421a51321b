// Package metrics exposes prometheus counters for the money-moving
// paths. Everything else is observable through request logs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LedgerEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_total",
		Help: "Ledger transactions appended, by kind and direction.",
	}, []string{"kind", "direction"})

	PayoutTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payout_transitions_total",
		Help: "Payout request status transitions.",
	}, []string{"status"})

	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_emitted_total",
		Help: "User-facing notifications appended.",
	})

	CollabResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collab_resolutions_total",
		Help: "Collaboration request resolutions, by outcome.",
	}, []string{"outcome"})
)

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordLedgerEntry increments the ledger counter for one appended
// transaction.
func RecordLedgerEntry(kind string, debit bool) {
	direction := "credit"
	if debit {
		direction = "debit"
	}
	LedgerEntries.WithLabelValues(kind, direction).Inc()
}
