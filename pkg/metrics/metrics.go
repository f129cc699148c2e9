// Package metrics exposes Prometheus counters for the voice and budget
// engines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CommandsProcessed counts voice commands by final outcome
	// (expense, contribution, delete, unparsable, error).
	CommandsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finanza",
		Subsystem: "voice",
		Name:      "commands_total",
		Help:      "Voice commands processed, by outcome.",
	}, []string{"outcome"})

	// LexiconFallbacks counts parses that ran with the default lexicon
	// because the fund's currency has no table of its own.
	LexiconFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finanza",
		Subsystem: "voice",
		Name:      "lexicon_fallback_total",
		Help:      "Parses that fell back to the default currency lexicon.",
	})

	// ItemsProvisioned counts budget items auto-created by the engine,
	// split by how they were discovered.
	ItemsProvisioned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finanza",
		Subsystem: "budget",
		Name:      "items_provisioned_total",
		Help:      "Budget items auto-created, by discovery path.",
	}, []string{"source"})

	// RefreshRuns counts maintenance passes by result.
	RefreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finanza",
		Subsystem: "budget",
		Name:      "refresh_runs_total",
		Help:      "Budget refresh passes, by result.",
	}, []string{"result"})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
