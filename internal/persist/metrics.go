package persist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// failuresTotal counts storage operations that failed and were swallowed.
	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_persist_failures_total",
			Help: "Total number of session storage operations that failed",
		},
		[]string{"kind", "op"},
	)

	// discardedTotal counts stored collections dropped because they could not be decoded.
	discardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_persist_discarded_total",
			Help: "Total number of corrupt stored collections discarded on load",
		},
		[]string{"kind"},
	)
)
