package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initInputMetrics() {
	r.EdgesLoaded = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neochain_edges_loaded",
			Help: "Number of edges loaded per snapshot",
		},
		[]string{"snapshot"},
	)

	r.SanityChecksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "neochain_sanity_checks_total",
			Help: "Total number of input sanity checks",
		},
		[]string{"status"},
	)

	r.InputFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "neochain_input_failures_total",
			Help: "Total number of failed sanity checks by check name",
		},
		[]string{"check"},
	)
}
