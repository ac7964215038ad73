package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initOverlapMetrics() {
	r.OverlapMatchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "neochain_overlap_matches_total",
			Help: "Relative overlap results by measure and outcome",
		},
		[]string{"measure", "outcome"},
	)

	r.OverlapScore = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neochain_overlap_score",
			Help:    "Best-match scores of matched communities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"measure"},
	)
}
