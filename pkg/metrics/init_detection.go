package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDetectionMetrics() {
	r.DetectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "neochain_detections_total",
			Help: "Total number of community detection runs",
		},
		[]string{"algorithm", "status"},
	)

	r.DetectionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neochain_detection_duration_seconds",
			Help:    "Community detection duration in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300, 900},
		},
		[]string{"algorithm"},
	)

	r.CommunitiesDetected = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neochain_communities_detected",
			Help: "Number of communities found by the last detection run",
		},
		[]string{"algorithm"},
	)

	r.DetectionModularity = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neochain_detection_modularity",
			Help: "Modularity of the last partition, when the algorithm reports one",
		},
		[]string{"algorithm"},
	)

	r.SelfLoopsSkipped = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "neochain_self_loops_skipped_total",
			Help: "Self-loop edges left out of the detection graph",
		},
		[]string{"algorithm"},
	)

	r.CacheLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "neochain_partition_cache_lookups_total",
			Help: "Partition cache lookups by result",
		},
		[]string{"result"},
	)
}
