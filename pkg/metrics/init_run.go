package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunStartTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "neochain_run_start_timestamp_seconds",
			Help: "Unix time the run started",
		},
	)

	r.RunDurationSeconds = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "neochain_run_duration_seconds",
			Help: "Wall time of the last completed run in seconds",
		},
	)
}
