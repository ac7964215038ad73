package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for a neochain run
type Registry struct {
	// Input Metrics
	EdgesLoaded        *prometheus.GaugeVec
	SanityChecksTotal  *prometheus.CounterVec
	InputFailuresTotal *prometheus.CounterVec

	// Detection Metrics
	DetectionsTotal     *prometheus.CounterVec
	DetectionDuration   *prometheus.HistogramVec
	CommunitiesDetected *prometheus.GaugeVec
	DetectionModularity *prometheus.GaugeVec
	SelfLoopsSkipped    *prometheus.CounterVec
	CacheLookupsTotal   *prometheus.CounterVec

	// Overlap Metrics
	OverlapMatchesTotal *prometheus.CounterVec
	OverlapScore        *prometheus.HistogramVec

	// Run Metrics
	RunStartTimestamp  prometheus.Gauge
	RunDurationSeconds prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initInputMetrics()
	r.initDetectionMetrics()
	r.initOverlapMetrics()
	r.initRunMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
