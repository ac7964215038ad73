package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Detection statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Overlap outcomes.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
)

// RecordEdgesLoaded sets the edge count of a snapshot ("t", "t1", "merged")
func (r *Registry) RecordEdgesLoaded(snapshot string, edges int) {
	r.EdgesLoaded.WithLabelValues(snapshot).Set(float64(edges))
}

// RecordSanityCheck records the outcome of an input sanity report
func (r *Registry) RecordSanityCheck(passed bool, failed []string) {
	if passed {
		r.SanityChecksTotal.WithLabelValues("passed").Inc()
		return
	}
	r.SanityChecksTotal.WithLabelValues("failed").Inc()
	for _, check := range failed {
		r.InputFailuresTotal.WithLabelValues(check).Inc()
	}
}

// RecordDetection records a community detection run with its duration
func (r *Registry) RecordDetection(algorithm string, err error, duration time.Duration, communities int) {
	if err != nil {
		r.DetectionsTotal.WithLabelValues(algorithm, StatusError).Inc()
		return
	}
	r.DetectionsTotal.WithLabelValues(algorithm, StatusSuccess).Inc()
	r.DetectionDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	r.CommunitiesDetected.WithLabelValues(algorithm).Set(float64(communities))
}

// RecordModularity sets the modularity of the last partition
func (r *Registry) RecordModularity(algorithm string, q float64) {
	r.DetectionModularity.WithLabelValues(algorithm).Set(q)
}

// RecordSelfLoops adds skipped self-loops
func (r *Registry) RecordSelfLoops(algorithm string, n int) {
	if n <= 0 {
		return
	}
	r.SelfLoopsSkipped.WithLabelValues(algorithm).Add(float64(n))
}

// RecordCacheLookup records a partition cache hit or miss
func (r *Registry) RecordCacheLookup(hit bool) {
	if hit {
		r.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	r.CacheLookupsTotal.WithLabelValues("miss").Inc()
}

// RecordOverlapMatch records one relative overlap result
func (r *Registry) RecordOverlapMatch(measure string, matched bool, score float64) {
	if !matched {
		r.OverlapMatchesTotal.WithLabelValues(measure, OutcomeUnmatched).Inc()
		return
	}
	r.OverlapMatchesTotal.WithLabelValues(measure, OutcomeMatched).Inc()
	r.OverlapScore.WithLabelValues(measure).Observe(score)
}

// StartRun stamps the run start time
func (r *Registry) StartRun(start time.Time) {
	r.RunStartTimestamp.Set(float64(start.Unix()))
}

// EndRun sets the wall time of the completed run
func (r *Registry) EndRun(duration time.Duration) {
	r.RunDurationSeconds.Set(duration.Seconds())
}

// WriteTextfile dumps the registry in the node-exporter textfile format
func (r *Registry) WriteTextfile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
