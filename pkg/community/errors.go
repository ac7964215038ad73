package community

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTopN is returned when fewer than one group is requested
	ErrInvalidTopN = errors.New("top n must be positive")

	// ErrUnknownAlgorithm is returned for an algorithm name with no detector
	ErrUnknownAlgorithm = errors.New("unknown community detection algorithm")

	// ErrDetectionFailed wraps failures of the underlying detection library
	ErrDetectionFailed = errors.New("community detection failed")

	// ErrEmptyGraph is returned when the edge list yields no nodes
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrMalformedOutput is returned when an Infomap result file can not be parsed
	ErrMalformedOutput = errors.New("malformed detection output")
)

// DetectionError carries the algorithm and input of a failed detection.
type DetectionError struct {
	Algorithm string
	Path      string
	Cause     error
}

// Error implements the error interface.
func (e *DetectionError) Error() string {
	return fmt.Sprintf("%s on %s: %v: %v", e.Algorithm, e.Path, ErrDetectionFailed, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *DetectionError) Unwrap() error {
	return e.Cause
}

// Is reports ErrDetectionFailed as part of the chain.
func (e *DetectionError) Is(target error) bool {
	return target == ErrDetectionFailed
}
