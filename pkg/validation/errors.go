package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrSanityFailed     = errors.New("input sanity check failed")
	ErrFileNotFound     = errors.New("input file not found")
	ErrFileUnreadable   = errors.New("input file is not readable")
	ErrEmptyFile        = errors.New("input file has no data lines")
	ErrNoDelimiter      = errors.New("can not detect delimiter")
	ErrInvalidWeighted  = errors.New("weighted must be one of yes/no, y/n, Yes/No")
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

// SanityError lists the checks that failed for an input file.
type SanityError struct {
	Path   string
	Failed []string // check names, e.g. "columns"
	Cause  error    // first underlying error, if any
}

// Error implements the error interface.
func (e *SanityError) Error() string {
	msg := fmt.Sprintf("%s: %v: %s", e.Path, ErrSanityFailed, strings.Join(e.Failed, ", "))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the sanity sentinel and the underlying cause.
func (e *SanityError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSanityFailed}
	}
	return []error{ErrSanityFailed, e.Cause}
}
