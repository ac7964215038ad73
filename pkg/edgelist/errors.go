package edgelist

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrColumnCount = errors.New("unexpected number of columns")
	ErrNodeID      = errors.New("invalid node id")
	ErrWeight      = errors.New("invalid edge weight")
)

// ParseError reports the input line that could not be read.
type ParseError struct {
	Path  string // empty when decoding from a reader
	Line  int
	Text  string
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %v (line %q)", e.Path, e.Line, e.Cause, e.Text)
	}
	return fmt.Sprintf("line %d: %v (line %q)", e.Line, e.Cause, e.Text)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
