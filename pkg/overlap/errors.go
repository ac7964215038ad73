package overlap

import "errors"

var (
	// ErrUnknownMeasure is returned for a measure name with no implementation
	ErrUnknownMeasure = errors.New("unknown similarity measure")

	// ErrLengthMismatch is returned by cosine on vectors of different length
	ErrLengthMismatch = errors.New("vectors differ in length")

	// ErrZeroVector is returned by cosine when a vector has zero norm
	ErrZeroVector = errors.New("zero vector")
)
