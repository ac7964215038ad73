package overlap

import (
	"fmt"
	"math"
	"strings"
)

// Measure names a similarity or distance between two member lists.
type Measure string

// Supported measures.
const (
	Jaccard   Measure = "jaccard"
	Cosine    Measure = "cosine"
	Euclidean Measure = "euclidean"
	Manhattan Measure = "manhattan"
	Minkowski Measure = "minkowski"

	DefaultMeasure = Jaccard

	// MinkowskiP is the order used by the minkowski measure
	MinkowskiP = 3
)

// Measures lists every supported measure.
var Measures = []Measure{Jaccard, Cosine, Euclidean, Manhattan, Minkowski}

// ParseMeasure resolves a measure name case-insensitively. Empty means DefaultMeasure.
func ParseMeasure(s string) (Measure, error) {
	name := Measure(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return DefaultMeasure, nil
	}
	if name.valid() {
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMeasure, s)
}

func (m Measure) valid() bool {
	for _, known := range Measures {
		if m == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (m Measure) String() string {
	return string(m)
}

// IsDistance reports whether lower scores mean more alike.
func (m Measure) IsDistance() bool {
	switch m {
	case Euclidean, Manhattan, Minkowski:
		return true
	}
	return false
}

// Score computes the measure between two member lists. Jaccard treats them as
// sets; the other measures treat them as positional vectors.
func (m Measure) Score(a, b []int64) (float64, error) {
	switch m {
	case Jaccard:
		return JaccardIndex(a, b), nil
	case Cosine:
		return CosineSimilarity(a, b)
	case Euclidean:
		return EuclideanDistance(a, b)
	case Manhattan:
		return ManhattanDistance(a, b)
	case Minkowski:
		return MinkowskiDistance(a, b, MinkowskiP)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMeasure, string(m))
}

// JaccardIndex returns |A∩B| / |A∪B|. Duplicates are collapsed and two empty
// lists score 0.
func JaccardIndex(a, b []int64) float64 {
	setA := make(map[int64]struct{}, len(a))
	for _, x := range a {
		setA[x] = struct{}{}
	}
	setB := make(map[int64]struct{}, len(b))
	for _, x := range b {
		setB[x] = struct{}{}
	}

	intersection := 0
	for x := range setA {
		if _, ok := setB[x]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// CosineSimilarity returns Σab / sqrt(Σa²·Σb²) rounded to six decimals.
func CosineSimilarity(a, b []int64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}

	var dot, sumA, sumB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		sumA += x * x
		sumB += y * y
	}
	denom := math.Sqrt(sumA * sumB)
	if denom == 0 {
		return 0, ErrZeroVector
	}
	return round6(dot / denom), nil
}

// Distances compare the first min(len(a), len(b)) positions.

// EuclideanDistance returns the L2 distance of two positional vectors.
func EuclideanDistance(a, b []int64) (float64, error) {
	var sum float64
	for i := range min(len(a), len(b)) {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// ManhattanDistance returns the L1 distance of two positional vectors.
func ManhattanDistance(a, b []int64) (float64, error) {
	var sum float64
	for i := range min(len(a), len(b)) {
		sum += math.Abs(float64(a[i] - b[i]))
	}
	return sum, nil
}

// MinkowskiDistance returns the order-p distance rounded to six decimals.
func MinkowskiDistance(a, b []int64, p float64) (float64, error) {
	var sum float64
	for i := range min(len(a), len(b)) {
		sum += math.Pow(math.Abs(float64(a[i]-b[i])), p)
	}
	return round6(math.Pow(sum, 1/p)), nil
}

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
