package overlap

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseMeasure(t *testing.T) {
	tests := []struct {
		in   string
		want Measure
	}{
		{"", Jaccard},
		{"jaccard", Jaccard},
		{"Cosine", Cosine},
		{" EUCLIDEAN ", Euclidean},
		{"manhattan", Manhattan},
		{"minkowski", Minkowski},
	}
	for _, tt := range tests {
		got, err := ParseMeasure(tt.in)
		if err != nil {
			t.Fatalf("ParseMeasure(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMeasure(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMeasure("hamming"); !errors.Is(err, ErrUnknownMeasure) {
		t.Errorf("ParseMeasure(hamming) error = %v, want ErrUnknownMeasure", err)
	}
}

func TestJaccardIndex(t *testing.T) {
	tests := []struct {
		name string
		a, b []int64
		want float64
	}{
		{"identical", []int64{1, 2, 3}, []int64{1, 2, 3}, 1},
		{"disjoint", []int64{1, 2}, []int64{3, 4}, 0},
		{"subset", []int64{1, 2, 3}, []int64{1, 2, 3, 4}, 0.75},
		{"duplicates collapse", []int64{1, 1, 2}, []int64{2, 1}, 1},
		{"both empty", nil, nil, 0},
		{"one empty", []int64{1}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JaccardIndex(tt.a, tt.b); got != tt.want {
				t.Errorf("JaccardIndex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []int64
		want float64
	}{
		{"orthogonal", []int64{1, 0}, []int64{0, 1}, 0},
		{"identical", []int64{1, 1}, []int64{1, 1}, 1},
		{"swapped", []int64{1, 2}, []int64{2, 1}, 0.8},
		{"identical three", []int64{1, 2, 3}, []int64{1, 2, 3}, 1},
		{"identical large", []int64{7, 11, 13}, []int64{7, 11, 13}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("CosineSimilarity() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_Errors(t *testing.T) {
	if _, err := CosineSimilarity([]int64{1, 2}, []int64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("length mismatch error = %v", err)
	}
	if _, err := CosineSimilarity([]int64{0, 0}, []int64{1, 1}); !errors.Is(err, ErrZeroVector) {
		t.Errorf("zero vector error = %v", err)
	}
}

func TestDistances(t *testing.T) {
	a, b := []int64{0, 0}, []int64{3, 4}

	if got, _ := EuclideanDistance(a, b); got != 5 {
		t.Errorf("EuclideanDistance() = %v, want 5", got)
	}
	if got, _ := ManhattanDistance(a, b); got != 7 {
		t.Errorf("ManhattanDistance() = %v, want 7", got)
	}
	if got, _ := MinkowskiDistance(a, b, MinkowskiP); got != 4.497941 {
		t.Errorf("MinkowskiDistance() = %v, want 4.497941", got)
	}

	for _, m := range []Measure{Euclidean, Manhattan, Minkowski} {
		got, err := m.Score([]int64{1}, []int64{1, 2})
		if err != nil || got != 0 {
			t.Errorf("%s shared prefix = %v, %v, want 0", m, got, err)
		}
		if !m.IsDistance() {
			t.Errorf("%s.IsDistance() = false", m)
		}
	}
	if Jaccard.IsDistance() || Cosine.IsDistance() {
		t.Error("similarities reported as distances")
	}
}

func TestDistances_UnequalLengths(t *testing.T) {
	a, b := []int64{0, 0, 9}, []int64{3, 4}

	if got, _ := EuclideanDistance(a, b); got != 5 {
		t.Errorf("EuclideanDistance() = %v, want 5", got)
	}
	if got, _ := ManhattanDistance(b, a); got != 7 {
		t.Errorf("ManhattanDistance() = %v, want 7", got)
	}
	if got, _ := MinkowskiDistance(a, nil, MinkowskiP); got != 0 {
		t.Errorf("MinkowskiDistance() against empty = %v, want 0", got)
	}
}

func TestScore_UnknownMeasure(t *testing.T) {
	if _, err := Measure("hamming").Score(nil, nil); !errors.Is(err, ErrUnknownMeasure) {
		t.Errorf("Score() error = %v, want ErrUnknownMeasure", err)
	}
}

// TestJaccardProperties checks symmetry and range over arbitrary member lists
func TestJaccardProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	members := gen.SliceOf(gen.Int64Range(0, 20))

	properties.Property("jaccard is symmetric", prop.ForAll(
		func(a, b []int64) bool {
			return JaccardIndex(a, b) == JaccardIndex(b, a)
		},
		members, members,
	))

	properties.Property("jaccard lies in [0, 1]", prop.ForAll(
		func(a, b []int64) bool {
			j := JaccardIndex(a, b)
			return j >= 0 && j <= 1
		},
		members, members,
	))

	properties.Property("a non-empty list is identical to itself", prop.ForAll(
		func(a []int64) bool {
			return JaccardIndex(a, a) == 1
		},
		gen.SliceOfN(5, gen.Int64Range(0, 20)),
	))

	properties.TestingRun(t)
}
