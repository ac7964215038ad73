package community

import (
	"errors"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestTopN_InvalidN(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := TopN(Partition{1: 1}, n); !errors.Is(err, ErrInvalidTopN) {
			t.Errorf("TopN(n=%d) error = %v, want ErrInvalidTopN", n, err)
		}
	}
}

func TestTopN_EmptyPartition(t *testing.T) {
	groups, err := TopN(Partition{}, 3)
	if err != nil {
		t.Fatalf("TopN() error = %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("TopN() = %v, want empty", groups)
	}
}

func TestTopN_OrderAndTies(t *testing.T) {
	p := Partition{
		1: 20, 2: 20, 3: 20,
		4: 10, 5: 10, 6: 10,
		7: 5, 8: 5,
		9: 7,
	}

	tests := []struct {
		n    int
		want []int64
	}{
		{1, []int64{10}},
		{2, []int64{10, 20}},
		{3, []int64{10, 20, 5}},
		{10, []int64{10, 20, 5, 7}},
	}

	for _, tt := range tests {
		groups, err := TopN(p, tt.n)
		if err != nil {
			t.Fatalf("TopN(%d) error = %v", tt.n, err)
		}
		got := make([]int64, len(groups))
		for i, g := range groups {
			got[i] = g.ID
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("TopN(%d) ids = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestTopN_MembersSorted(t *testing.T) {
	p := Partition{9: 1, 3: 1, 7: 1, 1: 2}
	groups, err := TopN(p, 1)
	if err != nil {
		t.Fatalf("TopN() error = %v", err)
	}
	want := []Group{{ID: 1, Members: []int64{3, 7, 9}}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("TopN() = %v, want %v", groups, want)
	}
}

func TestGroupPartition(t *testing.T) {
	p := Partition{4: 2, 1: 0, 2: 0, 3: 2}
	want := []Group{
		{ID: 0, Members: []int64{1, 2}},
		{ID: 2, Members: []int64{3, 4}},
	}
	if got := GroupPartition(p); !reflect.DeepEqual(got, want) {
		t.Errorf("GroupPartition() = %v, want %v", got, want)
	}
	if got := p.Communities(); got != 2 {
		t.Errorf("Communities() = %d, want 2", got)
	}
	if got := Members(want); !reflect.DeepEqual(got, [][]int64{{1, 2}, {3, 4}}) {
		t.Errorf("Members() = %v", got)
	}
}

// TestTopNProperties checks the selection against arbitrary partitions
func TestTopNProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	partitionOf := func(assign []int64) Partition {
		p := make(Partition, len(assign))
		for node, c := range assign {
			p[int64(node)] = c
		}
		return p
	}

	properties.Property("returns min(n, communities) groups present in the partition", prop.ForAll(
		func(assign []int64, n int) bool {
			p := partitionOf(assign)
			groups, err := TopN(p, n)
			if err != nil {
				return false
			}
			want := p.Communities()
			if n < want {
				want = n
			}
			if len(groups) != want {
				return false
			}

			all := make(map[int64][]int64)
			for _, g := range GroupPartition(p) {
				all[g.ID] = g.Members
			}
			for _, g := range groups {
				if !reflect.DeepEqual(all[g.ID], g.Members) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 9)),
		gen.IntRange(1, 6),
	))

	properties.Property("no excluded group is larger than a selected one", prop.ForAll(
		func(assign []int64, n int) bool {
			p := partitionOf(assign)
			groups, err := TopN(p, n)
			if err != nil {
				return false
			}
			if len(groups) == 0 {
				return len(p) == 0
			}

			selected := make(map[int64]bool, len(groups))
			smallest := groups[0].Size()
			for i, g := range groups {
				selected[g.ID] = true
				if i > 0 && g.Size() > groups[i-1].Size() {
					return false
				}
				if g.Size() < smallest {
					smallest = g.Size()
				}
			}
			for _, g := range GroupPartition(p) {
				if !selected[g.ID] && g.Size() > smallest {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 9)),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
