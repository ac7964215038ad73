package overlap

import (
	"errors"
	"reflect"
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/dd0wney/neochain/pkg/community"
	"github.com/dd0wney/neochain/pkg/metrics"
)

func TestRelativeOverlap_Jaccard(t *testing.T) {
	gt := []community.Group{{ID: 1, Members: []int64{1, 2, 3}}}
	gt1 := []community.Group{
		{ID: 5, Members: []int64{1, 2, 3, 4}},
		{ID: 6, Members: []int64{9, 10}},
	}

	got, err := RelativeOverlap(gt, gt1, Jaccard)
	if err != nil {
		t.Fatalf("RelativeOverlap() error = %v", err)
	}
	want := []Match{{CommunityT: 1, CommunityT1: 5, Matched: true, Score: 0.75}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RelativeOverlap() = %+v, want %+v", got, want)
	}
}

func TestRelativeOverlap_EmptyCandidates(t *testing.T) {
	gt := []community.Group{
		{ID: 1, Members: []int64{1, 2}},
		{ID: 2, Members: []int64{3}},
	}

	for _, m := range Measures {
		got, err := RelativeOverlap(gt, nil, m)
		if err != nil {
			t.Fatalf("%s: RelativeOverlap() error = %v", m, err)
		}
		want := []Match{
			{CommunityT: 1, CommunityT1: NoMatch},
			{CommunityT: 2, CommunityT1: NoMatch},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: RelativeOverlap() = %+v, want %+v", m, got, want)
		}
	}
}

func TestRelativeOverlap_ZeroScoreNeverMatches(t *testing.T) {
	gt := []community.Group{{ID: 1, Members: []int64{1}}}
	gt1 := []community.Group{{ID: 2, Members: []int64{3}}}

	got, _ := RelativeOverlap(gt, gt1, Jaccard)
	if got[0].Matched || got[0].CommunityT1 != NoMatch {
		t.Errorf("match = %+v, want unmatched", got[0])
	}
}

func TestRelativeOverlap_FirstBestWinsTies(t *testing.T) {
	gt := []community.Group{{ID: 1, Members: []int64{1, 2}}}
	gt1 := []community.Group{
		{ID: 7, Members: []int64{1, 2}},
		{ID: 3, Members: []int64{2, 1}},
	}

	got, _ := RelativeOverlap(gt, gt1, Jaccard)
	if got[0].CommunityT1 != 7 {
		t.Errorf("CommunityT1 = %d, want 7", got[0].CommunityT1)
	}
}

func TestRelativeOverlap_ManyToOne(t *testing.T) {
	gt := []community.Group{
		{ID: 4, Members: []int64{1, 2}},
		{ID: 2, Members: []int64{2, 3}},
	}
	gt1 := []community.Group{{ID: 9, Members: []int64{1, 2, 3}}}

	got, _ := RelativeOverlap(gt, gt1, Jaccard)
	if len(got) != 2 || got[0].CommunityT != 4 || got[1].CommunityT != 2 {
		t.Fatalf("order not preserved: %+v", got)
	}
	if got[0].CommunityT1 != 9 || got[1].CommunityT1 != 9 {
		t.Errorf("both communities should match 9: %+v", got)
	}
}

func TestRelativeOverlap_DistancesMinimise(t *testing.T) {
	gt := []community.Group{{ID: 1, Members: []int64{1, 2}}}
	gt1 := []community.Group{
		{ID: 5, Members: []int64{1, 3}},
		{ID: 6, Members: []int64{1, 2}},
	}

	for _, m := range []Measure{Euclidean, Manhattan, Minkowski} {
		got, err := RelativeOverlap(gt, gt1, m)
		if err != nil {
			t.Fatalf("%s: RelativeOverlap() error = %v", m, err)
		}
		want := Match{CommunityT: 1, CommunityT1: 6, Matched: true, Score: 0}
		if got[0] != want {
			t.Errorf("%s: match = %+v, want %+v", m, got[0], want)
		}
	}
}

func TestRelativeOverlap_SkipsUnscorablePairs(t *testing.T) {
	gt := []community.Group{{ID: 1, Members: []int64{1, 2}}}
	gt1 := []community.Group{
		{ID: 5, Members: []int64{1, 2, 3}},
		{ID: 6, Members: []int64{2, 1}},
	}

	got, err := RelativeOverlap(gt, gt1, Cosine)
	if err != nil {
		t.Fatalf("RelativeOverlap() error = %v", err)
	}
	want := Match{CommunityT: 1, CommunityT1: 6, Matched: true, Score: 0.8}
	if got[0] != want {
		t.Errorf("match = %+v, want %+v", got[0], want)
	}
}

func TestRelativeOverlap_DistancesCompareSharedPrefix(t *testing.T) {
	gt := []community.Group{{ID: 1, Members: []int64{1, 2, 3}}}
	gt1 := []community.Group{
		{ID: 5, Members: []int64{1, 2, 3, 4}},
		{ID: 6, Members: []int64{9, 10}},
	}

	for _, m := range []Measure{Euclidean, Manhattan, Minkowski} {
		got, err := RelativeOverlap(gt, gt1, m)
		if err != nil {
			t.Fatalf("%s: RelativeOverlap() error = %v", m, err)
		}
		want := Match{CommunityT: 1, CommunityT1: 5, Matched: true, Score: 0}
		if got[0] != want {
			t.Errorf("%s: match = %+v, want %+v", m, got[0], want)
		}
	}
}

func TestRelativeOverlap_UnknownMeasure(t *testing.T) {
	if _, err := RelativeOverlap(nil, nil, Measure("hamming")); !errors.Is(err, ErrUnknownMeasure) {
		t.Errorf("error = %v, want ErrUnknownMeasure", err)
	}
	if _, err := RelativeOverlap(nil, nil, ""); !errors.Is(err, ErrUnknownMeasure) {
		t.Errorf("empty measure error = %v, want ErrUnknownMeasure", err)
	}
}

func TestMatcher_RecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	mt := NewMatcher(Jaccard, nil, reg)

	gt := []community.Group{
		{ID: 1, Members: []int64{1, 2, 3}},
		{ID: 2, Members: []int64{7, 8}},
	}
	gt1 := []community.Group{{ID: 5, Members: []int64{1, 2, 3, 4}}}

	matches, err := mt.Match(gt, gt1)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(matches) != 2 || !matches[0].Matched || matches[1].Matched {
		t.Fatalf("matches = %+v", matches)
	}

	for outcome, want := range map[string]float64{metrics.OutcomeMatched: 1, metrics.OutcomeUnmatched: 1} {
		var m dto.Metric
		if err := reg.OverlapMatchesTotal.WithLabelValues("jaccard", outcome).Write(&m); err != nil {
			t.Fatalf("write metric: %v", err)
		}
		if m.Counter.GetValue() != want {
			t.Errorf("%s = %v, want %v", outcome, m.Counter.GetValue(), want)
		}
	}
}
