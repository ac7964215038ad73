// Package overlap matches communities detected at one snapshot to the
// communities of the next by greedy best score.
package overlap

import (
	"fmt"
	"math"

	"github.com/dd0wney/neochain/pkg/community"
	"github.com/dd0wney/neochain/pkg/logging"
	"github.com/dd0wney/neochain/pkg/metrics"
)

// NoMatch is the CommunityT1 of a community with no counterpart.
const NoMatch int64 = -1

// Match pairs a community at t with its best counterpart at t+1.
type Match struct {
	CommunityT  int64
	CommunityT1 int64 // NoMatch when Matched is false
	Matched     bool
	Score       float64
}

// RelativeOverlap assigns every group of gt the group of gt1 that scores best
// under m. Similarities must beat 0 and distances +Inf; the first best wins
// ties. Pairs the measure can not score are skipped. Several gt groups may
// share a counterpart. The result follows the order of gt.
func RelativeOverlap(gt, gt1 []community.Group, m Measure) ([]Match, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeasure, string(m))
	}

	matches := make([]Match, 0, len(gt))
	for _, c := range gt {
		matches = append(matches, bestMatch(c, gt1, m))
	}
	return matches, nil
}

func bestMatch(c community.Group, gt1 []community.Group, m Measure) Match {
	best := 0.0
	if m.IsDistance() {
		best = math.Inf(1)
	}
	match := Match{CommunityT: c.ID, CommunityT1: NoMatch}

	for _, other := range gt1 {
		score, err := m.Score(c.Members, other.Members)
		if err != nil {
			continue
		}
		if better(m, score, best) {
			best = score
			match.CommunityT1 = other.ID
			match.Matched = true
			match.Score = score
		}
	}
	return match
}

func better(m Measure, score, best float64) bool {
	if m.IsDistance() {
		return score < best
	}
	return score > best
}

// Matcher runs RelativeOverlap with logging and metrics.
type Matcher struct {
	Measure Measure
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewMatcher creates a matcher. A nil registry disables metrics.
func NewMatcher(m Measure, logger logging.Logger, reg *metrics.Registry) *Matcher {
	return &Matcher{
		Measure: m,
		logger:  logging.OrNop(logger).With(logging.Component("overlap"), logging.Measure(string(m))),
		metrics: reg,
	}
}

// Match computes the relative overlap of gt against gt1.
func (mt *Matcher) Match(gt, gt1 []community.Group) ([]Match, error) {
	timer := logging.StartTimer(mt.logger, "relative overlap",
		logging.Int("communities_t", len(gt)), logging.Int("communities_t1", len(gt1)))

	matches, err := RelativeOverlap(gt, gt1, mt.Measure)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	matched := 0
	for _, m := range matches {
		if m.Matched {
			matched++
			mt.logger.Debug("community matched",
				logging.CommunityID(m.CommunityT),
				logging.Int64("community_t1", m.CommunityT1),
				logging.Float64("score", m.Score))
		} else {
			mt.logger.Debug("community unmatched", logging.CommunityID(m.CommunityT))
		}
		if mt.metrics != nil {
			mt.metrics.RecordOverlapMatch(string(mt.Measure), m.Matched, m.Score)
		}
	}
	timer.End(logging.Int("matched", matched))
	return matches, nil
}
