package alloc

import (
	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/core"
)

// ForcedCost is the sentinel cost of an administrator-forced edge. Large and
// negative so a forced pair beats any preference-derived cost; the cost model
// additionally gives a forced student no other edge, so the pin is structural
// rather than merely priced.
const ForcedCost int64 = -10000

// Rank costs under the top-2 bias curve: ranks 1 and 2 stay near free while
// ranks 3..5 jump by two orders of magnitude, so a solver trades almost
// anything to land students in their top two.
const (
	top2BiasStep = 100
)

// CostModel maps every admissible (student, topic) pair to an integer cost;
// lower cost means more preferred. Absence of an edge means the assignment
// is structurally forbidden for both backends.
type CostModel struct {
	// Edges[studentID][topicID] = cost. Sparse; only admissible pairs appear.
	Edges map[string]map[string]int64

	// StudentIDs holds the planning students in sorted order, including
	// those that ended up with no edges (reported as unassignable).
	StudentIDs []string

	// TopicIDs holds all topic IDs in sorted order.
	TopicIDs []string
}

// rankCost prices a 1-based rank position.
// With the bias, the curve is 0, 1, 100, 101, 102; without, rank − 1.
func rankCost(rank int, pref config.Preference) int64 {
	if !pref.Top2Bias {
		return int64(rank - 1)
	}
	switch rank {
	case 1:
		return 0
	case 2:
		return 1
	default:
		return int64(top2BiasStep + rank - 3)
	}
}

// BuildCostModel computes the sparse edge set for every planning student.
//
// Precedence per (student, topic), first match wins:
//  1. forced   — cost ForcedCost; every other topic for that student is skipped
//  2. override — the manual cost verbatim
//  3. tier     — 0 / Tier2Cost / Tier3Cost by tier membership
//  4. rank     — rankCost of the 1-based position
//  5. unranked — UnrankedCost, only when AllowUnranked
//  6. banned or disallowed — no edge
//
// A forced topic that is banned or unknown yields no edges at all for that
// student; the instance validator flags this upstream, and the solvers
// report the student as unassignable if the run proceeds regardless.
//
// Complexity: O(S·T) time, O(E) memory for E admissible pairs.
func BuildCostModel(in *core.Instance, pref config.Preference) *CostModel {
	m := &CostModel{
		Edges:    make(map[string]map[string]int64),
		TopicIDs: sortedKeys(in.Topics),
	}

	overrides := make(map[string]map[string]int64, len(in.Overrides))
	for _, ov := range in.Overrides {
		inner, ok := overrides[ov.StudentID]
		if !ok {
			inner = make(map[string]int64)
			overrides[ov.StudentID] = inner
		}
		inner[ov.TopicID] = ov.Cost
	}

	for _, sid := range sortedKeys(in.Students) {
		s := in.Students[sid]
		if !s.Plan {
			continue
		}
		m.StudentIDs = append(m.StudentIDs, sid)
		edges := make(map[string]int64)

		if s.ForcedTopic != "" {
			_, known := in.Topics[s.ForcedTopic]
			if known && !s.IsBanned(s.ForcedTopic) {
				edges[s.ForcedTopic] = ForcedCost
			}
			m.Edges[sid] = edges

			continue
		}

		for _, tid := range m.TopicIDs {
			if s.IsBanned(tid) {
				continue
			}
			if c, ok := overrides[sid][tid]; ok {
				edges[tid] = c

				continue
			}
			if tier := s.TierOf(tid); tier != 0 {
				switch tier {
				case 1:
					edges[tid] = 0
				case 2:
					edges[tid] = pref.Tier2Cost
				default:
					edges[tid] = pref.Tier3Cost
				}

				continue
			}
			if rank := s.RankOf(tid); rank != 0 {
				edges[tid] = rankCost(rank, pref)

				continue
			}
			if pref.AllowUnranked {
				edges[tid] = pref.UnrankedCost
			}
		}
		m.Edges[sid] = edges
	}

	return m
}

// Cost returns the cost of the (student, topic) edge and whether it exists.
func (m *CostModel) Cost(studentID, topicID string) (int64, bool) {
	c, ok := m.Edges[studentID][topicID]

	return c, ok
}

// AdmissibleTopics returns the sorted topic IDs admissible for a student.
func (m *CostModel) AdmissibleTopics(studentID string) []string {
	return sortedKeys(m.Edges[studentID])
}

// RankCode classifies how a (student, topic) match satisfies the student,
// for reporting. Codes are non-colliding: forced −1, tiers 0..2, ranked
// choices 10..14, unranked 999.
func RankCode(s core.Student, topicID string) int {
	if s.ForcedTopic != "" && topicID == s.ForcedTopic {
		return core.RankForced
	}
	if tier := s.TierOf(topicID); tier != 0 {
		return tier - 1 // RankTier1..RankTier3
	}
	if rank := s.RankOf(topicID); rank != 0 {
		return core.RankFirst + rank - 1
	}

	return core.RankUnranked
}
