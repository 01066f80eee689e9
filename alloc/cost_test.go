package alloc

import (
	"testing"

	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/core"
)

func TestRankCost_Top2Bias(t *testing.T) {
	pref := config.Default().Preference // Top2Bias on
	want := []int64{0, 1, 100, 101, 102}
	for rank := 1; rank <= 5; rank++ {
		if got := rankCost(rank, pref); got != want[rank-1] {
			t.Fatalf("rankCost(%d) = %d, want %d", rank, got, want[rank-1])
		}
	}
}

func TestRankCost_Linear(t *testing.T) {
	pref := config.Default().Preference
	pref.Top2Bias = false
	for rank := 1; rank <= 5; rank++ {
		if got, want := rankCost(rank, pref), int64(rank-1); got != want {
			t.Fatalf("rankCost(%d) = %d, want %d", rank, got, want)
		}
	}
}

// twoTopicInstance is the minimal instance shared by the cost tests:
// one department, one coach, topics t1 and t2.
func twoTopicInstance(s core.Student) *core.Instance {
	return &core.Instance{
		Students: map[string]core.Student{s.ID: s},
		Topics: map[string]core.Topic{
			"t1": {ID: "t1", CoachID: "c1", DepartmentID: "d1", Cap: 2},
			"t2": {ID: "t2", CoachID: "c1", DepartmentID: "d1", Cap: 2},
		},
		Coaches:     map[string]core.Coach{"c1": {ID: "c1", DepartmentID: "d1", Cap: 4}},
		Departments: map[string]core.Department{"d1": {ID: "d1"}},
	}
}

func TestBuildCostModel_Precedence(t *testing.T) {
	pref := config.Default().Preference

	tests := []struct {
		name      string
		student   core.Student
		overrides []core.Override
		topic     string
		wantCost  int64
		wantEdge  bool
	}{
		{
			name:     "ranked first is free",
			student:  core.Student{ID: "s", Plan: true, Ranks: []string{"t1"}},
			topic:    "t1",
			wantCost: 0, wantEdge: true,
		},
		{
			name:     "tier beats rank",
			student:  core.Student{ID: "s", Plan: true, Ranks: []string{"t1"}, Tiers: map[int][]string{2: {"t1"}}},
			topic:    "t1",
			wantCost: pref.Tier2Cost, wantEdge: true,
		},
		{
			name:      "override beats tier",
			student:   core.Student{ID: "s", Plan: true, Tiers: map[int][]string{2: {"t1"}}},
			overrides: []core.Override{{StudentID: "s", TopicID: "t1", Cost: 7}},
			topic:     "t1",
			wantCost:  7, wantEdge: true,
		},
		{
			name:     "unranked falls back to unranked cost",
			student:  core.Student{ID: "s", Plan: true, Ranks: []string{"t1"}},
			topic:    "t2",
			wantCost: pref.UnrankedCost, wantEdge: true,
		},
		{
			name:     "banned has no edge",
			student:  core.Student{ID: "s", Plan: true, Banned: map[string]struct{}{"t2": {}}},
			topic:    "t2",
			wantEdge: false,
		},
		{
			name:      "ban beats override",
			student:   core.Student{ID: "s", Plan: true, Banned: map[string]struct{}{"t1": {}}},
			overrides: []core.Override{{StudentID: "s", TopicID: "t1", Cost: 7}},
			topic:     "t1",
			wantEdge:  false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := twoTopicInstance(tc.student)
			in.Overrides = tc.overrides
			m := BuildCostModel(in, pref)
			got, ok := m.Cost("s", tc.topic)
			if ok != tc.wantEdge {
				t.Fatalf("edge existence = %v, want %v", ok, tc.wantEdge)
			}
			if ok && got != tc.wantCost {
				t.Fatalf("cost = %d, want %d", got, tc.wantCost)
			}
		})
	}
}

func TestBuildCostModel_ForcedIsSoleEdge(t *testing.T) {
	s := core.Student{ID: "s", Plan: true, Ranks: []string{"t2"}, ForcedTopic: "t1"}
	m := BuildCostModel(twoTopicInstance(s), config.Default().Preference)

	if got := m.AdmissibleTopics("s"); len(got) != 1 || got[0] != "t1" {
		t.Fatalf("admissible topics = %v, want [t1]", got)
	}
	if c, _ := m.Cost("s", "t1"); c != ForcedCost {
		t.Fatalf("forced cost = %d, want %d", c, ForcedCost)
	}
}

func TestBuildCostModel_DisallowUnranked(t *testing.T) {
	pref := config.Default().Preference
	pref.AllowUnranked = false
	s := core.Student{ID: "s", Plan: true, Ranks: []string{"t1"}}
	m := BuildCostModel(twoTopicInstance(s), pref)

	if _, ok := m.Cost("s", "t2"); ok {
		t.Fatal("unranked edge exists with AllowUnranked off")
	}
	if _, ok := m.Cost("s", "t1"); !ok {
		t.Fatal("ranked edge missing")
	}
}

func TestBuildCostModel_SkipsNonPlanning(t *testing.T) {
	s := core.Student{ID: "s", Plan: false, Ranks: []string{"t1"}}
	m := BuildCostModel(twoTopicInstance(s), config.Default().Preference)

	if len(m.StudentIDs) != 0 {
		t.Fatalf("non-planning student included: %v", m.StudentIDs)
	}
	if _, ok := m.Edges["s"]; ok {
		t.Fatal("non-planning student received edges")
	}
}

func TestRankCode(t *testing.T) {
	s := core.Student{
		ID: "s", Plan: true,
		Ranks:       []string{"r1", "r2", "r3"},
		Tiers:       map[int][]string{1: {"g1"}, 3: {"g3"}},
		ForcedTopic: "f",
	}
	tests := []struct {
		topic string
		want  int
	}{
		{"f", core.RankForced},
		{"g1", core.RankTier1},
		{"g3", core.RankTier3},
		{"r1", core.RankFirst},
		{"r3", core.RankThird},
		{"other", core.RankUnranked},
	}
	for _, tc := range tests {
		if got := RankCode(s, tc.topic); got != tc.want {
			t.Fatalf("RankCode(%q) = %d, want %d", tc.topic, got, tc.want)
		}
	}
}
