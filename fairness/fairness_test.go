package fairness

import (
	"math"
	"strings"
	"testing"

	"github.com/katalvlaran/thesisflow/core"
)

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		want   float64
	}{
		{"single value", []int64{5}, 0},
		{"perfect equality", []int64{3, 3, 3, 3}, 0},
		{"all on one", []int64{0, 0, 0, 10}, 0.75},
		{"zero sum", []int64{0, 0}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Gini(tc.values); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Gini(%v) = %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}

func TestGini_InputUntouched(t *testing.T) {
	vals := []int64{5, 1, 3}
	Gini(vals)
	if vals[0] != 5 || vals[1] != 1 || vals[2] != 3 {
		t.Fatalf("input mutated: %v", vals)
	}
}

func TestMeanStdev(t *testing.T) {
	mean, stdev := meanStdev([]int64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Fatalf("mean = %v, want 5", mean)
	}
	// Sample stdev of this classic set is ~2.138.
	if math.Abs(stdev-2.1380899) > 1e-6 {
		t.Fatalf("stdev = %v", stdev)
	}
	if m, s := meanStdev([]int64{3}); m != 3 || s != 0 {
		t.Fatalf("single value: mean=%v stdev=%v", m, s)
	}
}

func sampleAssignments() []core.Assignment {
	return []core.Assignment{
		{StudentID: "s1", RankCode: core.RankFirst, EffectiveCost: 0},
		{StudentID: "s2", RankCode: core.RankSecond, EffectiveCost: 1},
		{StudentID: "s3", RankCode: core.RankTier2, EffectiveCost: 1},
		{StudentID: "s4", RankCode: core.RankFifth, EffectiveCost: 102},
		{StudentID: "s5", RankCode: core.RankUnranked, EffectiveCost: 200},
	}
}

func TestCompute(t *testing.T) {
	m, err := Compute(sampleAssignments())
	if err != nil {
		t.Fatal(err)
	}
	if m.TotalStudents != 5 {
		t.Fatalf("TotalStudents = %d", m.TotalStudents)
	}
	if m.SatisfiedTop3 != 3 {
		t.Fatalf("SatisfiedTop3 = %d, want 3", m.SatisfiedTop3)
	}
	if m.Unranked != 1 {
		t.Fatalf("Unranked = %d, want 1", m.Unranked)
	}
	if m.MinCost != 0 || m.MaxCost != 200 {
		t.Fatalf("cost range [%d, %d]", m.MinCost, m.MaxCost)
	}
	if m.TierDistribution["1st choice"] != 1 || m.TierDistribution["Unranked"] != 1 {
		t.Fatalf("distribution = %v", m.TierDistribution)
	}
	if m.GiniCost <= 0 || m.GiniCost >= 1 {
		t.Fatalf("GiniCost = %v out of (0, 1)", m.GiniCost)
	}
}

func TestCompute_Empty(t *testing.T) {
	if _, err := Compute(nil); err != ErrNoAssignments {
		t.Fatalf("err = %v, want ErrNoAssignments", err)
	}
}

func TestWriteReport(t *testing.T) {
	m1, _ := Compute(sampleAssignments())
	m2, _ := Compute(sampleAssignments()[:3])

	var buf strings.Builder
	err := WriteReport(&buf, []Labeled{
		{Label: "exact", Metrics: m1},
		{Label: "flow", Metrics: m2},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"FAIRNESS ANALYSIS REPORT",
		"Solution 1: exact",
		"Solution 2: flow",
		"COMPARISON",
		"Best coverage (most top-3):      Solution 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
