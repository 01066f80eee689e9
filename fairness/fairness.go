package fairness

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/katalvlaran/thesisflow/core"
)

// ErrNoAssignments indicates an empty allocation, for which no metric is
// defined.
var ErrNoAssignments = errors.New("fairness: no assignments")

// Metrics summarizes one allocation.
type Metrics struct {
	TotalStudents int

	// Effective-cost statistics (satisfaction proxy; lower is better).
	AvgCost   float64
	StdevCost float64
	MinCost   int64
	MaxCost   int64
	GiniCost  float64

	// Rank-code statistics.
	AvgRank   float64
	StdevRank float64
	GiniRank  float64

	// TierDistribution counts students per satisfaction class name.
	TierDistribution map[string]int

	// SatisfiedTop3 counts students in any tier or ranked choices 1..3.
	SatisfiedTop3 int

	// Unranked counts students assigned a topic they never stated.
	Unranked int
}

// tierName labels a rank code for reporting.
func tierName(code int) string {
	switch code {
	case core.RankForced:
		return "Forced"
	case core.RankTier1:
		return "Tier1"
	case core.RankTier2:
		return "Tier2"
	case core.RankTier3:
		return "Tier3"
	case core.RankFirst:
		return "1st choice"
	case core.RankSecond:
		return "2nd choice"
	case core.RankThird:
		return "3rd choice"
	case core.RankFourth:
		return "4th choice"
	case core.RankFifth:
		return "5th choice"
	case core.RankUnranked:
		return "Unranked"
	default:
		return fmt.Sprintf("code %d", code)
	}
}

// Gini computes the Gini coefficient of the values: 0 is perfect equality,
// 1 perfect inequality. Fewer than two values, or a zero sum, yield 0.
func Gini(values []int64) float64 {
	if len(values) < 2 {
		return 0
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := float64(len(sorted))
	var sum, cumsum float64
	for i, v := range sorted {
		sum += float64(v)
		cumsum += float64(i+1) * float64(v)
	}
	if sum == 0 {
		return 0
	}

	return 2*cumsum/(n*sum) - (n+1)/n
}

// meanStdev returns the mean and the sample standard deviation.
func meanStdev(values []int64) (mean, stdev float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean = sum / n
	if n < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}

	return mean, math.Sqrt(sq / (n - 1))
}

// Compute derives the metrics of one allocation.
func Compute(assignments []core.Assignment) (Metrics, error) {
	if len(assignments) == 0 {
		return Metrics{}, ErrNoAssignments
	}

	costs := make([]int64, len(assignments))
	ranks := make([]int64, len(assignments))
	dist := make(map[string]int)
	m := Metrics{
		TotalStudents:    len(assignments),
		TierDistribution: dist,
		MinCost:          assignments[0].EffectiveCost,
		MaxCost:          assignments[0].EffectiveCost,
	}
	for i, a := range assignments {
		costs[i] = a.EffectiveCost
		ranks[i] = int64(a.RankCode)
		dist[tierName(a.RankCode)]++
		if a.EffectiveCost < m.MinCost {
			m.MinCost = a.EffectiveCost
		}
		if a.EffectiveCost > m.MaxCost {
			m.MaxCost = a.EffectiveCost
		}
		switch a.RankCode {
		case core.RankTier1, core.RankTier2, core.RankTier3,
			core.RankFirst, core.RankSecond, core.RankThird:
			m.SatisfiedTop3++
		case core.RankUnranked:
			m.Unranked++
		}
	}

	m.AvgCost, m.StdevCost = meanStdev(costs)
	m.GiniCost = Gini(costs)
	m.AvgRank, m.StdevRank = meanStdev(ranks)
	m.GiniRank = Gini(ranks)

	return m, nil
}

// Labeled pairs metrics with a display label for the report.
type Labeled struct {
	Label   string
	Metrics Metrics
}

// WriteReport renders a comparison report over one or more solutions.
// With several entries it closes with the winner per headline metric.
func WriteReport(w io.Writer, entries []Labeled) error {
	if len(entries) == 0 {
		return ErrNoAssignments
	}
	rule := strings.Repeat("=", 90)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\nFAIRNESS ANALYSIS REPORT\n%s\n\n", rule, rule)

	for i, e := range entries {
		m := e.Metrics
		fmt.Fprintf(&b, "Solution %d: %s\n%s\n", i+1, e.Label, strings.Repeat("-", 90))
		fmt.Fprintf(&b, "  Total students: %d\n\n", m.TotalStudents)

		b.WriteString("  SATISFACTION FAIRNESS (lower is fairer):\n")
		fmt.Fprintf(&b, "    Gini coefficient (costs):  %.4f (0=equal, 1=unequal)\n", m.GiniCost)
		fmt.Fprintf(&b, "    Avg cost:                  %.1f\n", m.AvgCost)
		fmt.Fprintf(&b, "    Stdev cost:                %.1f\n", m.StdevCost)
		fmt.Fprintf(&b, "    Cost range:                [%d, %d]\n", m.MinCost, m.MaxCost)

		b.WriteString("\n  PREFERENCE RANK FAIRNESS:\n")
		fmt.Fprintf(&b, "    Gini coefficient (ranks): %.4f\n", m.GiniRank)
		fmt.Fprintf(&b, "    Avg rank:                 %.2f\n", m.AvgRank)
		fmt.Fprintf(&b, "    Stdev rank:               %.2f\n", m.StdevRank)

		b.WriteString("\n  SATISFACTION DISTRIBUTION:\n")
		names := make([]string, 0, len(m.TierDistribution))
		for name := range m.TierDistribution {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			count := m.TierDistribution[name]
			fmt.Fprintf(&b, "    %-20s : %3d (%5.1f%%)\n", name, count,
				100*float64(count)/float64(m.TotalStudents))
		}

		b.WriteString("\n  SUMMARY:\n")
		fmt.Fprintf(&b, "    Top 3 satisfied: %d/%d (%.1f%%)\n", m.SatisfiedTop3, m.TotalStudents,
			100*float64(m.SatisfiedTop3)/float64(m.TotalStudents))
		fmt.Fprintf(&b, "    Unranked:        %d/%d (%.1f%%)\n\n", m.Unranked, m.TotalStudents,
			100*float64(m.Unranked)/float64(m.TotalStudents))
	}

	if len(entries) > 1 {
		bestGini, bestRank, bestTop3 := 0, 0, 0
		for i, e := range entries {
			if e.Metrics.GiniCost < entries[bestGini].Metrics.GiniCost {
				bestGini = i
			}
			if e.Metrics.AvgRank < entries[bestRank].Metrics.AvgRank {
				bestRank = i
			}
			if e.Metrics.SatisfiedTop3 > entries[bestTop3].Metrics.SatisfiedTop3 {
				bestTop3 = i
			}
		}
		fmt.Fprintf(&b, "%s\nCOMPARISON\n%s\n\n", rule, rule)
		fmt.Fprintf(&b, "Best fairness (lowest Gini):     Solution %d\n", bestGini+1)
		fmt.Fprintf(&b, "Best satisfaction (lowest rank): Solution %d\n", bestRank+1)
		fmt.Fprintf(&b, "Best coverage (most top-3):      Solution %d\n", bestTop3+1)
	}

	_, err := io.WriteString(w, b.String())

	return err
}
