package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/thesisflow/alloc"
	"github.com/katalvlaran/thesisflow/core"
)

// allocationHeader is the fixed column order of allocation.csv.
var allocationHeader = []string{
	"student", "assigned_topic", "assigned_coach", "department_id",
	"preference_rank", "effective_cost", "via_topic_overflow", "via_coach_overflow",
}

// WriteAllocationCSV writes one row per assignment in the given order
// (callers pass audited results, already student-sorted).
func WriteAllocationCSV(w io.Writer, rows []core.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(allocationHeader); err != nil {
		return fmt.Errorf("csvio: %w", err)
	}
	for _, a := range rows {
		rec := []string{
			a.StudentID, a.TopicID, a.CoachID, a.DepartmentID,
			strconv.Itoa(a.RankCode),
			strconv.FormatInt(a.EffectiveCost, 10),
			strconv.FormatBool(a.ViaTopicOverflow),
			strconv.FormatBool(a.ViaCoachOverflow),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csvio: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteSummary renders the human-readable run report: solver outcome,
// unplaced students, per-class satisfaction counts and the utilization of
// every topic, coach and department.
func WriteSummary(w io.Writer, res alloc.Result, in *core.Instance) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Solver status: %s (%s)\n", res.Diag.Status, res.Diag.Solver)
	fmt.Fprintf(&b, "Objective: %d\n\n", res.Diag.Objective)

	fmt.Fprintf(&b, "Unassignable students (no admissible topics): %d\n", len(res.Diag.Unassignable))
	for _, sid := range res.Diag.Unassignable {
		fmt.Fprintf(&b, "  - %s\n", sid)
	}
	fmt.Fprintf(&b, "\nUnassigned after solve: %d\n", len(res.Diag.Unassigned))
	for _, sid := range res.Diag.Unassigned {
		fmt.Fprintf(&b, "  - %s\n", sid)
	}

	codeCounts := make(map[int]int)
	topicUsed := make(map[string]int64)
	coachUsed := make(map[string]int64)
	deptUsed := make(map[string]int64)
	for _, a := range res.Assignments {
		codeCounts[a.RankCode]++
		topicUsed[a.TopicID]++
		coachUsed[a.CoachID]++
		deptUsed[a.DepartmentID]++
	}

	b.WriteString("\nPreference satisfaction:\n")
	fmt.Fprintf(&b, "  Forced: %d\n", codeCounts[core.RankForced])
	fmt.Fprintf(&b, "  Tier1: %d\n", codeCounts[core.RankTier1])
	fmt.Fprintf(&b, "  Tier2: %d\n", codeCounts[core.RankTier2])
	fmt.Fprintf(&b, "  Tier3: %d\n", codeCounts[core.RankTier3])

	b.WriteString("\nRanked choice satisfaction:\n")
	labels := []string{"1st", "2nd", "3rd", "4th", "5th"}
	for i, label := range labels {
		fmt.Fprintf(&b, "  %s choice: %d\n", label, codeCounts[core.RankFirst+i])
	}
	fmt.Fprintf(&b, "  Unranked : %d\n", codeCounts[core.RankUnranked])

	b.WriteString("\nTopic utilization:\n")
	for _, tid := range sortedIDs(in.Topics) {
		line := fmt.Sprintf("  %s: %d / %d", tid, topicUsed[tid], in.Topics[tid].Cap)
		if ov := res.Diag.TopicOverflow[tid]; ov > 0 {
			line += fmt.Sprintf("  (overflow=%d)", ov)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nCoach utilization:\n")
	for _, cid := range sortedIDs(in.Coaches) {
		line := fmt.Sprintf("  %s: %d / %d", cid, coachUsed[cid], in.Coaches[cid].Cap)
		if ov := res.Diag.CoachOverflow[cid]; ov > 0 {
			line += fmt.Sprintf("  (overflow=%d)", ov)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nDepartment totals:\n")
	for _, did := range sortedIDs(in.Departments) {
		d := in.Departments[did]
		line := fmt.Sprintf("  %s: %d", did, deptUsed[did])
		if d.DesiredMin > 0 {
			line += fmt.Sprintf(" (desired_min=%d", d.DesiredMin)
			if short := res.Diag.DeptShortfall[did]; short > 0 {
				line += fmt.Sprintf(", shortfall=%d", short)
			}
			line += ")"
		}
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// WriteOutputs writes allocation.csv and summary.txt into the given paths.
func WriteOutputs(allocationPath, summaryPath string, res alloc.Result, in *core.Instance) error {
	af, err := os.Create(allocationPath)
	if err != nil {
		return fmt.Errorf("csvio: %w", err)
	}
	defer af.Close()
	if err = WriteAllocationCSV(af, res.Assignments); err != nil {
		return err
	}

	sf, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("csvio: %w", err)
	}
	defer sf.Close()

	return WriteSummary(sf, res, in)
}

// sortedIDs returns the sorted key set of a string-keyed map.
func sortedIDs[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
