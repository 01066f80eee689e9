package alloc

import (
	"sort"

	"github.com/katalvlaran/thesisflow/core"
)

// ConstraintModel holds the capacity-side derived indices shared read-only
// by both solver backends: which topics each coach owns, which topics and
// coaches each department contains, and the assignable/unassignable split
// of the planning students.
type ConstraintModel struct {
	// TopicsByCoach / TopicsByDept map owner ID to sorted topic IDs.
	TopicsByCoach map[string][]string
	TopicsByDept  map[string][]string

	// CoachesByDept maps department ID to sorted coach IDs. The flow
	// backend layers the network along this index.
	CoachesByDept map[string][]string

	// Assignable holds planning students with ≥1 admissible edge, sorted.
	// Unassignable holds the rest, sorted; they are excluded from the
	// formulations and surfaced in Diagnostics.
	Assignable   []string
	Unassignable []string
}

// BuildConstraintModel derives the capacity indices from the instance and
// splits the cost model's students by admissibility.
//
// Complexity: O(T log T + S log S).
func BuildConstraintModel(in *core.Instance, cm *CostModel) *ConstraintModel {
	con := &ConstraintModel{
		TopicsByCoach: make(map[string][]string, len(in.Coaches)),
		TopicsByDept:  make(map[string][]string, len(in.Departments)),
		CoachesByDept: make(map[string][]string, len(in.Departments)),
	}

	for _, tid := range sortedKeys(in.Topics) {
		t := in.Topics[tid]
		con.TopicsByCoach[t.CoachID] = append(con.TopicsByCoach[t.CoachID], tid)
		con.TopicsByDept[t.DepartmentID] = append(con.TopicsByDept[t.DepartmentID], tid)
	}
	for _, cid := range sortedKeys(in.Coaches) {
		c := in.Coaches[cid]
		con.CoachesByDept[c.DepartmentID] = append(con.CoachesByDept[c.DepartmentID], cid)
	}

	for _, sid := range cm.StudentIDs {
		if len(cm.Edges[sid]) == 0 {
			con.Unassignable = append(con.Unassignable, sid)
		} else {
			con.Assignable = append(con.Assignable, sid)
		}
	}
	sort.Strings(con.Assignable)
	sort.Strings(con.Unassignable)

	return con
}

// deptEdgeStudents counts, per department, the distinct assignable students
// with at least one admissible edge into that department's topics. It is an
// upper bound on the department's achievable headcount and the cheapest
// determinable witness for an unreachable hard minimum.
func (con *ConstraintModel) deptEdgeStudents(in *core.Instance, cm *CostModel) map[string]int64 {
	counts := make(map[string]int64, len(in.Departments))
	for _, sid := range con.Assignable {
		seen := make(map[string]struct{}, 2)
		for tid := range cm.Edges[sid] {
			seen[in.Topics[tid].DepartmentID] = struct{}{}
		}
		for did := range seen {
			counts[did]++
		}
	}

	return counts
}

// impossibleHardMins returns the sorted departments whose hard desired
// minimum exceeds even the count of students that could reach them.
// An empty slice does not certify feasibility; it only means no single
// department is provably the culprit.
func (con *ConstraintModel) impossibleHardMins(in *core.Instance, cm *CostModel) []string {
	reach := con.deptEdgeStudents(in, cm)
	var out []string
	for _, did := range sortedKeys(in.Departments) {
		d := in.Departments[did]
		if d.DesiredMin > 0 && reach[did] < d.DesiredMin {
			out = append(out, did)
		}
	}

	return out
}
