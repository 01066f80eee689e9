package csvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/thesisflow/alloc"
	"github.com/katalvlaran/thesisflow/core"
)

func sampleResult() (alloc.Result, *core.Instance) {
	in := &core.Instance{
		Topics: map[string]core.Topic{
			"t1": {ID: "t1", CoachID: "c1", DepartmentID: "d1", Cap: 1},
			"t2": {ID: "t2", CoachID: "c1", DepartmentID: "d1", Cap: 2},
		},
		Coaches:     map[string]core.Coach{"c1": {ID: "c1", DepartmentID: "d1", Cap: 3}},
		Departments: map[string]core.Department{"d1": {ID: "d1", DesiredMin: 3}},
	}
	res := alloc.Result{
		Assignments: []core.Assignment{
			{StudentID: "s1", TopicID: "t1", CoachID: "c1", DepartmentID: "d1",
				RankCode: core.RankFirst, EffectiveCost: 0},
			{StudentID: "s2", TopicID: "t1", CoachID: "c1", DepartmentID: "d1",
				RankCode: core.RankUnranked, EffectiveCost: 200, ViaTopicOverflow: true},
		},
		Diag: alloc.Diagnostics{
			Status:        alloc.StatusFeasible,
			Solver:        alloc.SolverFlow,
			Objective:     1000 + 200 + 800,
			TopicOverflow: map[string]int64{"t1": 1},
			DeptShortfall: map[string]int64{"d1": 1},
			Unassignable:  []string{"s9"},
		},
	}

	return res, in
}

func TestWriteAllocationCSV(t *testing.T) {
	res, _ := sampleResult()
	var buf strings.Builder
	require.NoError(t, WriteAllocationCSV(&buf, res.Assignments))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t,
		"student,assigned_topic,assigned_coach,department_id,preference_rank,effective_cost,via_topic_overflow,via_coach_overflow",
		lines[0])
	require.Equal(t, "s1,t1,c1,d1,10,0,false,false", lines[1])
	require.Equal(t, "s2,t1,c1,d1,999,200,true,false", lines[2])
}

func TestWriteSummary(t *testing.T) {
	res, in := sampleResult()
	var buf strings.Builder
	require.NoError(t, WriteSummary(&buf, res, in))
	out := buf.String()

	require.Contains(t, out, "Solver status: feasible (flow)")
	require.Contains(t, out, "Objective: 2000")
	require.Contains(t, out, "Unassignable students (no admissible topics): 1")
	require.Contains(t, out, "  - s9")
	require.Contains(t, out, "  1st choice: 1")
	require.Contains(t, out, "  Unranked : 1")
	require.Contains(t, out, "  t1: 2 / 1  (overflow=1)")
	require.Contains(t, out, "  t2: 0 / 2")
	require.Contains(t, out, "  c1: 2 / 3")
	require.Contains(t, out, "  d1: 2 (desired_min=3, shortfall=1)")
}

func TestWriteOutputs(t *testing.T) {
	res, in := sampleResult()
	dir := t.TempDir()
	allocPath := dir + "/allocation.csv"
	sumPath := dir + "/summary.txt"
	require.NoError(t, WriteOutputs(allocPath, sumPath, res, in))

	require.FileExists(t, allocPath)
	require.FileExists(t, sumPath)
}
