package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/core"
)

func TestSolve_RejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.Algorithm = "annealing"
	_, err := Solve(twoDeptInstance(nil), cfg)
	require.ErrorIs(t, err, config.ErrBadAlgorithm)
}

func TestSolve_RejectsNilInstance(t *testing.T) {
	_, err := Solve(nil, config.Default())
	require.ErrorIs(t, err, ErrNilInstance)
}

func TestSolve_RejectsBrokenInstance(t *testing.T) {
	in := twoDeptInstance(map[string]core.Student{
		"s1": {ID: "s1", Plan: true},
	})
	in.Topics["t9"] = core.Topic{ID: "t9", CoachID: "ghost", DepartmentID: "d1", Cap: 1}

	_, err := Solve(in, config.Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "instance rejected")
}

func TestSolve_AuditObjective(t *testing.T) {
	// Both students land on unranked fallbacks (200 each) and d1 stays
	// one short of its minimum (1000): audited objective 1400.
	cfg := config.Default()
	cfg.Solver.Algorithm = config.AlgorithmFlow

	in := twoDeptInstance(map[string]core.Student{
		"s1": {ID: "s1", Plan: true, Ranks: []string{"t2"}},
		"s2": {ID: "s2", Plan: true, Banned: map[string]struct{}{"t1": {}}},
	})
	in.Departments["d1"] = core.Department{ID: "d1", DesiredMin: 2}

	res, err := Solve(in, cfg)
	require.NoError(t, err)
	require.Len(t, res.Assignments, 2)

	got := assignmentsByStudent(res)
	require.Equal(t, "t1", got["s1"].TopicID, "the shortfall discount must pull s1 into d1")
	require.Equal(t, "t2", got["s2"].TopicID)
	require.Equal(t, int64(200+200+1000), res.Diag.Objective)
	require.Equal(t, map[string]int64{"d1": 1}, res.Diag.DeptShortfall)
	require.Empty(t, res.Diag.TopicOverflow)
	require.Empty(t, res.Diag.CoachOverflow)
}

func TestSolve_AuditOverflowFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Preference.AllowUnranked = false
	cfg.Solver.Algorithm = config.AlgorithmFlow

	in := twoDeptInstance(map[string]core.Student{
		"s1": {ID: "s1", Plan: true, Ranks: []string{"t1"}},
		"s2": {ID: "s2", Plan: true, Ranks: []string{"t1"}},
	})
	in.Topics["t1"] = core.Topic{ID: "t1", CoachID: "c1", DepartmentID: "d1", Cap: 1}

	res, err := Solve(in, cfg)
	require.NoError(t, err)
	require.Len(t, res.Assignments, 2)
	require.Equal(t, map[string]int64{"t1": 1}, res.Diag.TopicOverflow)
	require.Equal(t, int64(800), res.Diag.Objective)

	// Assignments are student-sorted; the audit flags the tail rider.
	require.False(t, res.Assignments[0].ViaTopicOverflow)
	require.True(t, res.Assignments[1].ViaTopicOverflow)
}

func TestSolve_ILPAndFlowAgreeOnEasyInstance(t *testing.T) {
	students := map[string]core.Student{
		"s1": {ID: "s1", Plan: true, Ranks: []string{"t1"}},
		"s2": {ID: "s2", Plan: true, Ranks: []string{"t2"}},
	}

	cfg := config.Default()
	cfg.Solver.Algorithm = config.AlgorithmILP
	exact, err := Solve(twoDeptInstance(students), cfg)
	require.NoError(t, err)

	cfg.Solver.Algorithm = config.AlgorithmFlow
	flow, err := Solve(twoDeptInstance(students), cfg)
	require.NoError(t, err)

	require.Equal(t, exact.Diag.Objective, flow.Diag.Objective)
	require.Equal(t, exact.Assignments, flow.Assignments)
}

func TestSolve_HybridKeepsCertifiedExact(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.Algorithm = config.AlgorithmHybrid

	in := twoDeptInstance(map[string]core.Student{
		"s1": {ID: "s1", Plan: true, Ranks: []string{"t1", "t2"}},
		"s2": {ID: "s2", Plan: true, Ranks: []string{"t1", "t2"}},
		"s3": {ID: "s3", Plan: true, Ranks: []string{"t2", "t1"}},
	})
	res, err := Solve(in, cfg)
	require.NoError(t, err)
	require.Equal(t, SolverILP, res.Diag.Solver, "on an objective tie the exact result wins")
	require.True(t, res.Diag.CertifiedOptimal)
	require.Len(t, res.Assignments, 3)
}

func TestSolve_HybridFallsBackToFlowOnExactInfeasible(t *testing.T) {
	// Constrained so the exact backend (complete assignment required) is
	// infeasible while the flow backend returns a partial result.
	cfg := config.Default()
	cfg.Preference.AllowUnranked = false
	cfg.Capacity.EnableTopicOverflow = false
	cfg.Capacity.EnableCoachOverflow = false
	cfg.Solver.Algorithm = config.AlgorithmHybrid

	in := twoDeptInstance(map[string]core.Student{
		"s1": {ID: "s1", Plan: true, Ranks: []string{"t1"}},
		"s2": {ID: "s2", Plan: true, Ranks: []string{"t1"}},
	})
	in.Topics["t1"] = core.Topic{ID: "t1", CoachID: "c1", DepartmentID: "d1", Cap: 1}

	res, err := Solve(in, cfg)
	require.NoError(t, err)
	require.Equal(t, SolverFlow, res.Diag.Solver)
	require.Equal(t, StatusPartial, res.Diag.Status)
	require.Len(t, res.Assignments, 1)
}

func TestSolve_HybridBothInfeasible(t *testing.T) {
	cfg := config.Default()
	cfg.Preference.AllowUnranked = false
	cfg.Capacity.DeptMinMode = config.DeptMinHard
	cfg.Solver.Algorithm = config.AlgorithmHybrid

	in := twoDeptInstance(map[string]core.Student{
		"s1": {ID: "s1", Plan: true, Ranks: []string{"t1"}},
	})
	in.Departments["d1"] = core.Department{ID: "d1", DesiredMin: 2}

	_, err := Solve(in, cfg)
	require.ErrorIs(t, err, ErrInfeasible)
}

func TestSolve_UnassignableSurfaced(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.Algorithm = config.AlgorithmFlow

	in := twoDeptInstance(map[string]core.Student{
		"s1": {ID: "s1", Plan: true, Ranks: []string{"t1"}},
		"s2": {ID: "s2", Plan: true, Banned: map[string]struct{}{
			"t1": {}, "t2": {},
		}},
	})
	res, err := Solve(in, cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"s2"}, res.Diag.Unassignable)
	require.Len(t, res.Assignments, 1)
}
