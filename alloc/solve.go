package alloc

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/core"
)

// hybridState tracks the reconciler through its run.
type hybridState uint8

const (
	hybridNotStarted hybridState = iota
	hybridRunningExact
	hybridRunningFlow
	hybridCompared
	hybridResolved
	hybridInfeasible
)

// String returns the state name used in diagnostics and errors.
func (h hybridState) String() string {
	switch h {
	case hybridNotStarted:
		return "not_started"
	case hybridRunningExact:
		return "running_exact"
	case hybridRunningFlow:
		return "running_flow"
	case hybridCompared:
		return "compared"
	case hybridResolved:
		return "resolved"
	case hybridInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Solve validates the configuration and instance, builds the shared cost
// and constraint models once, and dispatches to the configured backend.
//
// Determinism: with a fixed RandomSeed the same instance and configuration
// produce byte-identical results across runs.
func Solve(in *core.Instance, cfg config.Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if in == nil {
		return Result{}, ErrNilInstance
	}
	if ok, findings := ValidateInstance(in); !ok {
		return Result{}, fmt.Errorf("alloc: instance rejected: %s", ValidationSummary(findings))
	}

	cm := BuildCostModel(in, cfg.Preference)
	con := BuildConstraintModel(in, cm)

	switch cfg.Solver.Algorithm {
	case config.AlgorithmILP:
		res, err := solveILP(in, cm, con, cfg)
		if err != nil {
			return Result{}, err
		}
		auditResult(&res, in, con, cfg)

		return res, nil
	case config.AlgorithmFlow:
		res, err := solveFlow(in, cm, con, cfg)
		if err != nil {
			return Result{}, err
		}
		auditResult(&res, in, con, cfg)

		return res, nil
	case config.AlgorithmHybrid:
		h := &hybridRun{in: in, cm: cm, con: con, cfg: cfg}

		return h.resolve()
	default:
		// Unreachable after Validate; kept for exhaustiveness.
		return Result{}, fmt.Errorf("%w: got %q", config.ErrBadAlgorithm, cfg.Solver.Algorithm)
	}
}

// hybridRun executes both backends and keeps the better result.
type hybridRun struct {
	in  *core.Instance
	cm  *CostModel
	con *ConstraintModel
	cfg config.Config

	state hybridState
}

// resolve runs exact then flow, audits both through the same code path so
// their objectives are comparable, and selects:
//
//  1. the result assigning more students (a complete matching beats any
//     partial one, whatever its cost);
//  2. on equal coverage, the lower audited objective;
//  3. on equal objective, the exact result. In particular a certified
//     optimum from the exact backend is never displaced.
func (h *hybridRun) resolve() (Result, error) {
	h.state = hybridRunningExact
	exact, exactErr := solveILP(h.in, h.cm, h.con, h.cfg)

	h.state = hybridRunningFlow
	flow, flowErr := solveFlow(h.in, h.cm, h.con, h.cfg)

	h.state = hybridCompared
	if exactErr != nil && flowErr != nil {
		h.state = hybridInfeasible
		// Both backends agree the instance has no answer; the exact
		// backend's error carries the better diagnosis.
		return Result{}, fmt.Errorf("alloc: hybrid %s: %w", h.state, exactErr)
	}

	var res Result
	switch {
	case exactErr != nil:
		auditResult(&flow, h.in, h.con, h.cfg)
		res = flow
	case flowErr != nil:
		auditResult(&exact, h.in, h.con, h.cfg)
		res = exact
	default:
		auditResult(&exact, h.in, h.con, h.cfg)
		auditResult(&flow, h.in, h.con, h.cfg)
		res = pickBetter(exact, flow)
	}

	h.state = hybridResolved
	res.Diag.WallTime = exact.Diag.WallTime + flow.Diag.WallTime

	return res, nil
}

// pickBetter applies the coverage-then-objective rule, exact winning ties.
func pickBetter(exact, flow Result) Result {
	if len(exact.Assignments) != len(flow.Assignments) {
		if len(exact.Assignments) > len(flow.Assignments) {
			return exact
		}

		return flow
	}
	if exact.Diag.Objective <= flow.Diag.Objective {
		return exact
	}

	return flow
}

// auditResult recomputes the objective and the overflow/shortfall
// diagnostics from the assignments alone, never trusting backend-reported
// numbers. Both backends pass through here, which is what makes the hybrid
// comparison meaningful.
//
// The backends report only how many units exceed a capacity, not which
// ones; the audit deterministically flags the tail of each sorted
// per-topic (per-coach) group as the overflow riders.
func auditResult(res *Result, in *core.Instance, con *ConstraintModel, cfg config.Config) {
	sort.Slice(res.Assignments, func(i, j int) bool {
		return res.Assignments[i].StudentID < res.Assignments[j].StudentID
	})

	byTopic := make(map[string][]int)  // topic → assignment indices, student-sorted
	perCoach := make(map[string]int64) // coach → assigned count
	perDept := make(map[string]int64)  // dept → assigned count
	var costSum int64
	for i := range res.Assignments {
		a := &res.Assignments[i]
		a.ViaTopicOverflow = false
		a.ViaCoachOverflow = false
		byTopic[a.TopicID] = append(byTopic[a.TopicID], i)
		perCoach[a.CoachID]++
		perDept[a.DepartmentID]++
		costSum += a.EffectiveCost
	}

	obj := costSum
	res.Diag.TopicOverflow = make(map[string]int64)
	res.Diag.CoachOverflow = make(map[string]int64)
	res.Diag.DeptShortfall = make(map[string]int64)

	for _, tid := range sortedKeys(byTopic) {
		idx := byTopic[tid]
		over := int64(len(idx)) - in.Topics[tid].Cap
		if over <= 0 {
			continue
		}
		res.Diag.TopicOverflow[tid] = over
		obj += over * cfg.Capacity.TopicOverflowPenalty
		for _, i := range idx[int64(len(idx))-over:] {
			res.Assignments[i].ViaTopicOverflow = true
		}
	}

	for _, cid := range sortedKeys(perCoach) {
		over := perCoach[cid] - in.Coaches[cid].Cap
		if over <= 0 {
			continue
		}
		res.Diag.CoachOverflow[cid] = over
		obj += over * cfg.Capacity.CoachOverflowPenalty
		// Flag the tail across the coach's topics in sorted topic order.
		var flagged int64
		topics := con.TopicsByCoach[cid]
		for ti := len(topics) - 1; ti >= 0 && flagged < over; ti-- {
			idx := byTopic[topics[ti]]
			for k := len(idx) - 1; k >= 0 && flagged < over; k-- {
				res.Assignments[idx[k]].ViaCoachOverflow = true
				flagged++
			}
		}
	}

	if cfg.Capacity.DeptMinMode == config.DeptMinSoft {
		for _, did := range sortedKeys(in.Departments) {
			d := in.Departments[did]
			if d.DesiredMin <= 0 {
				continue
			}
			if short := d.DesiredMin - perDept[did]; short > 0 {
				res.Diag.DeptShortfall[did] = short
				obj += short * cfg.Capacity.DeptShortfallPenalty
			}
		}
	}

	res.Diag.Objective = obj
	sort.Strings(res.Diag.Unassigned)
}
