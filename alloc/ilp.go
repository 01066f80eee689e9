package alloc

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/core"
)

// pairVar binds one admissible (student, topic) pair to its decision variable.
type pairVar struct {
	sid string
	tid string
	v   cpmodel.BoolVar
}

// ilpEngine formulates the allocation as an integer program on CP-SAT:
//
//	min  Σ cost[s,t]·x[s,t] + P_topic·Σ ovT + P_coach·Σ ovC + P_dept·Σ short
//	s.t. Σ_t x[s,t] = 1                       per assignable student
//	     Σ_s x[s,t] − ovT[t]   ≤ topicCap[t]  per topic
//	     Σ_{s,t∈coach} x − ovC ≤ coachCap     per coach
//	     Σ_{s,t∈dept}  x (+ short) ≥ min      per department with a minimum
//
// Overflow and shortfall variables exist only where the configuration
// enables them; a hard cap is simply the overflow-disabled special case of
// the same constraint, mirroring the flow backend's arc layout. Forced
// students are pinned structurally: the cost model gives them exactly one
// admissible edge, so their exactly-one constraint has a single variable.
type ilpEngine struct {
	in  *core.Instance
	cm  *CostModel
	con *ConstraintModel
	cfg config.Config

	model   *cpmodel.Builder
	pairs   []pairVar
	byTopic map[string][]cpmodel.BoolVar

	ovTopic   map[string]cpmodel.IntVar
	ovCoach   map[string]cpmodel.IntVar
	shortfall map[string]cpmodel.IntVar

	built bool
}

func newILPEngine(in *core.Instance, cm *CostModel, con *ConstraintModel, cfg config.Config) *ilpEngine {
	return &ilpEngine{in: in, cm: cm, con: con, cfg: cfg}
}

// build creates variables, objective and constraints. Variable creation
// follows sorted student/topic order so the proto — and with a fixed seed
// the search — is reproducible.
func (e *ilpEngine) build() {
	e.model = cpmodel.NewCpModelBuilder()
	students := int64(len(e.con.Assignable))
	soft := e.cfg.Capacity.DeptMinMode == config.DeptMinSoft

	// Decision variables, one per admissible pair.
	e.byTopic = make(map[string][]cpmodel.BoolVar)
	perStudent := make(map[string][]cpmodel.BoolVar, len(e.con.Assignable))
	for _, sid := range e.con.Assignable {
		for _, tid := range e.cm.AdmissibleTopics(sid) {
			v := e.model.NewBoolVar().WithName(fmt.Sprintf("x__%s__%s", sid, tid))
			e.pairs = append(e.pairs, pairVar{sid: sid, tid: tid, v: v})
			e.byTopic[tid] = append(e.byTopic[tid], v)
			perStudent[sid] = append(perStudent[sid], v)
		}
	}

	// Slack variables.
	if e.cfg.Capacity.EnableTopicOverflow {
		e.ovTopic = make(map[string]cpmodel.IntVar, len(e.in.Topics))
		for _, tid := range e.cm.TopicIDs {
			e.ovTopic[tid] = e.model.NewIntVar(0, students).WithName("ov_topic__" + tid)
		}
	}
	if e.cfg.Capacity.EnableCoachOverflow {
		e.ovCoach = make(map[string]cpmodel.IntVar, len(e.in.Coaches))
		for _, cid := range sortedKeys(e.in.Coaches) {
			e.ovCoach[cid] = e.model.NewIntVar(0, students).WithName("ov_coach__" + cid)
		}
	}
	if soft {
		e.shortfall = make(map[string]cpmodel.IntVar, len(e.in.Departments))
		for _, did := range sortedKeys(e.in.Departments) {
			d := e.in.Departments[did]
			if d.DesiredMin > 0 {
				e.shortfall[did] = e.model.NewIntVar(0, d.DesiredMin).WithName("shortfall__" + did)
			}
		}
	}

	// Objective.
	obj := cpmodel.NewLinearExpr()
	for _, p := range e.pairs {
		cost, _ := e.cm.Cost(p.sid, p.tid)
		obj.AddTerm(p.v, cost)
	}
	for _, tid := range e.cm.TopicIDs {
		if v, ok := e.ovTopic[tid]; ok {
			obj.AddTerm(v, e.cfg.Capacity.TopicOverflowPenalty)
		}
	}
	for _, cid := range sortedKeys(e.in.Coaches) {
		if v, ok := e.ovCoach[cid]; ok {
			obj.AddTerm(v, e.cfg.Capacity.CoachOverflowPenalty)
		}
	}
	for _, did := range sortedKeys(e.in.Departments) {
		if v, ok := e.shortfall[did]; ok {
			obj.AddTerm(v, e.cfg.Capacity.DeptShortfallPenalty)
		}
	}
	e.model.Minimize(obj)

	// Exactly one topic per assignable student.
	for _, sid := range e.con.Assignable {
		e.model.AddExactlyOne(perStudent[sid]...)
	}

	// Topic capacities: Σ x − ov ≤ cap.
	for _, tid := range e.cm.TopicIDs {
		t := e.in.Topics[tid]
		lhs := cpmodel.NewLinearExpr()
		for _, v := range e.byTopic[tid] {
			lhs.Add(v)
		}
		if v, ok := e.ovTopic[tid]; ok {
			lhs.AddTerm(v, -1)
		}
		e.model.AddLessOrEqual(lhs, cpmodel.NewConstant(t.Cap))
	}

	// Coach capacities, aggregated over the coach's topics.
	for _, cid := range sortedKeys(e.in.Coaches) {
		c := e.in.Coaches[cid]
		lhs := cpmodel.NewLinearExpr()
		for _, tid := range e.con.TopicsByCoach[cid] {
			for _, v := range e.byTopic[tid] {
				lhs.Add(v)
			}
		}
		if v, ok := e.ovCoach[cid]; ok {
			lhs.AddTerm(v, -1)
		}
		e.model.AddLessOrEqual(lhs, cpmodel.NewConstant(c.Cap))
	}

	// Department minimums: soft adds the shortfall slack, hard does not.
	for _, did := range sortedKeys(e.in.Departments) {
		d := e.in.Departments[did]
		if d.DesiredMin <= 0 {
			continue
		}
		lhs := cpmodel.NewLinearExpr()
		for _, tid := range e.con.TopicsByDept[did] {
			for _, v := range e.byTopic[tid] {
				lhs.Add(v)
			}
		}
		if v, ok := e.shortfall[did]; ok {
			lhs.Add(v)
		}
		e.model.AddGreaterOrEqual(lhs, cpmodel.NewConstant(d.DesiredMin))
	}

	e.built = true
}

// params maps the solver policy onto CP-SAT parameters.
func (e *ilpEngine) params() *sppb.SatParameters {
	p := &sppb.SatParameters{}
	if sec := e.cfg.Solver.TimeLimitSec; sec > 0 {
		p.MaxTimeInSeconds = proto.Float64(float64(sec))
	}
	if seed := e.cfg.Solver.RandomSeed; seed != nil {
		p.RandomSeed = proto.Int32(int32(*seed))
	}
	if eps := e.cfg.Solver.EpsilonSuboptimal; eps != nil {
		p.RelativeGapLimit = proto.Float64(*eps)
	}

	return p
}

// solve runs CP-SAT and extracts the assignment.
func (e *ilpEngine) solve() (Result, error) {
	if !e.built {
		return Result{}, ErrNotBuilt
	}
	start := time.Now()

	m, err := e.model.Model()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSolverInternal, err)
	}
	response, err := cpmodel.SolveCpModelWithParameters(m, e.params())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSolverInternal, err)
	}

	switch response.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL, cmpb.CpSolverStatus_FEASIBLE:
	case cmpb.CpSolverStatus_INFEASIBLE:
		fail := &InfeasibilityError{}
		if e.cfg.Capacity.DeptMinMode == config.DeptMinHard {
			fail.Departments = e.con.impossibleHardMins(e.in, e.cm)
		}

		return Result{}, fail
	default:
		return Result{}, fmt.Errorf("%w: status %v", ErrSolverInternal, response.GetStatus())
	}

	res := Result{Diag: Diagnostics{
		Solver:       SolverILP,
		Unassignable: append([]string(nil), e.con.Unassignable...),
	}}
	if response.GetStatus() == cmpb.CpSolverStatus_OPTIMAL {
		res.Diag.Status = StatusOptimal
		// An epsilon-relaxed run stops at the gap limit; the incumbent is
		// within tolerance but not a certified optimum.
		res.Diag.CertifiedOptimal = e.cfg.Solver.EpsilonSuboptimal == nil
	} else {
		res.Diag.Status = StatusFeasible
	}

	for _, p := range e.pairs {
		if !cpmodel.SolutionBooleanValue(response, p.v) {
			continue
		}
		s := e.in.Students[p.sid]
		t := e.in.Topics[p.tid]
		cost, _ := e.cm.Cost(p.sid, p.tid)
		res.Assignments = append(res.Assignments, core.Assignment{
			StudentID:     p.sid,
			TopicID:       p.tid,
			CoachID:       t.CoachID,
			DepartmentID:  t.DepartmentID,
			RankCode:      RankCode(s, p.tid),
			EffectiveCost: cost,
			Forced:        s.ForcedTopic == p.tid,
		})
	}
	res.Diag.WallTime = time.Since(start)

	return res, nil
}

// solveILP is the package-level entry for the exact backend.
func solveILP(in *core.Instance, cm *CostModel, con *ConstraintModel, cfg config.Config) (Result, error) {
	e := newILPEngine(in, cm, con, cfg)
	e.build()

	return e.solve()
}
