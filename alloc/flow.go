package alloc

import (
	"time"

	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/core"
)

// flowBackend models the allocation as a layered min-cost max-flow network:
//
//	source ─► students ─► topics ─► coaches ─► departments ─► sink
//
// Each assignable student receives one unit from the source; student→topic
// arcs carry the cost model's edge costs at capacity 1; topic→coach and
// coach→department arcs are bounded by the respective capacity, each with a
// parallel penalty-priced overflow arc when overflow is enabled.
//
// Soft department minimums become a reward arc into the sink: the first
// DesiredMin units through a department travel at −DeptShortfallPenalty, so
// the cheapest max flow meets the minimum whenever any max flow can, but is
// never forced to. Hard minimums use the feasible-flow-with-lower-bounds
// reduction: the bounded arc loses its lower bound, a super source/sink
// pair absorbs the surplus and deficit, and a sink→source circulation arc
// closes the loop for the feasibility phase.
type flowBackend struct {
	in  *core.Instance
	cm  *CostModel
	con *ConstraintModel
	cfg config.Config

	g *mcmfGraph

	// Node indices.
	src, sink        int
	superSrc, superT int // hard mode only
	studentNode      map[string]int
	topicNode        map[string]int
	coachNode        map[string]int
	deptNode         map[string]int

	// Arc references for extraction.
	studentArcs map[string]map[string]arcRef // student → topic → arc
	deptMinArcs map[string]arcRef            // hard mode: dept → superT deficit arc
	circArc     arcRef                       // hard mode: sink → source

	built bool
}

func newFlowBackend(in *core.Instance, cm *CostModel, con *ConstraintModel, cfg config.Config) *flowBackend {
	return &flowBackend{in: in, cm: cm, con: con, cfg: cfg}
}

// build lays out the network. Node and arc insertion follow sorted ID
// order throughout, which fixes the augmentation order and with it the
// tie-breaking between equal-cost assignments.
func (b *flowBackend) build() {
	hard := b.cfg.Capacity.DeptMinMode == config.DeptMinHard

	topicIDs := b.cm.TopicIDs
	coachIDs := sortedKeys(b.in.Coaches)
	deptIDs := sortedKeys(b.in.Departments)

	n := 0
	next := func() int { n++; return n - 1 }

	b.src = next()
	b.studentNode = make(map[string]int, len(b.con.Assignable))
	for _, sid := range b.con.Assignable {
		b.studentNode[sid] = next()
	}
	b.topicNode = make(map[string]int, len(topicIDs))
	for _, tid := range topicIDs {
		b.topicNode[tid] = next()
	}
	b.coachNode = make(map[string]int, len(coachIDs))
	for _, cid := range coachIDs {
		b.coachNode[cid] = next()
	}
	b.deptNode = make(map[string]int, len(deptIDs))
	for _, did := range deptIDs {
		b.deptNode[did] = next()
	}
	b.sink = next()
	if hard {
		b.superSrc = next()
		b.superT = next()
	}

	b.g = newMCMF(n)
	students := int64(len(b.con.Assignable))

	// Source → students: one unit each.
	for _, sid := range b.con.Assignable {
		b.g.addArc(b.src, b.studentNode[sid], 1, 0)
	}

	// Students → topics: the cost model's edges.
	b.studentArcs = make(map[string]map[string]arcRef, len(b.con.Assignable))
	for _, sid := range b.con.Assignable {
		arcs := make(map[string]arcRef, len(b.cm.Edges[sid]))
		for _, tid := range b.cm.AdmissibleTopics(sid) {
			cost, _ := b.cm.Cost(sid, tid)
			arcs[tid] = b.g.addArc(b.studentNode[sid], b.topicNode[tid], 1, cost)
		}
		b.studentArcs[sid] = arcs
	}

	// Topics → coaches: capacity arc plus optional overflow twin.
	for _, tid := range topicIDs {
		t := b.in.Topics[tid]
		cn := b.coachNode[t.CoachID]
		b.g.addArc(b.topicNode[tid], cn, t.Cap, 0)
		if b.cfg.Capacity.EnableTopicOverflow {
			b.g.addArc(b.topicNode[tid], cn, students, b.cfg.Capacity.TopicOverflowPenalty)
		}
	}

	// Coaches → departments: same policy, aggregated per coach.
	for _, cid := range coachIDs {
		c := b.in.Coaches[cid]
		dn := b.deptNode[c.DepartmentID]
		b.g.addArc(b.coachNode[cid], dn, c.Cap, 0)
		if b.cfg.Capacity.EnableCoachOverflow {
			b.g.addArc(b.coachNode[cid], dn, students, b.cfg.Capacity.CoachOverflowPenalty)
		}
	}

	// Departments → sink.
	if hard {
		b.deptMinArcs = make(map[string]arcRef)
		var totalMin int64
		for _, did := range deptIDs {
			d := b.in.Departments[did]
			if d.DesiredMin <= 0 {
				b.g.addArc(b.deptNode[did], b.sink, students, 0)

				continue
			}
			// Lower bound L on dept→sink: residual capacity shrinks by L,
			// the sink gains L guaranteed inflow (supplied by superSrc) and
			// the department owes L units to superT.
			residual := students - d.DesiredMin
			if residual < 0 {
				residual = 0
			}
			b.g.addArc(b.deptNode[did], b.sink, residual, 0)
			b.deptMinArcs[did] = b.g.addArc(b.deptNode[did], b.superT, d.DesiredMin, 0)
			totalMin += d.DesiredMin
		}
		if totalMin > 0 {
			b.g.addArc(b.superSrc, b.sink, totalMin, 0)
			b.circArc = b.g.addArc(b.sink, b.src, students, 0)
		}
	} else {
		for _, did := range deptIDs {
			d := b.in.Departments[did]
			if d.DesiredMin > 0 {
				// Reward arc: the first DesiredMin units are discounted, so
				// meeting the minimum is encouraged, never forced.
				b.g.addArc(b.deptNode[did], b.sink, d.DesiredMin, -b.cfg.Capacity.DeptShortfallPenalty)
			}
			b.g.addArc(b.deptNode[did], b.sink, students, 0)
		}
	}

	b.built = true
}

// solve computes the flow and reconstructs the assignment.
func (b *flowBackend) solve() (Result, error) {
	if !b.built {
		return Result{}, ErrNotBuilt
	}
	start := time.Now()

	// Phase 1 (hard minimums only): saturate the lower-bound deficits.
	if len(b.deptMinArcs) > 0 {
		var want int64
		for _, did := range sortedKeys(b.deptMinArcs) {
			want += b.flowTarget(did)
		}
		got, _ := b.g.minCostMaxFlow(b.superSrc, b.superT)
		if got < want {
			e := &InfeasibilityError{}
			for _, did := range sortedKeys(b.deptMinArcs) {
				if b.g.flowOn(b.deptMinArcs[did]) < b.flowTarget(did) {
					e.Departments = append(e.Departments, did)
				}
			}

			return Result{}, e
		}
		// The circulation arc exists only for the feasibility phase; both
		// residual directions must close before the real flow runs.
		b.closeCirculation()
	}

	// Phase 2: route every remaining student.
	b.g.minCostMaxFlow(b.src, b.sink)

	res := Result{Diag: Diagnostics{
		Solver:       SolverFlow,
		Unassignable: append([]string(nil), b.con.Unassignable...),
	}}

	for _, sid := range b.con.Assignable {
		assigned := ""
		for _, tid := range sortedKeys(b.studentArcs[sid]) {
			if b.g.flowOn(b.studentArcs[sid][tid]) > 0 {
				assigned = tid

				break
			}
		}
		if assigned == "" {
			res.Diag.Unassigned = append(res.Diag.Unassigned, sid)

			continue
		}
		s := b.in.Students[sid]
		t := b.in.Topics[assigned]
		cost, _ := b.cm.Cost(sid, assigned)
		res.Assignments = append(res.Assignments, core.Assignment{
			StudentID:     sid,
			TopicID:       assigned,
			CoachID:       t.CoachID,
			DepartmentID:  t.DepartmentID,
			RankCode:      RankCode(s, assigned),
			EffectiveCost: cost,
			Forced:        s.ForcedTopic == assigned,
		})
	}

	if len(res.Diag.Unassigned) > 0 {
		res.Diag.Status = StatusPartial
	} else {
		res.Diag.Status = StatusFeasible
	}
	res.Diag.WallTime = time.Since(start)

	return res, nil
}

// flowTarget is the lower bound owed by a hard-minimum department.
func (b *flowBackend) flowTarget(did string) int64 {
	return b.in.Departments[did].DesiredMin
}

// closeCirculation zeroes both residual directions of the sink→source arc.
// Leaving the reverse residual open would let phase 2 route units straight
// from source to sink, silently undoing the lower-bound feasibility flow.
func (b *flowBackend) closeCirculation() {
	a := &b.g.adj[b.circArc.u][b.circArc.i]
	rev := &b.g.adj[a.to][a.rev]
	a.cap = 0
	rev.cap = 0
}

// solveFlow is the package-level entry for the approximate backend.
func solveFlow(in *core.Instance, cm *CostModel, con *ConstraintModel, cfg config.Config) (Result, error) {
	b := newFlowBackend(in, cm, con, cfg)
	b.build()

	return b.solve()
}
