// Package alloc implements the thesis allocation engine: the translation
// of student preferences into edge costs, the translation of capacity
// records into structural and penalty constraints, and two independent
// solver backends kept behaviorally equivalent behind one contract.
//
// The key components are:
//
//   - Cost model (BuildCostModel)
//
//   - Precedence: forced > override > tier > rank > unranked; banned pairs
//     get no edge and are structurally excluded from both backends.
//
//   - Time:   O(S · T) for S planning students and T topics.
//
//   - Memory: O(E) for the sparse edge set.
//
//   - Constraint model (BuildConstraintModel)
//
//   - Derives topics-by-coach and topics-by-dept indices plus the set of
//     assignable students (those with at least one admissible edge).
//
//   - Time:   O(T + S).
//
//   - Exact backend (integer program, CP-SAT)
//
//   - One Boolean variable per admissible (student, topic) pair; integer
//     slack variables for topic/coach overflow and department shortfall.
//
//   - Provably optimal, or best incumbent within the wall-clock budget.
//
//   - Approximate backend (min-cost max-flow)
//
//   - Layered network source → students → topics → coaches → departments
//     → sink; successive shortest augmenting paths with potentials.
//
//   - Time:   O(F · E log V) after a single O(V · E) Bellman–Ford pass.
//
//   - Fast and near-optimal; not guaranteed optimal when overflow or
//     shortfall penalties create non-convex trade-offs.
//
//   - Hybrid reconciler (Solve with config.AlgorithmHybrid)
//
//   - Runs both backends on the same read-only models, audits each
//     candidate's objective uniformly, returns the better feasible
//     result annotated with the backend that produced it.
//
// # Determinism
//
// Every map in the engine is walked through a sorted key slice, the flow
// backend breaks shortest-path ties by node index, and the configured
// random seed is forwarded to the exact backend. Identical inputs and an
// identical seed therefore produce identical assignments.
//
// # Errors
//
//	config errors           — surfaced before any model is built.
//	InfeasibilityError      — no assignment satisfies the hard constraints;
//	                          implicated departments are named when determinable.
//	ErrSolverInternal       — a backend failed for a non-instance reason.
//
// A solver timeout is not an error: the incumbent is returned with
// Diagnostics.CertifiedOptimal == false. A partial assignment under
// soft configurations is likewise carried in Diagnostics, not raised.
//
// See SolveScenario examples in example_test.go for end-to-end usage.
package alloc
