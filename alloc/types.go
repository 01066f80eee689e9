package alloc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/katalvlaran/thesisflow/core"
)

// Sentinel errors returned by the engine.
var (
	// ErrNilInstance indicates a nil problem instance.
	ErrNilInstance = errors.New("alloc: instance is nil")

	// ErrInfeasible indicates that no assignment satisfies the hard constraints.
	ErrInfeasible = errors.New("alloc: no feasible assignment under hard constraints")

	// ErrSolverInternal indicates a backend failure unrelated to the instance
	// (model construction rejected, solver returned an unknown status).
	ErrSolverInternal = errors.New("alloc: solver backend failure")

	// ErrNotBuilt indicates a backend invoked before its model was built.
	ErrNotBuilt = errors.New("alloc: model not built")
)

// InfeasibilityError names the constraints implicated in a structural
// infeasibility, where determinable. It unwraps to ErrInfeasible.
type InfeasibilityError struct {
	// Departments whose hard minimum cannot be met, sorted; may be empty
	// when the conflicting constraint could not be isolated.
	Departments []string
}

func (e *InfeasibilityError) Error() string {
	if len(e.Departments) == 0 {
		return ErrInfeasible.Error()
	}

	return fmt.Sprintf("%s (department minimum unreachable: %s)",
		ErrInfeasible.Error(), strings.Join(e.Departments, ", "))
}

// Unwrap lets errors.Is(err, ErrInfeasible) hold for callers.
func (e *InfeasibilityError) Unwrap() error { return ErrInfeasible }

// SolverKind identifies which backend produced a result.
type SolverKind string

// Backend identifiers reported in Diagnostics.Solver.
const (
	SolverILP  SolverKind = "ilp"
	SolverFlow SolverKind = "flow"
)

// Status classifies the outcome of a solve run.
type Status uint8

const (
	// StatusUnknown is the zero value; never returned by a successful solve.
	StatusUnknown Status = iota

	// StatusOptimal: the result is certified optimal.
	StatusOptimal

	// StatusFeasible: a feasible incumbent, not certified optimal
	// (the exact backend hit its time budget).
	StatusFeasible

	// StatusPartial: fewer students assigned than requested a thesis,
	// under a soft/overflow-permitting configuration.
	StatusPartial
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Diagnostics carries run-level information alongside the assignments.
type Diagnostics struct {
	// Status classifies the run outcome.
	Status Status

	// Solver names the backend that produced the returned assignments.
	Solver SolverKind

	// Objective is the audited total: Σ effective costs plus every incurred
	// overflow and shortfall penalty. Both backends are audited by the same
	// code path, so hybrid comparison is apples to apples.
	Objective int64

	// CertifiedOptimal reports whether the backend proved optimality.
	CertifiedOptimal bool

	// TopicOverflow / CoachOverflow map IDs to units over capacity.
	// Only overflowed entries are present.
	TopicOverflow map[string]int64
	CoachOverflow map[string]int64

	// DeptShortfall maps department ID to students missing below the
	// desired minimum (soft mode only). Only shortfall entries are present.
	DeptShortfall map[string]int64

	// Unassignable lists planning students with no admissible topic at all
	// (everything banned), detected before solving. Sorted.
	Unassignable []string

	// Unassigned lists assignable students left without a topic after the
	// solve. Sorted. Non-empty implies StatusPartial.
	Unassigned []string

	// WallTime is the time spent inside the backend(s).
	WallTime time.Duration
}

// Result is one finished allocation.
type Result struct {
	// Assignments holds one row per assigned student, sorted by student ID.
	Assignments []core.Assignment

	// Diag carries the run-level diagnostics.
	Diag Diagnostics
}

// sortedKeys returns the sorted key set of a string-keyed map.
// Every map walk in the engine goes through this to keep runs reproducible.
func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
