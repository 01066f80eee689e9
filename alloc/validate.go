package alloc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/thesisflow/core"
)

// Severity grades a validation finding.
type Severity string

const (
	// SeverityError findings make the instance unsolvable or ambiguous;
	// a run should abort when any is present.
	SeverityError Severity = "error"

	// SeverityWarning findings are suspicious but survivable (e.g. a
	// preference naming an unknown topic simply yields no edge).
	SeverityWarning Severity = "warning"
)

// Finding is one validation result with enough context to fix the input.
type Finding struct {
	Severity Severity
	Message  string
	Context  map[string]string
}

// String renders "[ERROR] message (k=v, ...)" with context keys sorted.
func (f Finding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(string(f.Severity)), f.Message)
	if len(f.Context) > 0 {
		keys := sortedKeys(f.Context)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+f.Context[k])
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}

	return b.String()
}

// ValidateInstance checks entity-level and cross-entity consistency.
// It returns ok == true when no error-severity finding exists; warnings
// alone do not fail validation. Findings are ordered: errors first, then
// warnings, each group in discovery order (sorted entity IDs).
func ValidateInstance(in *core.Instance) (bool, []Finding) {
	if in == nil {
		return false, []Finding{{Severity: SeverityError, Message: "instance is nil"}}
	}

	var errs, warns []Finding
	addErr := func(msg string, ctx map[string]string) {
		errs = append(errs, Finding{Severity: SeverityError, Message: msg, Context: ctx})
	}
	addWarn := func(msg string, ctx map[string]string) {
		warns = append(warns, Finding{Severity: SeverityWarning, Message: msg, Context: ctx})
	}

	// Entity-level checks.
	for _, tid := range sortedKeys(in.Topics) {
		if err := in.Topics[tid].Validate(); err != nil {
			addErr("topic has invalid data", map[string]string{"topic_id": tid, "detail": err.Error()})
		}
	}
	for _, cid := range sortedKeys(in.Coaches) {
		if err := in.Coaches[cid].Validate(); err != nil {
			addErr("coach has invalid data", map[string]string{"coach_id": cid, "detail": err.Error()})
		}
	}
	for _, did := range sortedKeys(in.Departments) {
		if err := in.Departments[did].Validate(); err != nil {
			addErr("department has invalid data", map[string]string{"department_id": did, "detail": err.Error()})
		}
	}
	for _, sid := range sortedKeys(in.Students) {
		s := in.Students[sid]
		if err := s.Validate(); err != nil {
			addErr("student has invalid data", map[string]string{"student_id": sid, "detail": err.Error()})
		}
		if s.ForcedTopic != "" {
			if _, ok := in.Topics[s.ForcedTopic]; !ok {
				addErr("student's forced topic does not exist", map[string]string{
					"student_id": sid, "forced_topic": s.ForcedTopic,
				})
			}
		}
	}

	// Cross-entity references.
	for _, tid := range sortedKeys(in.Topics) {
		t := in.Topics[tid]
		coach, ok := in.Coaches[t.CoachID]
		if !ok {
			addErr("topic references non-existent coach", map[string]string{
				"topic_id": tid, "coach_id": t.CoachID,
			})

			continue
		}
		if _, ok = in.Departments[coach.DepartmentID]; !ok {
			addErr("coach references non-existent department", map[string]string{
				"coach_id": coach.ID, "department_id": coach.DepartmentID,
			})
		}
	}

	// Dangling preference references are warnings: such pairs simply never
	// become edges.
	for _, sid := range sortedKeys(in.Students) {
		s := in.Students[sid]
		if !s.Plan {
			continue
		}
		for _, tid := range s.Ranks {
			if _, ok := in.Topics[tid]; !ok {
				addWarn("ranked preference references non-existent topic", map[string]string{
					"student_id": sid, "topic_id": tid,
				})
			}
		}
		for tier := 1; tier <= 3; tier++ {
			for _, tid := range s.Tiers[tier] {
				if _, ok := in.Topics[tid]; !ok {
					addWarn("tier preference references non-existent topic", map[string]string{
						"student_id": sid, "topic_id": tid,
					})
				}
			}
		}
		banned := make([]string, 0, len(s.Banned))
		for tid := range s.Banned {
			banned = append(banned, tid)
		}
		sort.Strings(banned)
		for _, tid := range banned {
			if _, ok := in.Topics[tid]; !ok {
				addWarn("banned topic does not exist", map[string]string{
					"student_id": sid, "topic_id": tid,
				})
			}
		}
	}

	return len(errs) == 0, append(errs, warns...)
}

// ValidationSummary condenses findings into a one-glance line.
func ValidationSummary(findings []Finding) string {
	var errCount, warnCount int
	for _, f := range findings {
		if f.Severity == SeverityError {
			errCount++
		} else {
			warnCount++
		}
	}
	if errCount == 0 && warnCount == 0 {
		return "all validations passed"
	}

	return fmt.Sprintf("%d error(s), %d warning(s)", errCount, warnCount)
}
