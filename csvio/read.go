package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/katalvlaran/thesisflow/core"
)

// Sentinel errors returned by the readers.
var (
	// ErrEmptyInput indicates a CSV with no data rows.
	ErrEmptyInput = errors.New("csvio: no data rows")

	// ErrMissingField indicates a row lacking a required identifier.
	ErrMissingField = errors.New("csvio: missing required field")

	// ErrInconsistentRow indicates repeated rows disagreeing about the
	// same coach, topic or department.
	ErrInconsistentRow = errors.New("csvio: inconsistent repeated row")
)

var headerRe = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeader lowercases a header and collapses every run of
// non-alphanumerics into a single underscore.
func normalizeHeader(h string) string {
	return strings.Trim(headerRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(h)), "_"), "_")
}

// splitPipe splits a pipe-separated cell, trimming blanks.
func splitPipe(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cell, "|") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// intOrZero parses a trimmed integer, defaulting to zero on anything else.
func intOrZero(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}

	return n
}

// readRows decodes a whole CSV into rows keyed by normalized header.
// A UTF-8 byte order mark on the first header survives Excel exports;
// it is stripped before normalization.
func readRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows: missing cells read as absent
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvio: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = normalizeHeader(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(keys))
		for i, v := range rec {
			if i < len(keys) {
				row[keys[i]] = v
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadCapacities parses capacities.csv: topics with their owning coach and
// department, plus the per-coach and per-department numbers that repeat on
// every topic row. Repeats must agree; the first contradiction aborts.
func ReadCapacities(r io.Reader) (topics map[string]core.Topic, coaches map[string]core.Coach, departments map[string]core.Department, err error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil, ErrEmptyInput
	}

	topics = make(map[string]core.Topic)
	coachCap := make(map[string]int64)
	coachDept := make(map[string]string)
	deptMin := make(map[string]int64)

	for i, row := range rows {
		tid := strings.TrimSpace(row["topic_id"])
		cid := strings.TrimSpace(row["coach_id"])
		did := strings.TrimSpace(row["department_id"])
		if tid == "" || cid == "" || did == "" {
			return nil, nil, nil, fmt.Errorf("%w: capacities row %d needs topic_id, coach_id and department_id", ErrMissingField, i+2)
		}
		topicCap := intOrZero(row["maximum_students_per_topic"])
		perCoach := intOrZero(row["maximum_students_per_coach"])
		min := intOrZero(row["desired_minimum_by_department"])

		if prev, ok := topics[tid]; ok {
			if prev.CoachID != cid || prev.DepartmentID != did || prev.Cap != topicCap {
				return nil, nil, nil, fmt.Errorf("%w: topic %s", ErrInconsistentRow, tid)
			}
		} else {
			topics[tid] = core.Topic{ID: tid, CoachID: cid, DepartmentID: did, Cap: topicCap}
		}

		if prev, ok := coachCap[cid]; ok {
			if prev != perCoach {
				return nil, nil, nil, fmt.Errorf("%w: maximum_students_per_coach for coach %s", ErrInconsistentRow, cid)
			}
		} else {
			coachCap[cid] = perCoach
		}
		if prev, ok := coachDept[cid]; ok {
			if prev != did {
				return nil, nil, nil, fmt.Errorf("%w: coach %s appears in departments %s and %s", ErrInconsistentRow, cid, prev, did)
			}
		} else {
			coachDept[cid] = did
		}

		if prev, ok := deptMin[did]; ok {
			if min != 0 && prev != min {
				return nil, nil, nil, fmt.Errorf("%w: desired_minimum_by_department for department %s", ErrInconsistentRow, did)
			}
		} else {
			deptMin[did] = min
		}
	}

	coaches = make(map[string]core.Coach, len(coachCap))
	for cid, c := range coachCap {
		coaches[cid] = core.Coach{ID: cid, DepartmentID: coachDept[cid], Cap: c}
	}
	departments = make(map[string]core.Department, len(deptMin))
	for did, m := range deptMin {
		departments[did] = core.Department{ID: did, DesiredMin: m}
	}

	return topics, coaches, departments, nil
}

// ReadStudents parses students.csv. Rows without a student_id are skipped.
// plan_thesis is affirmative only on a literal (case-insensitive) "yes".
func ReadStudents(r io.Reader) (map[string]core.Student, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	students := make(map[string]core.Student, len(rows))
	for _, row := range rows {
		sid := strings.TrimSpace(row["student_id"])
		if sid == "" {
			continue
		}

		var ranks []string
		for i := 1; i <= core.MaxRanks; i++ {
			if v := strings.TrimSpace(row[fmt.Sprintf("pref%d", i)]); v != "" {
				ranks = append(ranks, v)
			}
		}

		tiers := make(map[int][]string, 3)
		for tier := 1; tier <= 3; tier++ {
			if vals := splitPipe(row[fmt.Sprintf("tier%d", tier)]); len(vals) > 0 {
				tiers[tier] = vals
			}
		}

		banned := make(map[string]struct{})
		for _, tid := range splitPipe(row["banned"]) {
			banned[tid] = struct{}{}
		}

		students[sid] = core.Student{
			ID:          sid,
			Plan:        strings.EqualFold(strings.TrimSpace(row["plan_thesis"]), "yes"),
			Ranks:       ranks,
			Tiers:       tiers,
			Banned:      banned,
			ForcedTopic: strings.TrimSpace(row["forced_topic"]),
		}
	}

	return students, nil
}

// ReadOverrides parses overrides.csv. Rows with an unparseable cost or a
// missing identifier are skipped rather than fatal; a later duplicate of
// the same (student, topic) pair wins.
func ReadOverrides(r io.Reader) ([]core.Override, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	byPair := make(map[[2]string]int64)
	var order [][2]string
	for _, row := range rows {
		sid := strings.TrimSpace(row["student_id"])
		tid := strings.TrimSpace(row["topic_id"])
		cost, convErr := strconv.ParseInt(strings.TrimSpace(row["cost"]), 10, 64)
		if sid == "" || tid == "" || convErr != nil {
			continue
		}
		key := [2]string{sid, tid}
		if _, seen := byPair[key]; !seen {
			order = append(order, key)
		}
		byPair[key] = cost
	}

	out := make([]core.Override, 0, len(order))
	for _, key := range order {
		out = append(out, core.Override{StudentID: key[0], TopicID: key[1], Cost: byPair[key]})
	}

	return out, nil
}

// ReadAllocationCSV parses a previously written allocation.csv back into
// assignment rows, e.g. for fairness comparison across solutions.
func ReadAllocationCSV(r io.Reader) ([]core.Assignment, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	out := make([]core.Assignment, 0, len(rows))
	for i, row := range rows {
		sid := strings.TrimSpace(row["student"])
		if sid == "" {
			return nil, fmt.Errorf("%w: allocation row %d has no student", ErrMissingField, i+2)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(row["preference_rank"]))
		if err != nil {
			return nil, fmt.Errorf("csvio: allocation row %d: %w", i+2, err)
		}
		cost, err := strconv.ParseInt(strings.TrimSpace(row["effective_cost"]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("csvio: allocation row %d: %w", i+2, err)
		}
		out = append(out, core.Assignment{
			StudentID:        sid,
			TopicID:          strings.TrimSpace(row["assigned_topic"]),
			CoachID:          strings.TrimSpace(row["assigned_coach"]),
			DepartmentID:     strings.TrimSpace(row["department_id"]),
			RankCode:         rank,
			EffectiveCost:    cost,
			ViaTopicOverflow: parseBool(row["via_topic_overflow"]),
			ViaCoachOverflow: parseBool(row["via_coach_overflow"]),
		})
	}

	return out, nil
}

// parseBool accepts Go and spreadsheet boolean spellings.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

// LoadInstance reads the input files into one Instance. overridesPath may
// be empty.
func LoadInstance(studentsPath, capacitiesPath, overridesPath string) (*core.Instance, error) {
	capFile, err := os.Open(capacitiesPath)
	if err != nil {
		return nil, fmt.Errorf("csvio: %w", err)
	}
	defer capFile.Close()
	topics, coaches, departments, err := ReadCapacities(capFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", capacitiesPath, err)
	}

	stuFile, err := os.Open(studentsPath)
	if err != nil {
		return nil, fmt.Errorf("csvio: %w", err)
	}
	defer stuFile.Close()
	students, err := ReadStudents(stuFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", studentsPath, err)
	}

	in := &core.Instance{
		Students:    students,
		Topics:      topics,
		Coaches:     coaches,
		Departments: departments,
	}

	if overridesPath != "" {
		ovFile, err := os.Open(overridesPath)
		if err != nil {
			return nil, fmt.Errorf("csvio: %w", err)
		}
		defer ovFile.Close()
		in.Overrides, err = ReadOverrides(ovFile)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", overridesPath, err)
		}
	}

	return in, nil
}
