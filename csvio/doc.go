// Package csvio reads allocation inputs and writes allocation outputs in
// the CSV exchange format used by the surrounding tooling.
//
// Inputs:
//
//   - students.csv   — one row per student: student_id, plan_thesis,
//     pref1..pref5, tier1..tier3 (pipe-separated), banned (pipe-separated),
//     forced_topic
//   - capacities.csv — one row per topic: topic_id, coach_id,
//     maximum_students_per_topic, maximum_students_per_coach,
//     department_id, desired_minimum_by_department
//   - overrides.csv  — optional: student_id, topic_id, cost
//
// Headers are normalized before matching (lowercased, runs of
// non-alphanumerics collapsed to underscores), so "Maximum students per
// topic" and "maximum_students_per_topic" name the same column. Coach and
// department attributes repeat across topic rows; the reader deduplicates
// them and rejects files where the repeats disagree.
//
// Outputs:
//
//   - allocation.csv — one row per assigned student
//   - summary.txt    — human-readable run report
//
// Errors: readers return ErrEmptyInput, ErrMissingField or
// ErrInconsistentRow (wrapped with row context); all I/O errors pass
// through verbatim.
package csvio
