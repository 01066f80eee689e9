// Package fairness measures how evenly an allocation treats its students
// and renders comparison reports across candidate solutions.
//
// The central metric is the Gini coefficient over effective costs and over
// rank codes: 0 means every student fared the same, 1 means all the pain
// landed on one student. Alongside it the package reports mean and sample
// standard deviation, the satisfaction distribution per rank class and the
// top-3 coverage (any tier or one of the first three ranked choices).
//
// All functions are pure; the package holds no state.
package fairness
