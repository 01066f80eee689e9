// Package core defines the entity types shared by every thesisflow
// component: students with their preference data, topics with their
// owning coach and department, per-coach and per-department capacity
// records, manual cost overrides, and the per-student assignment rows
// produced by the solvers.
//
// All entities are immutable snapshots: they are constructed once by a
// loader (csvio, simulate, or a caller's own code), validated, and then
// shared read-only by the cost model and both solver backends. Nothing
// in this package mutates an entity after construction.
//
// Rank codes:
//
//	RankForced   (-1)  — administrator-forced assignment
//	RankTier1..3 (0..2) — tier-group match
//	RankFirst..RankFifth (10..14) — ranked-preference match
//	RankUnranked (999) — admissible but never stated
//
// The codes are deliberately non-colliding so a single integer column in
// the output CSV identifies how each student was satisfied.
package core
