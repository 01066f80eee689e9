// Package thesisflow assigns students to thesis topics under capacity,
// coach, and department constraints, minimizing total preference cost.
//
// 🎓 What is thesisflow?
//
//	A deterministic allocation engine that brings together:
//		• Core entities: students, topics, coaches, departments
//		• Cost model: ranked preferences, tier groups, bans, overrides, forced picks
//		• Exact solver: integer programming via CP-SAT
//		• Approximate solver: layered min-cost max-flow
//		• Hybrid mode: run both, keep the better feasible result
//
// ✨ Why choose thesisflow?
//
//   - Reproducible – identical inputs and seed yield identical assignments
//   - Configurable – every penalty, toggle and curve lives in one explicit config
//   - Transparent – per-student rank codes, overflow flags and run diagnostics
//
// Everything is organized under focused subpackages:
//
//	core/      — entity types shared by every component
//	config/    — preference, capacity and solver configuration
//	alloc/     — the allocation engine (cost model, both solvers, hybrid)
//	csvio/     — students/capacities/overrides readers, allocation writers
//	fairness/  — fairness metrics over a finished allocation
//	simulate/  — seeded instance generation and stability studies
//	logging/   — application logger construction
//
// Quick sketch of the flow network used by the approximate solver:
//
//	source ─► students ─► topics ─► coaches ─► departments ─► sink
//
// See cmd/thesisflow for the command-line front end.
package thesisflow
