// Package config holds the per-run allocation configuration: preference
// cost parameters, capacity/overflow policy, and solver policy.
//
// The configuration is one explicit, immutable value threaded through
// every engine call — never ambient state — so a caller may run several
// scenarios concurrently against the same instance without interference.
//
// A Config can be built in code starting from Default(), or loaded from a
// JSON or YAML file via Load. Validate reports contradictory or
// out-of-range settings before any solving starts.
//
// File shape (JSON shown; YAML works the same):
//
//	{
//	  "preference": {"allow_unranked": true, "tier2_cost": 1, "tier3_cost": 5,
//	                 "unranked_cost": 200, "top2_bias": true},
//	  "capacity":   {"enable_topic_overflow": true, "enable_coach_overflow": true,
//	                 "dept_min_mode": "soft", "dept_shortfall_penalty": 1000,
//	                 "topic_overflow_penalty": 800, "coach_overflow_penalty": 600},
//	  "solver":     {"algorithm": "ilp", "time_limit_sec": 60,
//	                 "random_seed": 42, "epsilon_suboptimal": 0.05}
//	}
package config
