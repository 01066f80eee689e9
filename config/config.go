package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Department minimum enforcement modes.
const (
	DeptMinSoft = "soft" // shortfall allowed, penalized per missing student
	DeptMinHard = "hard" // minimum is a structural constraint
)

// Solver algorithm names.
const (
	AlgorithmILP    = "ilp"    // exact integer program (CP-SAT)
	AlgorithmFlow   = "flow"   // approximate min-cost max-flow
	AlgorithmHybrid = "hybrid" // both, keep the better feasible result
)

// Sentinel errors returned by Validate and Load.
var (
	// ErrBadDeptMinMode indicates a dept_min_mode other than "soft" or "hard".
	ErrBadDeptMinMode = errors.New("config: dept_min_mode must be \"soft\" or \"hard\"")

	// ErrBadAlgorithm indicates an unknown algorithm name.
	ErrBadAlgorithm = errors.New("config: algorithm must be \"ilp\", \"flow\" or \"hybrid\"")

	// ErrBadPenalty indicates a non-positive overflow or shortfall penalty.
	ErrBadPenalty = errors.New("config: penalties must be positive")

	// ErrBadCost indicates a negative preference cost parameter.
	ErrBadCost = errors.New("config: preference costs must be non-negative")

	// ErrBadTimeLimit indicates a negative time limit.
	ErrBadTimeLimit = errors.New("config: time_limit_sec must be non-negative")

	// ErrBadEpsilon indicates an epsilon_suboptimal outside [0, 1).
	ErrBadEpsilon = errors.New("config: epsilon_suboptimal must be in [0, 1)")
)

// Preference holds the cost-model parameters.
type Preference struct {
	// AllowUnranked permits assignment to topics the student never stated,
	// at UnrankedCost. When false, no edge exists for such pairs.
	AllowUnranked bool `mapstructure:"allow_unranked" json:"allow_unranked"`

	// Tier2Cost / Tier3Cost price membership in tier2 / tier3 groups.
	// Tier1 is implicitly free.
	Tier2Cost int64 `mapstructure:"tier2_cost" json:"tier2_cost"`
	Tier3Cost int64 `mapstructure:"tier3_cost" json:"tier3_cost"`

	// UnrankedCost prices an admissible-but-unstated topic. Kept two orders
	// of magnitude above normal rank costs by default.
	UnrankedCost int64 `mapstructure:"unranked_cost" json:"unranked_cost"`

	// Top2Bias makes ranks 1 and 2 disproportionately cheaper than 3..5
	// (0, 1, 100, 101, 102). Without it the curve is linear (rank − 1).
	Top2Bias bool `mapstructure:"top2_bias" json:"top2_bias"`
}

// Capacity holds the overflow and department-minimum policy.
type Capacity struct {
	// EnableTopicOverflow / EnableCoachOverflow permit exceeding the
	// respective capacity at a per-unit penalty. Disabled means hard caps.
	EnableTopicOverflow bool `mapstructure:"enable_topic_overflow" json:"enable_topic_overflow"`
	EnableCoachOverflow bool `mapstructure:"enable_coach_overflow" json:"enable_coach_overflow"`

	// DeptMinMode selects soft (penalty) or hard (structural) department minimums.
	DeptMinMode string `mapstructure:"dept_min_mode" json:"dept_min_mode"`

	// Per-unit penalties added to the objective when the matching slack is used.
	DeptShortfallPenalty int64 `mapstructure:"dept_shortfall_penalty" json:"dept_shortfall_penalty"`
	TopicOverflowPenalty int64 `mapstructure:"topic_overflow_penalty" json:"topic_overflow_penalty"`
	CoachOverflowPenalty int64 `mapstructure:"coach_overflow_penalty" json:"coach_overflow_penalty"`
}

// Solver holds the backend selection and its runtime policy.
type Solver struct {
	// Algorithm selects the backend: AlgorithmILP, AlgorithmFlow or AlgorithmHybrid.
	Algorithm string `mapstructure:"algorithm" json:"algorithm"`

	// TimeLimitSec bounds the exact solver's wall clock; 0 means unlimited.
	// On expiry the best incumbent is returned, tagged non-certified.
	TimeLimitSec int `mapstructure:"time_limit_sec" json:"time_limit_sec"`

	// RandomSeed, when non-nil, fixes solver tie-breaking for reproducibility.
	RandomSeed *int64 `mapstructure:"random_seed" json:"random_seed,omitempty"`

	// EpsilonSuboptimal, when non-nil, accepts any feasible solution within
	// the given fraction of the best known bound (e.g. 0.05 for 5%).
	EpsilonSuboptimal *float64 `mapstructure:"epsilon_suboptimal" json:"epsilon_suboptimal,omitempty"`
}

// Config is the complete per-run configuration.
type Config struct {
	Preference Preference `mapstructure:"preference" json:"preference"`
	Capacity   Capacity   `mapstructure:"capacity" json:"capacity"`
	Solver     Solver     `mapstructure:"solver" json:"solver"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		Preference: Preference{
			AllowUnranked: true,
			Tier2Cost:     1,
			Tier3Cost:     5,
			UnrankedCost:  200,
			Top2Bias:      true,
		},
		Capacity: Capacity{
			EnableTopicOverflow:  true,
			EnableCoachOverflow:  true,
			DeptMinMode:          DeptMinSoft,
			DeptShortfallPenalty: 1000,
			TopicOverflowPenalty: 800,
			CoachOverflowPenalty: 600,
		},
		Solver: Solver{
			Algorithm: AlgorithmILP,
		},
	}
}

// Validate reports the first contradictory or out-of-range setting.
// It must pass before any model is built.
func (c Config) Validate() error {
	if c.Preference.Tier2Cost < 0 || c.Preference.Tier3Cost < 0 || c.Preference.UnrankedCost < 0 {
		return ErrBadCost
	}
	if c.Capacity.DeptMinMode != DeptMinSoft && c.Capacity.DeptMinMode != DeptMinHard {
		return fmt.Errorf("%w: got %q", ErrBadDeptMinMode, c.Capacity.DeptMinMode)
	}
	if c.Capacity.DeptShortfallPenalty <= 0 || c.Capacity.TopicOverflowPenalty <= 0 || c.Capacity.CoachOverflowPenalty <= 0 {
		return ErrBadPenalty
	}
	switch c.Solver.Algorithm {
	case AlgorithmILP, AlgorithmFlow, AlgorithmHybrid:
	default:
		return fmt.Errorf("%w: got %q", ErrBadAlgorithm, c.Solver.Algorithm)
	}
	if c.Solver.TimeLimitSec < 0 {
		return ErrBadTimeLimit
	}
	if eps := c.Solver.EpsilonSuboptimal; eps != nil && (*eps < 0 || *eps >= 1) {
		return fmt.Errorf("%w: got %g", ErrBadEpsilon, *eps)
	}

	return nil
}

// Load reads a JSON or YAML configuration file, layered over Default().
// Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
