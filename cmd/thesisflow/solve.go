package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/thesisflow/alloc"
	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/csvio"
)

// solveFlags collects every tunable the command can override. Only flags
// the user actually set are merged over the file/default configuration.
type solveFlags struct {
	students   string
	capacities string
	overrides  string
	out        string
	summary    string

	allowUnranked bool
	tier2Cost     int64
	tier3Cost     int64
	unrankedCost  int64
	top2Bias      bool

	deptMinMode         string
	enableTopicOverflow bool
	enableCoachOverflow bool
	pDeptShortfall      int64
	pTopic              int64
	pCoach              int64

	algorithm    string
	timeLimitSec int
	randomSeed   int64
	epsilon      float64

	skipValidate bool
}

func newSolveCmd() *cobra.Command {
	var f solveFlags

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve an allocation and write allocation.csv and summary.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			mergeFlags(cmd, &cfg, &f)

			return runSolve(cfg, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.students, "students", "", "path to students.csv")
	fs.StringVar(&f.capacities, "capacities", "", "path to capacities.csv")
	fs.StringVar(&f.overrides, "overrides", "", "path to overrides.csv (optional)")
	fs.StringVar(&f.out, "out", "allocation.csv", "path to write allocation.csv")
	fs.StringVar(&f.summary, "summary", "summary.txt", "path to write summary.txt")

	fs.BoolVar(&f.allowUnranked, "allow-unranked", true, "allow assignment to unranked topics")
	fs.Int64Var(&f.tier2Cost, "tier2-cost", 1, "cost for tier2 preferences")
	fs.Int64Var(&f.tier3Cost, "tier3-cost", 5, "cost for tier3 preferences")
	fs.Int64Var(&f.unrankedCost, "unranked-cost", 200, "cost for unranked topics")
	fs.BoolVar(&f.top2Bias, "top2-bias", true, "bias towards the top two ranked choices")

	fs.StringVar(&f.deptMinMode, "dept-min-mode", config.DeptMinSoft, "department minimum mode (soft or hard)")
	fs.BoolVar(&f.enableTopicOverflow, "enable-topic-overflow", true, "allow topics to exceed capacity")
	fs.BoolVar(&f.enableCoachOverflow, "enable-coach-overflow", true, "allow coaches to exceed capacity")
	fs.Int64Var(&f.pDeptShortfall, "p-dept-shortfall", 1000, "penalty per missing student below a department minimum")
	fs.Int64Var(&f.pTopic, "p-topic", 800, "penalty per student over a topic capacity")
	fs.Int64Var(&f.pCoach, "p-coach", 600, "penalty per student over a coach capacity")

	fs.StringVar(&f.algorithm, "algorithm", config.AlgorithmILP, "solver algorithm (ilp, flow, hybrid)")
	fs.IntVar(&f.timeLimitSec, "time-limit-sec", 0, "exact solver time limit in seconds (0 = unlimited)")
	fs.Int64Var(&f.randomSeed, "random-seed", 0, "random seed for reproducibility")
	fs.Float64Var(&f.epsilon, "epsilon-suboptimal", 0, "accept solutions within this fraction of optimal")

	fs.BoolVar(&f.skipValidate, "no-validate", false, "skip input validation reporting")

	_ = cmd.MarkFlagRequired("students")
	_ = cmd.MarkFlagRequired("capacities")

	return cmd
}

// mergeFlags overrides the configuration with every flag the user set.
func mergeFlags(cmd *cobra.Command, cfg *config.Config, f *solveFlags) {
	set := cmd.Flags().Changed

	if set("allow-unranked") {
		cfg.Preference.AllowUnranked = f.allowUnranked
	}
	if set("tier2-cost") {
		cfg.Preference.Tier2Cost = f.tier2Cost
	}
	if set("tier3-cost") {
		cfg.Preference.Tier3Cost = f.tier3Cost
	}
	if set("unranked-cost") {
		cfg.Preference.UnrankedCost = f.unrankedCost
	}
	if set("top2-bias") {
		cfg.Preference.Top2Bias = f.top2Bias
	}

	if set("dept-min-mode") {
		cfg.Capacity.DeptMinMode = f.deptMinMode
	}
	if set("enable-topic-overflow") {
		cfg.Capacity.EnableTopicOverflow = f.enableTopicOverflow
	}
	if set("enable-coach-overflow") {
		cfg.Capacity.EnableCoachOverflow = f.enableCoachOverflow
	}
	if set("p-dept-shortfall") {
		cfg.Capacity.DeptShortfallPenalty = f.pDeptShortfall
	}
	if set("p-topic") {
		cfg.Capacity.TopicOverflowPenalty = f.pTopic
	}
	if set("p-coach") {
		cfg.Capacity.CoachOverflowPenalty = f.pCoach
	}

	if set("algorithm") {
		cfg.Solver.Algorithm = f.algorithm
	}
	if set("time-limit-sec") {
		cfg.Solver.TimeLimitSec = f.timeLimitSec
	}
	if set("random-seed") {
		seed := f.randomSeed
		cfg.Solver.RandomSeed = &seed
	}
	if set("epsilon-suboptimal") {
		eps := f.epsilon
		cfg.Solver.EpsilonSuboptimal = &eps
	}
}

func runSolve(cfg config.Config, f solveFlags) error {
	log.Info("loading input data",
		zap.String("students", f.students),
		zap.String("capacities", f.capacities))
	in, err := csvio.LoadInstance(f.students, f.capacities, f.overrides)
	if err != nil {
		return err
	}
	log.Info("loaded",
		zap.Int("students", len(in.Students)),
		zap.Int("topics", len(in.Topics)),
		zap.Int("coaches", len(in.Coaches)),
		zap.Int("departments", len(in.Departments)))

	if !f.skipValidate {
		ok, findings := alloc.ValidateInstance(in)
		for _, finding := range findings {
			if finding.Severity == alloc.SeverityError {
				log.Error(finding.String())
			} else {
				log.Warn(finding.String())
			}
		}
		log.Info(alloc.ValidationSummary(findings))
		if !ok {
			return errors.New("input validation failed")
		}
	}

	log.Info("solving", zap.String("algorithm", cfg.Solver.Algorithm))
	res, err := alloc.Solve(in, cfg)
	if err != nil {
		return err
	}
	log.Info("solved",
		zap.Stringer("status", res.Diag.Status),
		zap.String("solver", string(res.Diag.Solver)),
		zap.Int64("objective", res.Diag.Objective),
		zap.Bool("certified_optimal", res.Diag.CertifiedOptimal),
		zap.Duration("wall_time", res.Diag.WallTime))

	if n := len(res.Diag.Unassignable); n > 0 {
		log.Warn("students with no admissible topics", zap.Int("count", n))
	}
	if n := len(res.Diag.Unassigned); n > 0 {
		log.Warn("students unassigned after solve", zap.Int("count", n))
	}

	if err = csvio.WriteOutputs(f.out, f.summary, res, in); err != nil {
		return err
	}
	log.Info("outputs written",
		zap.String("allocation", f.out),
		zap.String("summary", f.summary),
		zap.Int("assigned", len(res.Assignments)))

	return nil
}
