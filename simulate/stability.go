package simulate

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/katalvlaran/thesisflow/alloc"
	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/core"
)

// RunOutcome is one solved run inside a stability study.
type RunOutcome struct {
	Seed      int64
	Result    alloc.Result
	ByStudent map[string]string // student → assigned topic
	RankDist  map[int]int       // rank code → count
}

// StabilityReport aggregates a multi-seed study of one instance.
type StabilityReport struct {
	Runs []RunOutcome

	// Differences maps each student whose topic varied across runs to the
	// per-run topic list ("" where unassigned).
	Differences map[string][]string
}

// Stable reports whether every student received the same topic in every run.
func (r StabilityReport) Stable() bool { return len(r.Differences) == 0 }

// RunStability solves the instance once per seed and collects the
// per-student differences. The configuration's own seed is overwritten.
func RunStability(in *core.Instance, cfg config.Config, seeds []int64) (StabilityReport, error) {
	report := StabilityReport{Differences: make(map[string][]string)}

	for _, seed := range seeds {
		s := seed
		cfg.Solver.RandomSeed = &s
		res, err := alloc.Solve(in, cfg)
		if err != nil {
			return StabilityReport{}, fmt.Errorf("simulate: seed %d: %w", seed, err)
		}

		out := RunOutcome{
			Seed:      seed,
			Result:    res,
			ByStudent: make(map[string]string, len(res.Assignments)),
			RankDist:  make(map[int]int),
		}
		for _, a := range res.Assignments {
			out.ByStudent[a.StudentID] = a.TopicID
			out.RankDist[a.RankCode]++
		}
		report.Runs = append(report.Runs, out)
	}

	students := make(map[string]struct{})
	for _, run := range report.Runs {
		for sid := range run.ByStudent {
			students[sid] = struct{}{}
		}
	}
	for sid := range students {
		topics := make([]string, len(report.Runs))
		varied := false
		for i, run := range report.Runs {
			topics[i] = run.ByStudent[sid]
			if topics[i] != topics[0] {
				varied = true
			}
		}
		if varied {
			report.Differences[sid] = topics
		}
	}

	return report, nil
}

// WriteReport renders the study: per-run satisfaction lines followed by
// the students whose assignment moved between runs.
func (r StabilityReport) WriteReport(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Stability study over %d run(s)\n\n", len(r.Runs))
	for i, run := range r.Runs {
		fmt.Fprintf(&b, "Run %d (seed %d): %d assigned, objective %d, status %s\n",
			i+1, run.Seed, len(run.Result.Assignments), run.Result.Diag.Objective, run.Result.Diag.Status)
		codes := make([]int, 0, len(run.RankDist))
		for code := range run.RankDist {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			fmt.Fprintf(&b, "  rank %d: %d\n", code, run.RankDist[code])
		}
	}

	if r.Stable() {
		b.WriteString("\nAll runs agree on every assignment.\n")
	} else {
		fmt.Fprintf(&b, "\n%d student(s) moved between runs:\n", len(r.Differences))
		sids := make([]string, 0, len(r.Differences))
		for sid := range r.Differences {
			sids = append(sids, sid)
		}
		sort.Strings(sids)
		for _, sid := range sids {
			fmt.Fprintf(&b, "  %s: %s\n", sid, strings.Join(r.Differences[sid], " / "))
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}
