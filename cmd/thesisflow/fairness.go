package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/thesisflow/csvio"
	"github.com/katalvlaran/thesisflow/fairness"
)

func newFairnessCmd() *cobra.Command {
	var report string

	cmd := &cobra.Command{
		Use:   "fairness <allocation.csv> [allocation.csv ...]",
		Short: "Compare fairness metrics across allocation files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := make([]fairness.Labeled, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				rows, err := csvio.ReadAllocationCSV(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				m, err := fairness.Compute(rows)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				entries = append(entries, fairness.Labeled{Label: path, Metrics: m})
				log.Info("analyzed",
					zap.String("file", path),
					zap.Int("students", m.TotalStudents),
					zap.Float64("gini_cost", m.GiniCost))
			}

			out := os.Stdout
			if report != "" {
				f, err := os.Create(report)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			return fairness.WriteReport(out, entries)
		},
	}

	cmd.Flags().StringVar(&report, "report", "", "write the report here instead of stdout")

	return cmd
}
