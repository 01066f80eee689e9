package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/thesisflow/alloc"
	"github.com/katalvlaran/thesisflow/csvio"
)

func newValidateCmd() *cobra.Command {
	var students, capacities, overrides string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate input CSVs without solving",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := csvio.LoadInstance(students, capacities, overrides)
			if err != nil {
				return err
			}

			ok, findings := alloc.ValidateInstance(in)
			for _, f := range findings {
				if f.Severity == alloc.SeverityError {
					log.Error(f.String())
				} else {
					log.Warn(f.String())
				}
			}
			log.Info(alloc.ValidationSummary(findings),
				zap.Int("students", len(in.Students)),
				zap.Int("topics", len(in.Topics)))
			if !ok {
				return errors.New("input validation failed")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&students, "students", "", "path to students.csv")
	cmd.Flags().StringVar(&capacities, "capacities", "", "path to capacities.csv")
	cmd.Flags().StringVar(&overrides, "overrides", "", "path to overrides.csv (optional)")
	_ = cmd.MarkFlagRequired("students")
	_ = cmd.MarkFlagRequired("capacities")

	return cmd
}
