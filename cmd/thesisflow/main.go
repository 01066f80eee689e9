// Command thesisflow allocates thesis topics to students from CSV inputs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/thesisflow/config"
	"github.com/katalvlaran/thesisflow/logging"
)

var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string

	log *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "thesisflow",
		Short: "Thesis topic allocation solver",
		Long: "thesisflow assigns students to thesis topics under topic, coach and\n" +
			"department constraints, using an exact integer-programming solver, an\n" +
			"approximate min-cost-flow solver, or both.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			log, err = logging.New(flagLogLevel, flagLogFile)

			return err
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "configuration file (JSON or YAML)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write log entries to this file")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newFairnessCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// loadConfig layers the optional config file over the defaults.
func loadConfig() (config.Config, error) {
	if flagConfig == "" {
		return config.Default(), nil
	}

	return config.Load(flagConfig)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if log != nil {
			log.Error("fatal", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
