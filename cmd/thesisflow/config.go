package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/thesisflow/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

// config init writes the defaults so users start from a complete file
// instead of guessing key names.
func newConfigInitCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(config.Default(), "", "  ")
			if err != nil {
				return err
			}
			if err = os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
				return err
			}
			log.Info("default configuration written", zap.String("path", out))

			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "thesisflow.json", "output path")

	return cmd
}
