package cmd

import (
	"github.com/lehigh-university-libraries/brickbuilder/internal/config"
	"github.com/lehigh-university-libraries/brickbuilder/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Brick identification evaluation tools",
		Long: `Evaluation tools for measuring how well a vision provider identifies bricks.

Runs a provider over a labelled JSONL or Parquet dataset, scores part numbers,
categories and response shape, and reports on saved runs.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd(cfg))
	cmd.AddCommand(evalcmd.NewReportCmd())

	return cmd
}
