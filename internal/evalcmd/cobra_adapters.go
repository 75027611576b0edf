package evalcmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/brickbuilder/internal/config"
	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command. cfg is filled in by the root command
// before RunE runs.
func NewRunCmd(cfg *config.Config) *cobra.Command {
	var opts RunOptions
	var provider string
	var model string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score a vision provider against a labelled brick dataset",
		Long: `Identify every image of a JSONL or Parquet dataset and score the answers.

Each row has an id, an image (path relative to the dataset file or an http(s) URL),
and optionally the expected partNumber, category and a batch flag. Part numbers are
compared exactly, categories by case-insensitive containment. Results are written
as YAML to the output directory.`,
		Example: `  # Evaluate 10 records with the configured provider
  brickbuilder eval run --dataset ./bricks.jsonl --sample 10

  # Evaluate everything with Gemini, four requests at a time
  brickbuilder eval run --dataset ./bricks.parquet --sample -1 --provider gemini --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCfg := *cfg
			if provider != "" {
				runCfg.VisionProvider = provider
			}
			if model != "" {
				runCfg.VisionModel = model
			}

			p, err := identify.NewProvider(runCfg)
			if err != nil {
				return err
			}
			_, err = executeRun(cmd.Context(), cmd.OutOrStdout(), identify.NewService(p, runCfg.VisionModel), opts)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "Path to a JSONL or Parquet dataset (required)")
	cmd.Flags().IntVar(&opts.SampleSize, "sample", 10, "Number of records to evaluate (-1 for all)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "evals", "Directory for the YAML results")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 1, "Number of concurrent identifications")
	cmd.Flags().StringVar(&provider, "provider", "", "Vision provider (anthropic, gemini, openai or ollama)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to the provider's default)")

	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var resultsPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a saved evaluation run",
		Example: `  brickbuilder eval report --results evals/llava-2026-01-02_03-04-05.yaml
  brickbuilder eval report --results evals/llava-2026-01-02_03-04-05.yaml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unsupported format: %s (text, json or yaml)", format)
			}
			return executeReport(cmd.OutOrStdout(), resultsPath, format)
		},
	}

	cmd.Flags().StringVar(&resultsPath, "results", "", "Path to a YAML results file (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json or yaml)")

	_ = cmd.MarkFlagRequired("results")
	return cmd
}
