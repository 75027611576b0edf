package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/brickbuilder/internal/config"
	"github.com/lehigh-university-libraries/brickbuilder/internal/logging"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "brickbuilder",
		Short: "LEGO brick identifier backed by a vision LLM and the Rebrickable catalog",
		Long: `Brick Builder identifies LEGO bricks in photos with a vision-capable LLM and
looks up the sets they appear in on Rebrickable.

Run the gateway with "brickbuilder serve", then scan photos with
"brickbuilder identify" or browse the catalog with "brickbuilder parts" and
"brickbuilder sets".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			loaded, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = loaded
			logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd(cfg))
	cmd.AddCommand(newIdentifyCmd())
	cmd.AddCommand(newPartsCmd())
	cmd.AddCommand(newSetsCmd())
	cmd.AddCommand(newEvalCmd(cfg))

	return cmd
}
