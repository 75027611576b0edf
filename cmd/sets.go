package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/brickbuilder/internal/client"
	"github.com/spf13/cobra"
)

func newSetsCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "sets",
		Short: "Look up sets in the Rebrickable catalog through the gateway",
	}
	cmd.PersistentFlags().StringVar(&server, "server", client.DefaultServer, "Gateway URL")

	var format string
	show := &cobra.Command{
		Use:     "show <set-num>",
		Short:   "Show a set and where to find its building instructions",
		Example: `  brickbuilder sets show 10698-1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			set, err := client.New(server).SetInstructions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format != "text" {
				return printStructured(cmd.OutOrStdout(), format, set)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "#%s %s (%d)\n", set.SetNum, set.Name, set.Year)
			fmt.Fprintf(w, "Pieces: %d\n", set.NumParts)
			fmt.Fprintf(w, "View Instructions → %s\n", set.InstructionsURL)
			return nil
		},
	}
	addOutputFlag(show, &format)
	cmd.AddCommand(show)

	return cmd
}
