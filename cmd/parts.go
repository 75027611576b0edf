package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/client"
	"github.com/lehigh-university-libraries/brickbuilder/internal/models"
	"github.com/lehigh-university-libraries/brickbuilder/internal/render"
	"github.com/spf13/cobra"
)

func newPartsCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "parts",
		Short: "Look up parts in the Rebrickable catalog through the gateway",
	}
	cmd.PersistentFlags().StringVar(&server, "server", client.DefaultServer, "Gateway URL")

	cmd.AddCommand(newPartsSearchCmd(&server))
	cmd.AddCommand(newPartsShowCmd(&server))
	cmd.AddCommand(newPartsSetsCmd(&server))

	return cmd
}

func newPartsSearchCmd(server *string) *cobra.Command {
	var page, pageSize int
	var format string

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Search parts by name",
		Example: `  brickbuilder parts search "brick 2 x 4"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			res, err := client.New(*server).SearchParts(cmd.Context(), strings.Join(args, " "), page, pageSize)
			if err != nil {
				return err
			}
			if format != "text" {
				return printStructured(cmd.OutOrStdout(), format, res)
			}
			if res.Failed() {
				return errors.New(res.Error)
			}
			printPartSearch(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Results per page")
	addOutputFlag(cmd, &format)
	return cmd
}

func newPartsShowCmd(server *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "show <part-num>",
		Short:   "Show a part and the colors it comes in",
		Example: `  brickbuilder parts show 3001`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			part, err := client.New(*server).PartDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format != "text" {
				return printStructured(cmd.OutOrStdout(), format, part)
			}
			printPartDetails(cmd.OutOrStdout(), part)
			return nil
		},
	}

	addOutputFlag(cmd, &format)
	return cmd
}

func newPartsSetsCmd(server *string) *cobra.Command {
	var page, pageSize int
	var color string
	var format string

	cmd := &cobra.Command{
		Use:   "sets <part-num>",
		Short: "List sets that contain a part",
		Example: `  # Sets using the part in its first listed color
  brickbuilder parts sets 3001

  # Sets using the part in any color
  brickbuilder parts sets 3001 --color all --page 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(format); err != nil {
				return err
			}
			sets, err := client.New(*server).SetsForPart(cmd.Context(), args[0], page, pageSize, color)
			if err != nil {
				return err
			}
			if format != "text" {
				return printStructured(cmd.OutOrStdout(), format, sets)
			}
			if sets.Failed() {
				return errors.New(sets.Error)
			}
			if len(sets.Sets) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No sets found for part %s\n", args[0])
				return nil
			}
			return render.Sets(cmd.OutOrStdout(), sets, args[0])
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", client.SetsPageSize, "Sets per page")
	cmd.Flags().StringVar(&color, "color", "", `Color id, or "all" for every color (default: first listed color)`)
	addOutputFlag(cmd, &format)
	return cmd
}

func printPartSearch(w io.Writer, res models.PartSearch) {
	fmt.Fprintf(w, "%d parts found\n", res.Count)
	for _, p := range res.Parts {
		fmt.Fprintf(w, "  %-10s %s\n", p.PartNum, p.Name)
	}
}

func printPartDetails(w io.Writer, part models.PartDetails) {
	if part.Failed() {
		fmt.Fprintln(w, part.Error)
		return
	}
	fmt.Fprintf(w, "%s  %s\n", part.PartNum, part.Name)
	if part.YearFrom != 0 {
		fmt.Fprintf(w, "Produced: %d-%d\n", part.YearFrom, part.YearTo)
	}
	if part.URL != "" {
		fmt.Fprintf(w, "Rebrickable: %s\n", part.URL)
	}
	if len(part.AvailableColors) > 0 {
		fmt.Fprintln(w, "Colors:")
		for _, c := range part.AvailableColors {
			fmt.Fprintf(w, "  %-6d %-24s %d sets\n", c.ColorID, c.ColorName, c.NumSets)
		}
	}
}
