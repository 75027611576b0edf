package cmd

import (
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/brickbuilder/internal/client"
	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
	"github.com/lehigh-university-libraries/brickbuilder/internal/render"
	"github.com/spf13/cobra"
)

func newIdentifyCmd() *cobra.Command {
	var server string
	var imageURL string
	var batch bool
	var category string
	var format string

	cmd := &cobra.Command{
		Use:   "identify [image]",
		Short: "Identify the bricks in a photo",
		Long: `Sends a photo to a running gateway and prints what it found.

In single mode the sets containing the identified part are listed too.
Batch mode catalogs a pile of bricks and can be filtered by category.`,
		Example: `  # Identify one brick
  brickbuilder identify brick.jpg

  # Catalog a pile of bricks, showing only plates
  brickbuilder identify pile.jpg --batch --category plate

  # Identify a photo by URL and print JSON
  brickbuilder identify --url https://example.com/brick.png -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(format); err != nil {
				return err
			}

			var img images.Image
			var err error
			switch {
			case len(args) == 1 && imageURL != "":
				return errors.New("pass either an image path or --url, not both")
			case len(args) == 1:
				img, err = images.FromFile(args[0])
			case imageURL != "":
				img, err = images.NewFetcher().FromURL(cmd.Context(), imageURL)
			default:
				return errors.New("an image path or --url is required")
			}
			if err != nil {
				return err
			}

			scan, err := client.New(server).Scan(cmd.Context(), img, identify.ModeFromBatch(batch))
			if err != nil {
				return fmt.Errorf("failed to identify brick: %w", err)
			}

			out := cmd.OutOrStdout()
			if format != "text" {
				return printStructured(out, format, scan)
			}
			if err := render.Result(out, scan.Result, render.Options{Category: category}); err != nil {
				return err
			}
			if scan.Sets != nil {
				fmt.Fprintln(out)
				return render.Sets(out, *scan.Sets, scan.PartNum)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", client.DefaultServer, "Gateway URL")
	cmd.Flags().StringVar(&imageURL, "url", "", "Download the image from this URL instead of a file")
	cmd.Flags().BoolVar(&batch, "batch", false, "Catalog every brick in the photo")
	cmd.Flags().StringVar(&category, "category", "all", "Only show batch bricks whose category contains this")
	addOutputFlag(cmd, &format)

	return cmd
}
