package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/coffeepad/internal/youtube"
)

func newYouTubeCommand(ctx *commandContext) *cobra.Command {
	var in youtube.Input
	var previewOnly bool

	cmd := &cobra.Command{
		Use:     "youtube <link>",
		Aliases: []string{"yt"},
		Short:   "Create a brew method from a YouTube video",
		Long: "Looks the video up, then stores a method built from the flags. Empty flags\n" +
			"fall back to the video title and the house defaults. Steps are drafted by the\n" +
			"chat model when it is enabled, otherwise a standard three-pour schedule is used.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creator, err := ctx.creator(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Looking up video…")
			v, err := creator.Preview(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("video lookup: %w", err)
			}
			fmt.Fprintln(out, renderTable(
				[]column{left("Field"), left("Value")},
				[][]string{
					{"ID", v.ID},
					{"Title", v.Title},
					{"Duration", v.Duration},
					{"Published", v.PublishedAt},
					{"Thumbnail", v.ThumbnailURL},
				},
			))
			if previewOnly {
				return nil
			}

			m, err := creator.Create(cmd.Context(), v, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %q as method %d (%d steps, icon: %s)\n",
				m.Title, m.ID, len(m.Steps), yesNo(len(m.IconData) > 0))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "Method title (default: the video title)")
	f.StringVar(&in.Comment, "comment", "", "Free-form note")
	f.StringVar(&in.Amount, "amount", "", "Finished volume in ml")
	f.StringVar(&in.Weight, "weight", "", "Coffee dose in grams")
	f.StringVar(&in.Grind, "grind", "", "Grind size")
	f.StringVar(&in.Temp, "temp", "", "Water temperature in °C")
	f.BoolVar(&previewOnly, "preview", false, "Only show the video details")
	return cmd
}
