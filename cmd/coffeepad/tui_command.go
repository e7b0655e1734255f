package main

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/coffeepad/internal/display"
	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/voice"
)

func newTUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen brew catalog (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, ctx)
		},
	}
}

// runTUI opens the Bubble Tea UI. When stdout is not a terminal it prints
// the method list instead.
func runTUI(cmd *cobra.Command, cc *commandContext) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return runList(cmd, cc, false)
	}

	ctx := cmd.Context()
	eng, err := cc.engine(ctx)
	if err != nil {
		return err
	}
	cfg := cc.config

	opts := []display.Option{
		display.WithAlmostDone(cfg.Player.AlmostDoneSeconds),
		display.WithIconSize(cfg.YouTube.ThumbnailSize),
	}
	if speaker := cc.voiceSpeaker(ctx); speaker != nil {
		opts = append(opts, display.WithNotifier(voice.NewSpeakingNotifier(silentNotifier{}, speaker)))
	}
	return display.Run(ctx, eng, cc.logger().With("tui"), opts...)
}

// silentNotifier swallows text so that spoken cues in the TUI do not print
// over the alternate screen; the TUI shows them itself.
type silentNotifier struct{}

var _ domain.Notifier = silentNotifier{}

func (silentNotifier) Notify(context.Context, string) error       { return nil }
func (silentNotifier) NotifyUrgent(context.Context, string) error { return nil }
