package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/coffeepad/internal/config"
	"github.com/hammamikhairi/coffeepad/internal/domain"
)

func newMethodCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newListCommand(ctx),
		newShowCommand(ctx),
		newDeleteCommand(ctx),
		newSamplesCommand(ctx),
		newExportCommand(ctx),
		newImportCommand(ctx),
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var oldest bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved brew methods",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, ctx, oldest)
		},
	}
	cmd.Flags().BoolVar(&oldest, "oldest", false, "List the oldest method first")
	return cmd
}

func runList(cmd *cobra.Command, ctx *commandContext, oldest bool) error {
	eng, err := ctx.engine(cmd.Context())
	if err != nil {
		return err
	}
	order := domain.SortNewest
	if oldest {
		order = domain.SortOldest
	}
	methods, err := eng.List(cmd.Context(), order)
	if err != nil {
		return err
	}
	stats, err := eng.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(methods) == 0 {
		fmt.Fprintln(out, "No brew methods yet. Run `coffeepad samples` or create one in the TUI.")
		return nil
	}
	fmt.Fprintf(out, "%d methods, %d this month (%s first)\n", stats.Total, stats.ThisMonth, order)
	fmt.Fprintln(out, renderTable(
		[]column{right("ID"), left("Title"), left("Date"), right("Steps"), right("Time"), right("Water"), left("Icon")},
		methodRows(methods),
	))
	return nil
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one brew method and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMethodID(args[0])
			if err != nil {
				return err
			}
			eng, err := ctx.engine(cmd.Context())
			if err != nil {
				return err
			}
			m, err := eng.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("method %d: %w", id, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  (%s)\n", m.Title, m.Date)
			if m.Comment != "" {
				fmt.Fprintln(out, m.Comment)
			}
			fmt.Fprintf(out, "Dose %dg · Water %dml · %d°C · %s grind\n", m.Weight, m.Amount, m.Temp, m.Grind)
			if len(m.Steps) == 0 {
				fmt.Fprintln(out, "No steps.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]column{right("#"), left("Step"), right("Water"), right("Time"), left("Note")},
				stepRows(m.Steps),
			))
			fmt.Fprintf(out, "Total %s, %dg poured\n", clockOrDash(m.TotalSeconds()), m.TotalWeight())
			return nil
		},
	}
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a brew method",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMethodID(args[0])
			if err != nil {
				return err
			}
			eng, err := ctx.engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := eng.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("method %d not found", id)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted method %d\n", id)
			return nil
		},
	}
}

func newSamplesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "Add the bundled sample methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine(cmd.Context())
			if err != nil {
				return err
			}
			n, err := eng.AddSamples(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample methods\n", n)
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every method as JSON (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			target := ""
			if len(args) == 1 {
				if target, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve export path: %w", err)
				}
				f, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			n, err := eng.Export(cmd.Context(), w)
			if err != nil {
				return err
			}
			if target != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d methods to %s\n", n, target)
			}
			return nil
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load methods from a JSON export (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine(cmd.Context())
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if src := strings.TrimSpace(args[0]); src != "-" {
				path, err := config.ExpandPath(src)
				if err != nil {
					return fmt.Errorf("resolve import path: %w", err)
				}
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer f.Close()
				r = f
			}

			n, err := eng.Import(cmd.Context(), r, replace)
			if err != nil {
				return err
			}
			verb := "Imported"
			if replace {
				verb = "Replaced library with"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d methods\n", verb, n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the whole library instead of merging")
	return cmd
}
