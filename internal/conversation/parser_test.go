package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input string
		want  domain.CommandType
	}{
		// Play
		{"play", domain.CommandPlay},
		{"Resume", domain.CommandPlay},
		{"let's go", domain.CommandPlay},

		// Pause
		{"pause", domain.CommandPause},
		{"hold on", domain.CommandPause},

		// Toggle
		{"space", domain.CommandToggle},
		{"t", domain.CommandToggle},

		// Navigation
		{"next", domain.CommandNext},
		{"n", domain.CommandNext},
		{"Next.", domain.CommandNext},
		{"back", domain.CommandPrevious},
		{"p", domain.CommandPrevious},

		// Info
		{"status", domain.CommandStatus},
		{"repeat", domain.CommandRepeat},
		{"?", domain.CommandHelp},

		// Quit
		{"q", domain.CommandQuit},
		{"exit", domain.CommandQuit},

		// Chatty speech
		{"okay, next please", domain.CommandNext},
		{"could you pause", domain.CommandPause},

		// Unknown
		{"", domain.CommandUnknown},
		{"make it stronger", domain.CommandUnknown},
		{"open the fridge", domain.CommandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if cmd.Type != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, cmd.Type, tt.want)
			}
		})
	}
}

func TestKeywordParserKeepsRaw(t *testing.T) {
	parser := NewKeywordParser(logger.New(logger.LevelOff, nil))
	cmd, _ := parser.Parse(context.Background(), "  grind finer  ")
	if cmd.Raw != "grind finer" {
		t.Errorf("Raw = %q, want %q", cmd.Raw, "grind finer")
	}
}

func TestCLINotifier(t *testing.T) {
	var lines []string
	printFn := func(format string, a ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, a...))
	}
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), printFn, false)
	ctx := context.Background()

	n.Notify(ctx, "Step 1 of 3.")
	n.NotifyUrgent(ctx, "Done.")

	if len(lines) != 2 || lines[0] != "Step 1 of 3." || lines[1] != "! Done." {
		t.Errorf("lines = %q", lines)
	}

	lines = nil
	NewCLINotifier(logger.New(logger.LevelOff, nil), printFn, true).Notify(ctx, "hi")
	if lines[0] != cyan+bold+"hi"+reset {
		t.Errorf("colored line = %q", lines[0])
	}
}
