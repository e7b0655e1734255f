package conversation

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	cyan  = "\033[36m"
)

// PrintFunc is a function used to print formatted output.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes notifications to stdout, with ANSI styling when color
// is enabled.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	color   bool
}

// NewCLINotifier creates a stdout-based notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc, color bool) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn, color: color}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	if !n.color {
		n.printFn("%s", message)
		return nil
	}
	n.printFn("%s%s%s%s", cyan, bold, message, reset)
	return nil
}

// NotifyUrgent prints an urgent notification in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	if !n.color {
		n.printFn("! %s", message)
		return nil
	}
	n.printFn("%s%s%s%s", red, bold, message, reset)
	return nil
}
