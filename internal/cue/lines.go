// Package cue turns playback snapshots into short announcements: which
// step is up, how much to pour, when a step is about to end.
//
// lines.go centralises every announced string. Keep lines short and
// direct; they are read aloud when voice is enabled.
package cue

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/coffeepad/internal/domain"
)

// ── Method ───────────────────────────────────────────────────────

func LineMethodStart(title string, steps int) string {
	if steps == 1 {
		return fmt.Sprintf("%s. One step.", title)
	}
	return fmt.Sprintf("%s. %d steps.", title, steps)
}

func LineComplete(totalSeconds, totalWeight int) string {
	if totalWeight > 0 {
		return fmt.Sprintf("Done. %d grams in %s. Enjoy.", totalWeight, FormatSecondsSpeech(totalSeconds))
	}
	return fmt.Sprintf("Done in %s. Enjoy.", FormatSecondsSpeech(totalSeconds))
}

func LinePaused() string  { return "Paused." }
func LineResumed() string { return "Go." }

// ── Steps ────────────────────────────────────────────────────────

// LineStep describes a step the way a barista would call it out:
// action, technique, then the numbers.
func LineStep(order, total int, step domain.BrewStep) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d of %d. %s", order, total, stepAction(step))
	switch {
	case step.HasWeight() && step.Timed():
		fmt.Fprintf(&b, ", %d grams over %s", step.Weight, FormatSecondsSpeech(step.Seconds))
	case step.HasWeight():
		fmt.Fprintf(&b, ", %d grams", step.Weight)
	case step.Timed():
		fmt.Fprintf(&b, " for %s", FormatSecondsSpeech(step.Seconds))
	}
	b.WriteString(".")
	if step.Comment != "" {
		fmt.Fprintf(&b, " %s.", strings.TrimRight(step.Comment, "."))
	}
	if !step.Timed() {
		b.WriteString(" Say next when you're done.")
	}
	return b.String()
}

func stepAction(step domain.BrewStep) string {
	switch step.Kind {
	case domain.KindPourWater:
		if step.SubOption != "" {
			return "Pour, " + strings.ToLower(step.SubOption)
		}
		return "Pour"
	case domain.KindStir:
		if step.SubOption != "" {
			return step.SubOption
		}
		return "Stir"
	case domain.KindAddIce:
		return "Add ice"
	case domain.KindWait:
		return "Wait"
	case domain.KindRemoveDripper:
		return "Remove the dripper"
	case domain.KindEmptyServer:
		return "Empty the server"
	default:
		return step.Title
	}
}

func LineAlmostDone(remaining int, next *domain.BrewStep) string {
	msg := fmt.Sprintf("%s left.", FormatSecondsSpeech(remaining))
	if next != nil {
		msg += " Next: " + strings.ToLower(stepAction(*next)) + "."
	}
	return msg
}

// ── Status ───────────────────────────────────────────────────────

func LineStatus(order, total, weight, elapsed int, status string) string {
	return fmt.Sprintf("Step %d of %d, %s. %d grams, %s in.",
		order, total, status, weight, FormatSecondsSpeech(elapsed))
}

func LineHelp() string {
	return "Say play, pause, next, back, repeat, status, or quit."
}

func LineUnknown(input string) string {
	return fmt.Sprintf("Didn't catch that: %s.", input)
}

// ── Helpers ──────────────────────────────────────────────────────

// FormatSecondsSpeech returns a human-friendly spoken duration.
func FormatSecondsSpeech(secs int) string {
	m, s := secs/60, secs%60
	switch {
	case m == 0 && s == 1:
		return "1 second"
	case m == 0:
		return fmt.Sprintf("%d seconds", s)
	case s == 0 && m == 1:
		return "1 minute"
	case s == 0:
		return fmt.Sprintf("%d minutes", m)
	case m == 1:
		return fmt.Sprintf("1 minute %d", s)
	default:
		return fmt.Sprintf("%d minutes %d", m, s)
	}
}

// StaticLines returns every fixed line so a speech cache can be warmed.
func StaticLines() []string {
	return []string{LinePaused(), LineResumed(), LineHelp()}
}
