package voice

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/coffeepad/internal/domain"
)

// Compile-time interface check.
var _ domain.Notifier = (*SpeakingNotifier)(nil)

// SpeakingNotifier forwards every message to a text notifier and queues
// it for speech.
type SpeakingNotifier struct {
	text    domain.Notifier
	speaker *Speaker
}

// NewSpeakingNotifier wraps text so messages are also spoken.
func NewSpeakingNotifier(text domain.Notifier, speaker *Speaker) *SpeakingNotifier {
	return &SpeakingNotifier{text: text, speaker: speaker}
}

// Notify prints the message and speaks it at normal priority.
func (n *SpeakingNotifier) Notify(ctx context.Context, message string) error {
	if err := n.text.Notify(ctx, message); err != nil {
		return err
	}
	n.speaker.Say(cleanForSpeech(message), PriorityNormal)
	return nil
}

// NotifyUrgent prints the message and speaks it at high priority.
func (n *SpeakingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.text.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	n.speaker.Say(cleanForSpeech(message), PriorityHigh)
	return nil
}

var (
	bracketPrefix = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
	ansiCodes     = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// cleanForSpeech strips terminal styling and tag prefixes.
func cleanForSpeech(msg string) string {
	msg = ansiCodes.ReplaceAllString(msg, "")
	msg = bracketPrefix.ReplaceAllString(msg, "")
	return strings.TrimSpace(msg)
}
