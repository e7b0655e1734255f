// Package conversation turns typed or spoken input into player commands
// and prints notifications for the headless player.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches input to commands using keywords and simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(play|start|go|resume|continue|begin|let'?s go)$`), domain.CommandPlay},
		{regexp.MustCompile(`(?i)^(pause|hold on|hold|stop|wait)$`), domain.CommandPause},
		{regexp.MustCompile(`(?i)^(toggle|space|t)$`), domain.CommandToggle},
		{regexp.MustCompile(`(?i)^(next|n|done|skip|next step)$`), domain.CommandNext},
		{regexp.MustCompile(`(?i)^(back|prev|previous|p|go back|previous step)$`), domain.CommandPrevious},
		{regexp.MustCompile(`(?i)^(status|where|progress|how much|time)$`), domain.CommandStatus},
		{regexp.MustCompile(`(?i)^(repeat|again|r|what|say again|come again)$`), domain.CommandRepeat},
		{regexp.MustCompile(`(?i)^(help|h|\?|commands)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.CommandQuit},
	}
	return p
}

// punctuation trimmed from spoken input ("Next." from whisper).
const punctuation = " \t.,!;:"

// Parse converts input into a command. Unmatched input returns
// CommandUnknown with the trimmed text in Raw.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}
	normalized := strings.Join(strings.Fields(strings.Trim(trimmed, punctuation)), " ")
	if normalized == "" {
		normalized = trimmed
	}

	p.log.Debug("parsing input: %q", normalized)

	for _, rule := range p.patterns {
		if rule.regex.MatchString(normalized) {
			p.log.Debug("matched command: %s", rule.command)
			return &domain.Command{Type: rule.command, Raw: trimmed}, nil
		}
	}

	// Spoken input tends to be chattier ("okay, next please").
	lower := strings.ToLower(normalized)
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, punctuation)
		for _, rule := range p.patterns {
			if word != "p" && word != "t" && word != "r" && word != "h" && word != "n" && word != "q" &&
				rule.regex.MatchString(word) {
				p.log.Debug("matched command %s from word %q", rule.command, word)
				return &domain.Command{Type: rule.command, Raw: trimmed}, nil
			}
		}
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CommandUnknown, Raw: trimmed}, nil
}
