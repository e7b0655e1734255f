package gpt

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/coffeepad/internal/catalog"
)

// System prompts live here so tone changes are a single-file edit.

// PromptQuestion is used when the user asks a free-form question during
// playback. Answers are short and spoken.
const PromptQuestion = `You are a concise barista helping someone brew pour-over coffee step by step.

You can see the brew method, its steps, and where the user is right now. Use that context; do not invent steps or numbers.

Rules:
- Answer in 1-3 sentences.
- Be direct. No filler, no flattery.
- If the question is unrelated to coffee, say so briefly.
- No markdown, no emojis: the answer may be read aloud.`

// promptDraftHeader is followed by the step catalog in PromptDraftSteps.
const promptDraftHeader = `You turn a pour-over coffee video into a list of brew steps.

Respond with a JSON object and nothing else:
{"steps": [{"type": "...", "subOption": "...", "weight": 0, "time": 0, "comment": "..."}]}

Rules:
- "type" must be one of the step types below, spelled exactly.
- "subOption" must be one of the listed techniques for that type, or omitted when the type lists none.
- "weight" is grams of water or ice, "time" is seconds. Include them when the type requires them, as positive integers.
- "comment" is a short note (under 40 characters) or omitted.
- 3 to 10 steps. Total water should match a typical 1:15 to 1:17 ratio for the dose.

Step types:
`

// PromptDraftSteps returns the drafting prompt with the live catalog.
func PromptDraftSteps() string {
	var b strings.Builder
	b.WriteString(promptDraftHeader)
	for _, d := range catalog.All() {
		fmt.Fprintf(&b, "- %s", d.Kind)
		var needs []string
		if d.NeedsWeight {
			needs = append(needs, "weight")
		}
		if d.NeedsTime {
			needs = append(needs, "time")
		}
		if len(needs) > 0 {
			fmt.Fprintf(&b, " (requires %s)", strings.Join(needs, ", "))
		}
		if d.HasSubOptions() {
			fmt.Fprintf(&b, ": %s", strings.Join(d.SubOptions, " | "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
