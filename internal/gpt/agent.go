package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/coffeepad/internal/catalog"
	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
	"github.com/hammamikhairi/coffeepad/internal/youtube"
)

// Compile-time interface check.
var _ youtube.StepDrafter = (*Agent)(nil)

// Agent wraps the Client with brew-domain context building.
type Agent struct {
	client *Client
	log    *logger.Logger
}

// NewAgent creates an agent backed by the given Client.
func NewAgent(client *Client, log *logger.Logger) *Agent {
	return &Agent{client: client, log: log}
}

// ── Public API ───────────────────────────────────────────────────

// AskQuestion answers a free-form question with the method and the
// current playback position as context.
func (a *Agent) AskQuestion(ctx context.Context, question string, m *domain.BrewMethod, snap *player.Snapshot) (string, error) {
	msgs := []Message{TextMessage(RoleSystem, PromptQuestion)}
	if block := buildContext(m, snap); block != "" {
		msgs = append(msgs,
			TextMessage(RoleUser, block),
			TextMessage(RoleAssistant, "Got it, I have the context."),
		)
	}
	msgs = append(msgs, TextMessage(RoleUser, question))
	return a.client.Chat(ctx, msgs)
}

// draftStep is one step as the model writes it.
type draftStep struct {
	Type      string `json:"type"`
	SubOption string `json:"subOption"`
	Weight    int    `json:"weight"`
	Time      int    `json:"time"`
	Comment   string `json:"comment"`
}

type draftResponse struct {
	Steps []draftStep `json:"steps"`
}

// DraftSteps asks the model for a step list matching the video. Steps
// that do not fit the catalog are dropped; an empty result is an error.
func (a *Agent) DraftSteps(ctx context.Context, v youtube.Video) ([]domain.BrewStep, error) {
	query := fmt.Sprintf("Video title: %s\nDuration: %s\nDescription: %s", v.Title, v.Duration, v.Description)
	raw, err := a.client.ChatJSON(ctx, []Message{
		TextMessage(RoleSystem, PromptDraftSteps()),
		TextMessage(RoleUser, query),
	})
	if err != nil {
		return nil, err
	}

	steps, dropped, err := parseDraft(stripCodeFence(raw))
	if err != nil {
		a.log.Error("gpt: failed to parse draft JSON: %v\nraw: %s", err, truncate(raw, 300))
		return nil, err
	}
	if dropped > 0 {
		a.log.Warn("gpt: dropped %d drafted steps that do not fit the catalog", dropped)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("gpt: draft has no usable steps: %w", domain.ErrNoSteps)
	}
	a.log.Debug("gpt: drafted %d steps for %q", len(steps), v.Title)
	return steps, nil
}

// parseDraft decodes the model's reply into catalog-valid steps and
// reports how many were rejected.
func parseDraft(raw string) ([]domain.BrewStep, int, error) {
	var resp draftResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, 0, fmt.Errorf("gpt: decoding draft: %w", err)
	}
	steps := make([]domain.BrewStep, 0, len(resp.Steps))
	dropped := 0
	for _, d := range resp.Steps {
		kind := domain.StepKindFromString(d.Type)
		step := domain.BrewStep{
			ID:        uuid.NewString(),
			Kind:      kind,
			Title:     catalog.Title(kind),
			SubOption: strings.TrimSpace(d.SubOption),
			Weight:    d.Weight,
			Seconds:   d.Time,
			Comment:   strings.TrimSpace(d.Comment),
		}
		if def, ok := catalog.Lookup(kind); ok {
			// Keep only the fields the definition asks for.
			if !def.NeedsWeight {
				step.Weight = 0
			}
			if !def.NeedsTime {
				step.Seconds = 0
			}
			if !def.HasSubOptions() {
				step.SubOption = ""
			}
		}
		if !catalog.Validate(step) || (isPicky(kind) && step.SubOption == "") {
			dropped++
			continue
		}
		steps = append(steps, step)
	}
	return steps, dropped, nil
}

// isPicky reports whether the kind's technique must be chosen.
func isPicky(kind domain.StepKind) bool {
	def, ok := catalog.Lookup(kind)
	return ok && def.HasSubOptions()
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// ── Context building ─────────────────────────────────────────────

// buildContext serializes the method and playback position into a
// plain-text block the model can reason over.
func buildContext(m *domain.BrewMethod, snap *player.Snapshot) string {
	if m == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("[Brew Method]\n")
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	if m.Comment != "" {
		fmt.Fprintf(&b, "Notes: %s\n", m.Comment)
	}
	fmt.Fprintf(&b, "Coffee: %dg, grind %s, water %d°C, yield %dml\n", m.Weight, m.Grind, m.Temp, m.Amount)

	b.WriteString("\nSteps:\n")
	for i, s := range m.Steps {
		fmt.Fprintf(&b, "%d. %s", i+1, s.Label())
		if s.HasWeight() {
			fmt.Fprintf(&b, ", %dg", s.Weight)
		}
		if s.Timed() {
			fmt.Fprintf(&b, ", %ds", s.Seconds)
		} else {
			b.WriteString(", untimed")
		}
		if s.Comment != "" {
			fmt.Fprintf(&b, " (%s)", s.Comment)
		}
		b.WriteString("\n")
	}

	if snap == nil {
		b.WriteString("\n[Not brewing yet.]\n")
		return b.String()
	}
	st := snap.State
	b.WriteString("\n[Playback]\n")
	fmt.Fprintf(&b, "Status: %s\n", st.Status)
	if st.Completed() {
		b.WriteString("All steps done.\n")
	} else {
		fmt.Fprintf(&b, "Current step: %d of %d\n", st.StepIndex+1, st.StepCount)
		fmt.Fprintf(&b, "Step elapsed: %s\n", player.FormatClock(st.StepElapsed))
	}
	fmt.Fprintf(&b, "Total elapsed: %s, water so far: %dg\n", player.FormatClock(st.TotalElapsed), st.TotalWeight)
	return b.String()
}
