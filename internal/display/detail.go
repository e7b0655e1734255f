package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/player"
	"github.com/hammamikhairi/coffeepad/internal/wizard"
)

type detailView struct {
	method domain.BrewMethod
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case isKey(key, "esc", "q", "backspace"):
		m.screen = screenList
	case isKey(key, "e"):
		m.openWizard(wizard.FromMethod(m.detail.method))
	case isKey(key, "enter", "p", " ", "space"):
		return m.openPlayer(m.detail.method.ID)
	}
	return m, nil
}

func (m Model) viewDetail() string {
	meth := m.detail.method
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render(meth.Title) + "  " + secondaryStyle.Render(meth.Date) + "\n")
	if meth.Comment != "" {
		b.WriteString("  " + primaryStyle.Render(meth.Comment) + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s   %s %s   %s %s   %s %s\n",
		secondaryStyle.Render("coffee"), primaryStyle.Render(fmt.Sprintf("%dg", meth.Weight)),
		secondaryStyle.Render("grind"), primaryStyle.Render(meth.Grind),
		secondaryStyle.Render("water"), primaryStyle.Render(fmt.Sprintf("%d°C", meth.Temp)),
		secondaryStyle.Render("yield"), primaryStyle.Render(fmt.Sprintf("%dml", meth.Amount)))
	b.WriteString("\n")
	b.WriteString(renderSteps(meth.Steps, -1))
	fmt.Fprintf(&b, "\n  %s\n", secondaryStyle.Render(fmt.Sprintf("total %dg over %s",
		meth.TotalWeight(), player.FormatClock(meth.TotalSeconds()))))
	b.WriteString("\n  " + strings.Join([]string{
		keyHint("enter", "brew", len(meth.Steps) > 0),
		keyHint("e", "edit", true),
		keyHint("esc", "back", true),
	}, sepStyle.Render("  ")))
	return b.String()
}

// renderSteps lists steps with weight and time; cursor marks one row.
func renderSteps(steps []domain.BrewStep, cursor int) string {
	var b strings.Builder
	for i, s := range steps {
		mark := "  "
		style := stepStyle
		if i == cursor {
			mark = selectedStyle.Render("▸ ")
			style = selectedStyle
		}
		var detail []string
		if s.HasWeight() {
			detail = append(detail, fmt.Sprintf("%dg", s.Weight))
		}
		if s.Timed() {
			detail = append(detail, player.FormatClock(s.Seconds))
		}
		if s.Comment != "" {
			detail = append(detail, s.Comment)
		}
		fmt.Fprintf(&b, "  %s%2d. %s  %s\n", mark, i+1, style.Render(s.Label()),
			secondaryStyle.Render(strings.Join(detail, " · ")))
	}
	return b.String()
}
