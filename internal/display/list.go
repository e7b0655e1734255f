package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/storage"
	"github.com/hammamikhairi/coffeepad/internal/wizard"
)

type listView struct {
	methods  []domain.BrewMethod
	stats    storage.Stats
	order    domain.SortOrder
	cursor   int
	deleting bool // waiting for y/n
}

func (l listView) selected() (domain.BrewMethod, bool) {
	if l.cursor < 0 || l.cursor >= len(l.methods) {
		return domain.BrewMethod{}, false
	}
	return l.methods[l.cursor], true
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.list.deleting {
		m.list.deleting = false
		if isKey(key, "y", "Y") {
			if sel, ok := m.list.selected(); ok {
				if err := m.svc.Delete(m.ctx, sel.ID); err != nil {
					m.log.Error("deleting method %d: %v", sel.ID, err)
					m.flash = "Delete failed."
				}
				m.reload()
			}
		}
		return m, nil
	}

	switch {
	case isKey(key, "q", "esc"):
		return m, tea.Quit
	case isKey(key, "up", "k"):
		if m.list.cursor > 0 {
			m.list.cursor--
		}
	case isKey(key, "down", "j"):
		if m.list.cursor < len(m.list.methods)-1 {
			m.list.cursor++
		}
	case isKey(key, "enter"):
		if sel, ok := m.list.selected(); ok {
			m.detail = detailView{method: sel}
			m.screen = screenDetail
		}
	case isKey(key, "n", "+"):
		m.openWizard(wizard.New())
	case isKey(key, "o"):
		if m.list.order == domain.SortNewest {
			m.list.order = domain.SortOldest
		} else {
			m.list.order = domain.SortNewest
		}
		m.reload()
	case isKey(key, "d", "delete"):
		if _, ok := m.list.selected(); ok {
			m.list.deleting = true
		}
	case isKey(key, "s"):
		n, err := m.svc.AddSamples(m.ctx)
		if err != nil {
			m.log.Error("adding samples: %v", err)
			m.flash = "Could not add samples."
		} else {
			m.flash = fmt.Sprintf("Added %d sample methods.", n)
		}
		m.reload()
	}
	return m, nil
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(RenderBanner(m.width))
	b.WriteString("\n")

	header := fmt.Sprintf(" %d methods  │  %d this month  │  %s first ",
		m.list.stats.Total, m.list.stats.ThisMonth, m.list.order)
	b.WriteString(barBg.Width(max(m.width, len(header))).Render(header))
	b.WriteString("\n\n")

	if len(m.list.methods) == 0 {
		b.WriteString(secondaryStyle.Render("  No brew methods yet. Press n to create one or s to add samples."))
		b.WriteString("\n")
	}
	for i, meth := range m.list.methods {
		cursor := "  "
		style := primaryStyle
		if i == m.list.cursor {
			cursor = selectedStyle.Render("▸ ")
			style = selectedStyle
		}
		icon := " "
		if len(meth.IconData) > 0 {
			icon = "▣"
		}
		fmt.Fprintf(&b, "%s%s %s  %s\n", cursor, secondaryStyle.Render(icon), style.Render(meth.Title),
			secondaryStyle.Render(fmt.Sprintf("%s · %d steps · %dg → %dml", meth.Date, len(meth.Steps), meth.Weight, meth.Amount)))
	}

	b.WriteString("\n")
	if m.list.deleting {
		sel, _ := m.list.selected()
		b.WriteString(urgentStyle.Render(fmt.Sprintf("  Delete %q? [y/N]", sel.Title)))
		return b.String()
	}
	hasSel := len(m.list.methods) > 0
	b.WriteString("  " + strings.Join([]string{
		keyHint("enter", "open", hasSel),
		keyHint("n", "new", true),
		keyHint("d", "delete", hasSel),
		keyHint("o", "sort", true),
		keyHint("s", "samples", true),
		keyHint("q", "quit", true),
	}, sepStyle.Render("  ")))
	return b.String()
}
