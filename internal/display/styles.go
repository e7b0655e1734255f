package display

import "github.com/charmbracelet/lipgloss"

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	// BannerStyle is the warm tan of the banner art.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6b48c"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3f3f46"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	cueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	digitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true).
			Padding(0, 1)

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)

// keyHint renders "[key] label", dimmed when the action is unavailable.
func keyHint(key, label string, enabled bool) string {
	if !enabled {
		return disabledStyle.Render("[" + key + "] " + label)
	}
	return promptStyle.Render("["+key+"]") + " " + primaryStyle.Render(label)
}
