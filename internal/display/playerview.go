package display

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/coffeepad/internal/cue"
	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/player"
)

// playerView shows one running playback. The snapshot is replaced on
// every controller update; nothing here mutates playback state directly.
type playerView struct {
	method    domain.BrewMethod
	ctrl      *player.Controller
	snap      player.Snapshot
	bar       progress.Model
	announcer *cue.Announcer
	cues      *cueLog
}

// snapshotMsg carries one controller update into Update.
type snapshotMsg struct {
	ctrl *player.Controller
	snap player.Snapshot
}

// playerClosedMsg is sent when a controller's update channel closes.
type playerClosedMsg struct{}

// waitSnapshot blocks on the next controller update.
func waitSnapshot(ctrl *player.Controller) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ctrl.Updates()
		if !ok {
			return playerClosedMsg{}
		}
		return snapshotMsg{ctrl: ctrl, snap: snap}
	}
}

func (m Model) openPlayer(id int64) (tea.Model, tea.Cmd) {
	meth, ctrl, err := m.svc.NewPlayback(m.ctx, id)
	if err != nil {
		m.log.Warn("opening player for %d: %v", id, err)
		m.flash = "This method has no steps to brew."
		return m, nil
	}
	m.closePlayer()

	cues := &cueLog{next: m.cfg.notifier}
	v := &playerView{
		method: *meth,
		ctrl:   ctrl,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		cues:   cues,
		announcer: cue.NewAnnouncer(meth.Title, meth.Steps, cues, m.log.With("cue"),
			cue.WithAlmostDone(m.cfg.almostDone)),
	}
	v.resize(m.width)

	ctrl.Start(m.ctx)
	snap, err := ctrl.Do(m.ctx, domain.CommandStatus)
	if err != nil {
		m.log.Error("player status: %v", err)
	}
	v.snap = snap

	m.play = v
	m.screen = screenPlayer
	return m, waitSnapshot(ctrl)
}

func (v *playerView) resize(width int) {
	v.bar.Width = max(20, min(width-8, 60))
}

// observe records a snapshot and lets the announcer react to it.
func (v *playerView) observe(ctx context.Context, snap player.Snapshot) {
	v.snap = snap
	v.announcer.Observe(ctx, snap)
}

func (v *playerView) windowTitle() string {
	s := v.snap
	switch {
	case s.Completed():
		return "CoffeePad · done"
	case s.Step.Timed():
		return fmt.Sprintf("CoffeePad · %d/%d %s", s.StepIndex+1, s.StepCount,
			player.Remaining(s.StepElapsed, s.Step.Seconds))
	default:
		return fmt.Sprintf("CoffeePad · %d/%d", s.StepIndex+1, s.StepCount)
	}
}

func (m Model) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	v := m.play

	var cmd domain.CommandType
	switch {
	case isKey(key, "esc", "q"):
		meth := v.method
		m.closePlayer()
		m.detail = detailView{method: meth}
		m.screen = screenDetail
		return m, tea.SetWindowTitle("CoffeePad")
	case isKey(key, " ", "space"):
		cmd = domain.CommandToggle
	case isKey(key, "right", "n", "l"):
		cmd = domain.CommandNext
	case isKey(key, "left", "p", "h"):
		cmd = domain.CommandPrevious
	case isKey(key, "r"):
		v.announcer.Repeat(m.ctx)
		return m, nil
	default:
		return m, nil
	}

	snap, err := v.ctrl.Do(m.ctx, cmd)
	if err != nil {
		m.log.Warn("player %s: %v", cmd, err)
		return m, nil
	}
	v.snap = snap
	return m, nil
}

func (m Model) viewPlayer() string {
	v := m.play
	s := v.snap
	var b strings.Builder

	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render(v.method.Title))

	if s.Completed() {
		b.WriteString("  " + stepStyle.Render("All steps done. Enjoy your coffee.") + "\n\n")
	} else {
		fmt.Fprintf(&b, "  %s  %s\n", secondaryStyle.Render(fmt.Sprintf("Step %d of %d", s.StepIndex+1, s.StepCount)),
			stepStyle.Render(s.Step.Label()))
		if s.Step.Comment != "" {
			b.WriteString("  " + primaryStyle.Render(s.Step.Comment) + "\n")
		}
		b.WriteString("\n")
	}

	// Digital readout: step clock, total clock, poured weight.
	stepClock := "--:--"
	if s.Step.Timed() && !s.Completed() {
		stepClock = player.Remaining(s.StepElapsed, s.Step.Seconds)
	}
	b.WriteString("  " + strings.Join([]string{
		secondaryStyle.Render("step") + digitStyle.Render(stepClock),
		secondaryStyle.Render("total") + digitStyle.Render(player.FormatClock(s.TotalElapsed)),
		secondaryStyle.Render("water") + digitStyle.Render(fmt.Sprintf("%dg", s.TotalWeight)) +
			secondaryStyle.Render(fmt.Sprintf("/ %dg", v.method.TotalWeight())),
	}, sepStyle.Render("│")) + "\n\n")

	if s.Step.Timed() && !s.Completed() {
		b.WriteString("  " + v.bar.ViewAs(player.Progress(s.StepElapsed, s.Step.Seconds)) + "\n\n")
	}

	for _, c := range v.cues.recent() {
		style := cueStyle
		if c.urgent {
			style = urgentStyle
		}
		b.WriteString("  " + style.Render(c.text) + "\n")
	}
	b.WriteString("\n")

	// Untimed steps have no play/pause; prev/next dim at the ends.
	var hints []string
	if s.CanPlay {
		label := "play"
		if s.Playing() {
			label = "pause"
		}
		hints = append(hints, keyHint("space", label, true))
	}
	hints = append(hints,
		keyHint("←", "previous", s.CanPrevious),
		keyHint("→", "next", s.CanNext),
		keyHint("r", "repeat", !s.Completed()),
		keyHint("esc", "leave", true),
	)
	b.WriteString("  " + strings.Join(hints, sepStyle.Render("  ")))
	return b.String()
}
