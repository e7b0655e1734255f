// Package display provides the terminal UI using Bubble Tea.
//
// One root [Model] switches between the method list, the method detail,
// the create/edit wizard (with its step picker sheet) and the player.
// Playback state flows in from the player controller's update channel;
// key presses flow out as controller commands.
package display

import (
	"context"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
	"github.com/hammamikhairi/coffeepad/internal/storage"
	"github.com/hammamikhairi/coffeepad/internal/wizard"
)

// Service is what the UI needs from the application engine.
type Service interface {
	List(ctx context.Context, order domain.SortOrder) ([]domain.BrewMethod, error)
	Stats(ctx context.Context) (storage.Stats, error)
	Save(ctx context.Context, w *wizard.Wizard) (domain.BrewMethod, error)
	Delete(ctx context.Context, id int64) error
	AddSamples(ctx context.Context) (int, error)
	NewPlayback(ctx context.Context, id int64) (*domain.BrewMethod, *player.Controller, error)
}

// Option configures the UI.
type Option func(*options)

type options struct {
	notifier   domain.Notifier
	almostDone int
	altScreen  bool
	iconSize   int
}

// WithNotifier also sends brew cues to n (for example a speaking notifier).
func WithNotifier(n domain.Notifier) Option {
	return func(c *options) { c.notifier = n }
}

// WithAlmostDone sets the "almost done" warning threshold in seconds.
func WithAlmostDone(secs int) Option {
	return func(c *options) { c.almostDone = secs }
}

// WithAltScreen runs the UI in the terminal's alternate screen.
func WithAltScreen(on bool) Option {
	return func(c *options) { c.altScreen = on }
}

// WithIconSize sets the side of icons loaded from image files.
func WithIconSize(px int) Option {
	return func(c *options) {
		if px > 0 {
			c.iconSize = px
		}
	}
}

// Run starts the UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, svc Service, log *logger.Logger, opts ...Option) error {
	m := NewModel(ctx, svc, log, opts...)
	var popts []tea.ProgramOption
	popts = append(popts, tea.WithContext(ctx))
	if m.cfg.altScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	final, err := tea.NewProgram(m, popts...).Run()
	if fm, ok := final.(Model); ok {
		fm.closePlayer()
	}
	return err
}

// ── Root model ───────────────────────────────────────────────────

type screen int

const (
	screenList screen = iota
	screenDetail
	screenWizard
	screenPlayer
)

// Model is the root Bubble Tea model.
type Model struct {
	ctx context.Context
	svc Service
	log *logger.Logger
	cfg options

	screen screen
	width  int
	height int
	flash  string // one-line status message, cleared on the next key

	list   listView
	detail detailView
	wiz    *wizardView
	play   *playerView
}

// NewModel builds the root model showing the method list.
func NewModel(ctx context.Context, svc Service, log *logger.Logger, opts ...Option) Model {
	cfg := options{almostDone: 5, altScreen: true, iconSize: 300}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := Model{ctx: ctx, svc: svc, log: log, cfg: cfg, width: 80}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("CoffeePad")
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.play != nil {
			m.play.resize(msg.Width)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.closePlayer()
			return m, tea.Quit
		}
		m.flash = ""

	case snapshotMsg:
		if m.play == nil || m.play.ctrl != msg.ctrl {
			return m, nil
		}
		m.play.observe(m.ctx, msg.snap)
		return m, tea.Batch(waitSnapshot(msg.ctrl), tea.SetWindowTitle(m.play.windowTitle()))

	case playerClosedMsg:
		return m, nil
	}

	switch m.screen {
	case screenList:
		return m.updateList(msg)
	case screenDetail:
		return m.updateDetail(msg)
	case screenWizard:
		return m.updateWizard(msg)
	case screenPlayer:
		return m.updatePlayer(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenList:
		body = m.viewList()
	case screenDetail:
		body = m.viewDetail()
	case screenWizard:
		body = m.viewWizard()
	case screenPlayer:
		body = m.viewPlayer()
	}
	var b strings.Builder
	b.WriteString(body)
	if m.flash != "" {
		b.WriteString("\n")
		b.WriteString(urgentStyle.Render("  " + m.flash))
	}
	b.WriteString("\n")
	return b.String()
}

// reload refreshes the list and header counters from the service.
func (m *Model) reload() {
	methods, err := m.svc.List(m.ctx, m.list.order)
	if err != nil {
		m.log.Error("listing methods: %v", err)
		m.flash = "Could not load methods."
		methods = nil
	}
	stats, err := m.svc.Stats(m.ctx)
	if err != nil {
		m.log.Error("method stats: %v", err)
	}
	m.list.methods = methods
	m.list.stats = stats
	if m.list.cursor >= len(methods) {
		m.list.cursor = max(0, len(methods)-1)
	}
}

// closePlayer stops any running playback.
func (m *Model) closePlayer() {
	if m.play != nil {
		m.play.ctrl.Stop()
		m.play = nil
	}
}

// ── Cue sink ─────────────────────────────────────────────────────

// cueLog is the notifier the announcer writes to inside the TUI: it keeps
// the latest lines for the player view and forwards to an optional
// outer notifier.
type cueLog struct {
	mu    sync.Mutex
	lines []cueLine
	next  domain.Notifier
}

type cueLine struct {
	text   string
	urgent bool
}

var _ domain.Notifier = (*cueLog)(nil)

func (c *cueLog) Notify(ctx context.Context, msg string) error {
	c.add(msg, false)
	if c.next != nil {
		return c.next.Notify(ctx, msg)
	}
	return nil
}

func (c *cueLog) NotifyUrgent(ctx context.Context, msg string) error {
	c.add(msg, true)
	if c.next != nil {
		return c.next.NotifyUrgent(ctx, msg)
	}
	return nil
}

func (c *cueLog) add(msg string, urgent bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, cueLine{text: msg, urgent: urgent})
	if len(c.lines) > 3 {
		c.lines = c.lines[len(c.lines)-3:]
	}
}

func (c *cueLog) recent() []cueLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]cueLine(nil), c.lines...)
}

// ── Key helpers ──────────────────────────────────────────────────

func isKey(msg tea.KeyMsg, names ...string) bool {
	s := msg.String()
	for _, n := range names {
		if s == n {
			return true
		}
	}
	return false
}
