package display

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/engine"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
	"github.com/hammamikhairi/coffeepad/internal/storage"
	"github.com/hammamikhairi/coffeepad/internal/wizard"
)

func setupModel(t *testing.T) (Model, *engine.Engine) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	repo := storage.NewMethodRepository(storage.NewMemoryKV(log), log)
	now := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.Local)
	eng := engine.New(repo, log,
		engine.WithNow(func() time.Time { return now }),
		engine.WithPlayerOptions(player.WithClock(player.NewManualClock())),
	)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewModel(ctx, eng, log), eng
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys through Update in order.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

// typeText feeds each rune as its own key press.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestWizardGatesNextOnEachScreen(t *testing.T) {
	m, _ := setupModel(t)
	m = press(t, m, "n")
	if m.screen != screenWizard {
		t.Fatalf("screen = %d, want wizard", m.screen)
	}

	// Empty name: enter does nothing.
	m = press(t, m, "enter")
	if m.wiz.w.Screen() != wizard.ScreenName {
		t.Fatal("empty name should not proceed")
	}
	m = typeText(t, m, "Morning")
	m = press(t, m, "enter")
	if m.wiz.w.Screen() != wizard.ScreenGrind {
		t.Fatalf("screen = %s, want grind", m.wiz.w.Screen().Title())
	}

	m = press(t, m, "down", "enter") // Coarse
	if m.wiz.w.Grind != "Coarse" {
		t.Errorf("grind = %q", m.wiz.w.Grind)
	}

	m = typeText(t, m, "1x")
	m = press(t, m, "enter")
	if m.wiz.w.Screen() != wizard.ScreenDose {
		t.Fatal("non-integer dose should not proceed")
	}
	m.wiz.w.Dose = ""
	m.wiz.input.SetValue("")
	m = typeText(t, m, "15")
	m = press(t, m, "enter")
	m = typeText(t, m, "93")
	m = press(t, m, "enter")
	if m.wiz.w.Screen() != wizard.ScreenSteps {
		t.Fatalf("screen = %s, want steps", m.wiz.w.Screen().Title())
	}

	// No steps yet.
	m = press(t, m, "enter")
	if m.wiz.w.Screen() != wizard.ScreenSteps {
		t.Fatal("empty step list should not proceed")
	}
}

func TestStepSheetAddsSteps(t *testing.T) {
	m, _ := setupModel(t)
	m.openWizard(wizard.New())
	m.wiz.w.Name, m.wiz.w.Dose, m.wiz.w.WaterTemp = "x", "15", "93"
	for m.wiz.w.Screen() != wizard.ScreenSteps {
		m = press(t, m, "enter")
	}

	// "Remove the dripper" has no inputs: added straight away.
	m = press(t, m, "a")
	for i := 0; i < 4; i++ {
		m = press(t, m, "down")
	}
	m = press(t, m, "enter")
	if m.wiz.sheet != nil || len(m.wiz.w.Steps) != 1 || m.wiz.w.Steps[0].Kind != domain.KindRemoveDripper {
		t.Fatalf("steps = %+v", m.wiz.w.Steps)
	}

	// Pour water: technique, then grams and seconds.
	m = press(t, m, "a", "enter", "down", "enter")
	if m.wiz.sheet == nil {
		t.Fatal("sheet closed early")
	}
	m = press(t, m, "enter") // nothing typed: add stays disabled
	if len(m.wiz.w.Steps) != 1 {
		t.Fatal("step added without weight and time")
	}
	m = typeText(t, m, "60")
	m = press(t, m, "tab")
	m = typeText(t, m, "30")
	m = press(t, m, "enter")
	if len(m.wiz.w.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(m.wiz.w.Steps))
	}
	got := m.wiz.w.Steps[1]
	if got.Kind != domain.KindPourWater || got.SubOption != "Small circles" || got.Weight != 60 || got.Seconds != 30 {
		t.Errorf("pour step = %+v", got)
	}

	// Move the pour above the dripper removal.
	m = press(t, m, "K")
	if m.wiz.w.Steps[0].Kind != domain.KindPourWater {
		t.Error("move up did not reorder")
	}
}

func TestWizardSavesAndOpensDetail(t *testing.T) {
	m, eng := setupModel(t)
	m.openWizard(wizard.New())
	w := m.wiz.w
	w.Name, w.Dose, w.WaterTemp = "Saved", "18", "94"
	w.AddStep(domain.BrewStep{ID: "a", Kind: domain.KindWait, Title: "Wait", Seconds: 30})
	for w.Screen() != wizard.ScreenConfirm {
		m = press(t, m, "enter")
	}
	m = press(t, m, "enter")

	if m.screen != screenDetail || m.detail.method.Title != "Saved" {
		t.Fatalf("screen=%d detail=%q", m.screen, m.detail.method.Title)
	}
	all, _ := eng.List(context.Background(), domain.SortNewest)
	if len(all) != 1 {
		t.Fatalf("stored %d methods", len(all))
	}
	if len(m.list.methods) != 1 || m.list.stats.Total != 1 {
		t.Error("list not reloaded after save")
	}
}

func TestListDeleteNeedsConfirmation(t *testing.T) {
	m, eng := setupModel(t)
	m = press(t, m, "s")
	n := len(m.list.methods)
	if n == 0 {
		t.Fatal("samples not added")
	}

	m = press(t, m, "d", "n")
	if len(m.list.methods) != n {
		t.Fatal("delete without confirmation")
	}
	m = press(t, m, "d", "y")
	if len(m.list.methods) != n-1 {
		t.Fatalf("methods = %d, want %d", len(m.list.methods), n-1)
	}
	all, _ := eng.List(context.Background(), domain.SortNewest)
	if len(all) != n-1 {
		t.Error("store not updated")
	}
}

func TestPlayerControls(t *testing.T) {
	m, eng := setupModel(t)
	ctx := context.Background()
	meth, err := eng.Add(ctx, domain.BrewMethod{Title: "Two steps", Steps: []domain.BrewStep{
		{ID: "1", Kind: domain.KindPourWater, Title: "Pour water", SubOption: "Small circles", Weight: 60, Seconds: 30},
		{ID: "2", Kind: domain.KindRemoveDripper, Title: "Remove the dripper"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	m.reload()
	m = press(t, m, "enter")
	if m.screen != screenDetail || m.detail.method.ID != meth.ID {
		t.Fatal("detail not opened")
	}
	m = press(t, m, "enter")
	if m.screen != screenPlayer || m.play == nil {
		t.Fatal("player not opened")
	}
	defer m.closePlayer()

	if !m.play.snap.CanPlay || m.play.snap.CanPrevious {
		t.Errorf("first step controls = %+v", m.play.snap)
	}
	if !strings.Contains(m.View(), "[space]") {
		t.Error("timed step should offer play")
	}

	m = press(t, m, "space")
	if !m.play.snap.Playing() {
		t.Fatal("space should start playback")
	}

	m = press(t, m, "right")
	s := m.play.snap
	if s.StepIndex != 1 || s.Playing() || s.TotalWeight != 60 {
		t.Fatalf("after next: %s", s.State)
	}
	if s.CanPlay || strings.Contains(m.View(), "[space]") {
		t.Error("untimed step must not offer play")
	}

	m = press(t, m, "right")
	if !m.play.snap.Completed() || m.play.snap.CanNext {
		t.Errorf("after last next: %s", m.play.snap.State)
	}

	m = press(t, m, "esc")
	if m.screen != screenDetail || m.play != nil {
		t.Error("esc should leave the player")
	}
}

func TestPlayerRefusesEmptyMethod(t *testing.T) {
	m, eng := setupModel(t)
	meth, err := eng.Add(context.Background(), domain.BrewMethod{Title: "Empty"})
	if err != nil {
		t.Fatal(err)
	}
	next, _ := m.openPlayer(meth.ID)
	m = next.(Model)
	if m.screen == screenPlayer || m.flash == "" {
		t.Error("empty method should not open the player")
	}
}

func TestRenderBannerCentres(t *testing.T) {
	out := RenderBanner(200)
	first := strings.SplitN(out, "\n", 2)[0]
	if !strings.HasPrefix(first, strings.Repeat(" ", 40)) {
		t.Errorf("banner not centred: %q", first)
	}

	if narrow := RenderBanner(20); !strings.Contains(narrow, "CoffeePad") || strings.Count(narrow, "\n") != 1 {
		t.Errorf("narrow terminals should get the one-line name, got %q", narrow)
	}
}
