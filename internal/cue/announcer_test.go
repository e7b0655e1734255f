package cue

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
)

// collectingNotifier captures messages for assertions.
type collectingNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (n *collectingNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *collectingNotifier) NotifyUrgent(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urgent = append(n.urgent, msg)
	return nil
}

func (n *collectingNotifier) all() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return strings.Join(n.messages, "\n") + "\n" + strings.Join(n.urgent, "\n")
}

var testSteps = []domain.BrewStep{
	{Kind: domain.KindPourWater, Title: "Pour water", SubOption: "Small circles", Weight: 60, Seconds: 30, Comment: "Bloom"},
	{Kind: domain.KindWait, Title: "Wait", Seconds: 15},
	{Kind: domain.KindRemoveDripper, Title: "Remove the dripper"},
}

func snap(sim *player.Simulator) player.Snapshot {
	step, _ := sim.Current()
	return player.Snapshot{State: sim.State(), Step: step, CanPlay: sim.CanPlay()}
}

func setupAnnouncer(t *testing.T, opts ...Option) (*Announcer, *collectingNotifier, *player.Simulator) {
	t.Helper()
	n := &collectingNotifier{}
	a := NewAnnouncer("Morning V60", testSteps, n, logger.New(logger.LevelOff, nil), opts...)
	return a, n, player.NewSimulator(testSteps)
}

func TestAnnouncerWalksThroughMethod(t *testing.T) {
	a, n, sim := setupAnnouncer(t)
	ctx := context.Background()

	a.Observe(ctx, snap(sim))
	if got := n.all(); !strings.Contains(got, "Morning V60. 3 steps.") ||
		!strings.Contains(got, "Step 1 of 3. Pour, small circles, 60 grams over 30 seconds. Bloom.") {
		t.Fatalf("unexpected opening lines:\n%s", got)
	}

	sim.Play()
	for i := 0; i < 45; i++ {
		sim.Tick()
		a.Observe(ctx, snap(sim))
	}
	got := n.all()
	if !strings.Contains(got, "Step 2 of 3. Wait for 15 seconds.") {
		t.Errorf("missing wait step:\n%s", got)
	}
	if !strings.Contains(got, "5 seconds left. Next: wait.") {
		t.Errorf("missing almost-done warning for the pour:\n%s", got)
	}
	if !strings.Contains(got, "Step 3 of 3. Remove the dripper. Say next when you're done.") {
		t.Errorf("missing untimed step:\n%s", got)
	}

	sim.Next()
	a.Observe(ctx, snap(sim))
	if len(n.urgent) == 0 || n.urgent[len(n.urgent)-1] != "Done. 60 grams in 45 seconds. Enjoy." {
		t.Errorf("unexpected completion line: %v", n.urgent)
	}
}

func TestAnnouncerWarnsOncePerStep(t *testing.T) {
	a, n, sim := setupAnnouncer(t, WithAlmostDone(10))
	ctx := context.Background()
	a.Observe(ctx, snap(sim))
	sim.Play()
	for i := 0; i < 25; i++ {
		sim.Tick()
		a.Observe(ctx, snap(sim))
	}
	count := 0
	for _, u := range n.urgent {
		if strings.Contains(u, "left.") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one warning, got %d: %v", count, n.urgent)
	}
}

func TestAnnouncerSkipsShortSteps(t *testing.T) {
	a, n, sim := setupAnnouncer(t, WithAlmostDone(20))
	ctx := context.Background()
	a.Observe(ctx, snap(sim))
	sim.Play()
	for i := 0; i < 29; i++ {
		sim.Tick()
		a.Observe(ctx, snap(sim))
	}
	if len(n.urgent) != 0 {
		t.Errorf("30s step is shorter than twice the 20s threshold, got %v", n.urgent)
	}
}

func TestAnnouncerPauseLines(t *testing.T) {
	a, n, sim := setupAnnouncer(t, WithPauseLines(true), WithAlmostDone(0))
	ctx := context.Background()
	a.Observe(ctx, snap(sim))
	sim.Play()
	a.Observe(ctx, snap(sim))
	sim.Pause()
	a.Observe(ctx, snap(sim))
	got := n.all()
	if !strings.Contains(got, "Go.") || !strings.Contains(got, "Paused.") {
		t.Errorf("missing pause lines:\n%s", got)
	}
}

func TestFormatSecondsSpeech(t *testing.T) {
	tests := map[int]string{
		1:   "1 second",
		45:  "45 seconds",
		60:  "1 minute",
		75:  "1 minute 15",
		180: "3 minutes",
		190: "3 minutes 10",
	}
	for in, want := range tests {
		if got := FormatSecondsSpeech(in); got != want {
			t.Errorf("FormatSecondsSpeech(%d) = %q, want %q", in, got, want)
		}
	}
}
