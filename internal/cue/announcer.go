package cue

import (
	"context"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
)

// Option configures the announcer.
type Option func(*Announcer)

// WithAlmostDone sets how many seconds before the end of a timed step the
// warning fires. Zero disables it.
func WithAlmostDone(secs int) Option {
	return func(a *Announcer) {
		a.almostDone = secs
	}
}

// WithPauseLines enables the short "Paused." / "Go." acknowledgements.
func WithPauseLines(on bool) Option {
	return func(a *Announcer) {
		a.pauseLines = on
	}
}

// Announcer watches consecutive snapshots and decides what to say.
// Observe must be called from one goroutine at a time.
type Announcer struct {
	title      string
	steps      []domain.BrewStep
	notifier   domain.Notifier
	log        *logger.Logger
	almostDone int
	pauseLines bool

	seen   bool
	last   player.Snapshot
	warned int // step index already warned, -1 if none
}

// NewAnnouncer creates an announcer for one playback of a method.
func NewAnnouncer(title string, steps []domain.BrewStep, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Announcer {
	a := &Announcer{
		title:      title,
		steps:      steps,
		notifier:   notifier,
		log:        log,
		almostDone: 5,
		warned:     -1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Observe compares snap with the previous snapshot and announces what
// changed.
func (a *Announcer) Observe(ctx context.Context, snap player.Snapshot) {
	prev, first := a.last, !a.seen
	a.last, a.seen = snap, true

	if first {
		a.say(ctx, LineMethodStart(a.title, snap.StepCount), false)
		if !snap.Completed() {
			a.announceStep(ctx, snap)
		}
		return
	}

	switch {
	case snap.Completed() && !prev.Completed():
		a.say(ctx, LineComplete(snap.TotalElapsed, snap.TotalWeight), true)
		return
	case snap.StepIndex != prev.StepIndex && !snap.Completed():
		a.announceStep(ctx, snap)
		return
	}

	if a.pauseLines && snap.StepIndex == prev.StepIndex {
		switch {
		case prev.Playing() && !snap.Playing():
			a.say(ctx, LinePaused(), false)
		case !prev.Playing() && snap.Playing():
			a.say(ctx, LineResumed(), false)
		}
	}

	a.maybeWarn(ctx, snap)
}

// Repeat announces the current step again.
func (a *Announcer) Repeat(ctx context.Context) {
	if !a.seen || a.last.Completed() {
		return
	}
	a.announceStep(ctx, a.last)
}

// Status announces where playback is.
func (a *Announcer) Status(ctx context.Context, snap player.Snapshot) {
	order := min(snap.StepIndex+1, snap.StepCount)
	a.say(ctx, LineStatus(order, snap.StepCount, snap.TotalWeight, snap.TotalElapsed, snap.Status.String()), false)
}

func (a *Announcer) announceStep(ctx context.Context, snap player.Snapshot) {
	a.warned = -1
	a.say(ctx, LineStep(snap.StepIndex+1, snap.StepCount, snap.Step), false)
}

// maybeWarn fires once per step, when the remaining time of a timed,
// playing step reaches the threshold. Steps shorter than twice the
// threshold are skipped.
func (a *Announcer) maybeWarn(ctx context.Context, snap player.Snapshot) {
	if a.almostDone <= 0 || !snap.Playing() || !snap.Step.Timed() {
		return
	}
	if a.warned == snap.StepIndex || snap.Step.Seconds < a.almostDone*2 {
		return
	}
	remaining := snap.Step.Seconds - snap.StepElapsed
	if remaining > a.almostDone || remaining <= 0 {
		return
	}
	a.warned = snap.StepIndex

	var next *domain.BrewStep
	if i := snap.StepIndex + 1; i < len(a.steps) {
		next = &a.steps[i]
	}
	a.say(ctx, LineAlmostDone(remaining, next), true)
}

func (a *Announcer) say(ctx context.Context, msg string, urgent bool) {
	var err error
	if urgent {
		err = a.notifier.NotifyUrgent(ctx, msg)
	} else {
		err = a.notifier.Notify(ctx, msg)
	}
	if err != nil {
		a.log.Error("cue: notify: %v", err)
	}
}
