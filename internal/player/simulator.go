// Package player runs a brew method step by step against a one-second
// clock. Simulator is the pure state machine; Controller owns a Simulator
// plus the single ticker that drives it.
package player

import (
	"fmt"

	"github.com/hammamikhairi/coffeepad/internal/domain"
)

// Status is the playback lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusCompleted
)

// String returns a human-readable status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// State is a snapshot of playback. StepIndex equals StepCount once the
// method is completed.
type State struct {
	StepIndex    int
	StepCount    int
	StepElapsed  int // seconds into the current step
	TotalElapsed int // seconds since the method started
	TotalWeight  int // grams poured so far
	Status       Status
}

// Playing reports whether the clock is running.
func (s State) Playing() bool { return s.Status == StatusPlaying }

// Completed reports whether the method has run past its last step.
func (s State) Completed() bool { return s.Status == StatusCompleted }

func (s State) String() string {
	return fmt.Sprintf("step %d/%d %s elapsed=%ds total=%ds weight=%dg",
		s.StepIndex+1, s.StepCount, s.Status, s.StepElapsed, s.TotalElapsed, s.TotalWeight)
}

// Simulator applies tick, next, previous and play/pause to a step list.
// It never fails: commands that do not apply in the current state are
// no-ops. Simulator is not safe for concurrent use; Controller serializes
// access to it.
type Simulator struct {
	steps []domain.BrewStep
	st    State
}

// NewSimulator starts at the first step, idle, with nothing poured. An
// empty step list is completed from the start.
func NewSimulator(steps []domain.BrewStep) *Simulator {
	s := &Simulator{
		steps: append([]domain.BrewStep(nil), steps...),
		st:    State{StepCount: len(steps)},
	}
	if len(steps) == 0 {
		s.st.Status = StatusCompleted
	}
	return s
}

// State returns the current snapshot.
func (s *Simulator) State() State { return s.st }

// Steps returns the step list being played.
func (s *Simulator) Steps() []domain.BrewStep { return s.steps }

// Current returns the active step. ok is false once completed.
func (s *Simulator) Current() (domain.BrewStep, bool) {
	if s.st.StepIndex < 0 || s.st.StepIndex >= len(s.steps) {
		return domain.BrewStep{}, false
	}
	return s.steps[s.st.StepIndex], true
}

// CanPlay reports whether play/pause applies: the active step is timed.
func (s *Simulator) CanPlay() bool {
	cur, ok := s.Current()
	return ok && cur.Timed()
}

// CanPrevious reports whether Previous would move.
func (s *Simulator) CanPrevious() bool { return s.st.StepIndex > 0 }

// CanNext reports whether Next applies. On the last step Next completes
// the method; after completion it does nothing.
func (s *Simulator) CanNext() bool { return s.st.Status != StatusCompleted }

// Play starts the clock on a timed step. It reports whether the status
// changed.
func (s *Simulator) Play() bool {
	if s.st.Status != StatusIdle || !s.CanPlay() {
		return false
	}
	s.st.Status = StatusPlaying
	return true
}

// Pause stops the clock without touching the counters.
func (s *Simulator) Pause() bool {
	if s.st.Status != StatusPlaying {
		return false
	}
	s.st.Status = StatusIdle
	return true
}

// Toggle flips between Play and Pause.
func (s *Simulator) Toggle() bool {
	if s.st.Status == StatusPlaying {
		return s.Pause()
	}
	return s.Play()
}

// Tick advances the clock by one second. It reports whether the tick
// moved playback to another step (or to completion).
func (s *Simulator) Tick() (advanced bool) {
	if s.st.Status != StatusPlaying {
		return false
	}
	cur, ok := s.Current()
	if !ok {
		return false
	}

	s.st.StepElapsed++
	s.st.TotalElapsed++

	if cur.HasWeight() && cur.Timed() {
		done := min(s.st.StepElapsed, cur.Seconds)
		s.st.TotalWeight = s.weightBefore(s.st.StepIndex) + cur.Weight*done/cur.Seconds
	}

	if cur.Timed() && s.st.StepElapsed >= cur.Seconds {
		s.Next()
		return true
	}
	return false
}

// Next finishes the active step and moves on. The weight total snaps to
// include the whole step, the step clock resets, and playback keeps
// running only if the new step is timed. On the last step Next completes
// the method.
func (s *Simulator) Next() bool {
	if s.st.Status == StatusCompleted {
		return false
	}
	last := len(s.steps) - 1
	if s.st.StepIndex >= last {
		s.st.StepIndex = len(s.steps)
		s.st.StepElapsed = 0
		s.st.Status = StatusCompleted
		return true
	}

	cur := s.steps[s.st.StepIndex]
	if cur.HasWeight() {
		s.st.TotalWeight = s.weightBefore(s.st.StepIndex) + cur.Weight
	}
	s.st.StepIndex++
	s.st.StepElapsed = 0
	if !s.steps[s.st.StepIndex].Timed() {
		s.st.Status = StatusIdle
	}
	return true
}

// Previous moves back one step and seeks to its end: totals become the
// sums over every step up to and including it, and the step clock reads
// the full step duration.
func (s *Simulator) Previous() bool {
	if s.st.StepIndex <= 0 {
		return false
	}
	wasPlaying := s.st.Status == StatusPlaying
	s.st.StepIndex--

	cur := s.steps[s.st.StepIndex]
	s.st.TotalElapsed = s.timeBefore(s.st.StepIndex) + cur.Seconds
	s.st.StepElapsed = cur.Seconds
	s.st.TotalWeight = s.weightBefore(s.st.StepIndex) + cur.Weight

	switch {
	case !cur.Timed():
		s.st.Status = StatusIdle
	case wasPlaying:
		s.st.Status = StatusPlaying
	default:
		s.st.Status = StatusIdle
	}
	return true
}

func (s *Simulator) weightBefore(i int) int {
	total := 0
	for _, st := range s.steps[:i] {
		total += st.Weight
	}
	return total
}

func (s *Simulator) timeBefore(i int) int {
	total := 0
	for _, st := range s.steps[:i] {
		total += st.Seconds
	}
	return total
}
