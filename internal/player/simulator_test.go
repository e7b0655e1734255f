package player

import (
	"testing"

	"github.com/hammamikhairi/coffeepad/internal/domain"
)

func pour(weight, secs int) domain.BrewStep {
	return domain.BrewStep{Kind: domain.KindPourWater, Title: "Pour water", Weight: weight, Seconds: secs}
}

func wait(secs int) domain.BrewStep {
	return domain.BrewStep{Kind: domain.KindWait, Title: "Wait", Seconds: secs}
}

func ice(weight int) domain.BrewStep {
	return domain.BrewStep{Kind: domain.KindAddIce, Title: "Add ice", Weight: weight}
}

func removeDripper() domain.BrewStep {
	return domain.BrewStep{Kind: domain.KindRemoveDripper, Title: "Remove the dripper"}
}

func TestInitialState(t *testing.T) {
	s := NewSimulator([]domain.BrewStep{pour(60, 30)})
	st := s.State()
	if st.Status != StatusIdle || st.StepIndex != 0 || st.TotalWeight != 0 || st.TotalElapsed != 0 {
		t.Errorf("unexpected initial state %+v", st)
	}
	if !s.CanPlay() || s.CanPrevious() || !s.CanNext() {
		t.Error("unexpected affordances on first timed step")
	}
}

func TestEmptyStepListIsCompleted(t *testing.T) {
	s := NewSimulator(nil)
	if !s.State().Completed() {
		t.Fatal("empty method should start completed")
	}
	if s.Play() || s.Next() || s.Previous() || s.Tick() {
		t.Error("every command should be a no-op")
	}
}

func TestExampleScenario(t *testing.T) {
	s := NewSimulator([]domain.BrewStep{pour(60, 30), wait(15)})
	if !s.Play() {
		t.Fatal("Play failed")
	}

	for i := 1; i <= 29; i++ {
		if s.Tick() {
			t.Fatalf("advanced early at tick %d", i)
		}
	}
	if w := s.State().TotalWeight; w != 58 {
		t.Errorf("weight at tick 29 = %d, want 58", w)
	}

	if !s.Tick() {
		t.Fatal("expected auto-advance at tick 30")
	}
	st := s.State()
	if st.StepIndex != 1 || st.TotalWeight != 60 || st.TotalElapsed != 30 || st.StepElapsed != 0 {
		t.Fatalf("after tick 30: %+v", st)
	}
	if !st.Playing() {
		t.Fatal("should keep playing into a timed step")
	}

	for i := 31; i <= 45; i++ {
		s.Tick()
	}
	st = s.State()
	if !st.Completed() {
		t.Fatalf("expected completed at tick 45, got %+v", st)
	}
	if st.TotalElapsed != 45 || st.TotalWeight != 60 || st.StepIndex != 2 {
		t.Errorf("final state %+v", st)
	}
	if s.Tick() {
		t.Error("ticks after completion are ignored")
	}
	if s.State().TotalElapsed != 45 {
		t.Error("elapsed must not grow after completion")
	}
}

func TestWeightInterpolation(t *testing.T) {
	const prior, w, d = 50, 100, 30
	s := NewSimulator([]domain.BrewStep{ice(prior), pour(w, d)})
	s.Next()
	s.Play()

	prev := s.State().TotalWeight
	for tick := 1; tick <= d; tick++ {
		s.Tick()
		got := s.State().TotalWeight
		want := prior + w*tick/d
		if got != want {
			t.Fatalf("tick %d weight = %d, want %d", tick, got, want)
		}
		if got < prev {
			t.Fatalf("weight decreased at tick %d", tick)
		}
		prev = got
	}
	if prev != prior+w {
		t.Errorf("weight at t=D = %d, want %d", prev, prior+w)
	}
}

func TestAutoAdvanceExactlyAtDuration(t *testing.T) {
	for _, d := range []int{1, 2, 7, 45} {
		s := NewSimulator([]domain.BrewStep{wait(d), wait(5)})
		s.Play()
		for tick := 1; tick < d; tick++ {
			if s.Tick() {
				t.Fatalf("d=%d advanced at tick %d", d, tick)
			}
		}
		if !s.Tick() || s.State().StepIndex != 1 {
			t.Fatalf("d=%d did not advance at tick %d", d, d)
		}
	}
}

func TestUntimedStepForcesIdle(t *testing.T) {
	s := NewSimulator([]domain.BrewStep{pour(60, 2), removeDripper(), wait(5)})
	s.Play()
	s.Tick()
	s.Tick()

	st := s.State()
	if st.StepIndex != 1 || st.Status != StatusIdle {
		t.Fatalf("expected idle on untimed step, got %+v", st)
	}
	if s.CanPlay() || s.Play() {
		t.Error("untimed step must offer no play")
	}
	before := s.State()
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if s.State() != before {
		t.Error("ticks must not change an untimed step")
	}
}

func TestNeutralStepLeavesAccumulators(t *testing.T) {
	s := NewSimulator([]domain.BrewStep{removeDripper()})
	before := s.State()
	for i := 0; i < 5; i++ {
		s.Toggle()
		s.Tick()
	}
	if s.State() != before {
		t.Errorf("state changed: %+v -> %+v", before, s.State())
	}
}

func TestManualNextSnapsWeight(t *testing.T) {
	s := NewSimulator([]domain.BrewStep{pour(60, 30), pour(120, 45), wait(10)})
	s.Play()
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	s.Next()
	st := s.State()
	if st.StepIndex != 1 || st.TotalWeight != 60 || st.StepElapsed != 0 || st.TotalElapsed != 10 {
		t.Errorf("after manual next: %+v", st)
	}
	if !st.Playing() {
		t.Error("manual next should keep playing into a timed step")
	}
}

func TestPreviousSeeksToStepEnd(t *testing.T) {
	steps := []domain.BrewStep{pour(60, 30), pour(120, 45), wait(15)}
	s := NewSimulator(steps)
	s.Next()
	s.Next()
	s.Previous()

	st := s.State()
	if st.StepIndex != 1 || st.TotalWeight != 180 || st.TotalElapsed != 75 || st.StepElapsed != 45 {
		t.Errorf("after previous: %+v", st)
	}
	if st.Status != StatusIdle {
		t.Error("previous while idle stays idle")
	}
}

func TestPreviousWhilePlayingKeepsPlaying(t *testing.T) {
	s := NewSimulator([]domain.BrewStep{wait(10), wait(10)})
	s.Play()
	s.Next()
	s.Previous()
	if !s.State().Playing() {
		t.Error("previous onto a timed step while playing keeps playing")
	}
	// The step is seeked to its end, so the next tick advances again.
	if !s.Tick() || s.State().StepIndex != 1 {
		t.Errorf("expected re-advance, got %+v", s.State())
	}
}

// finishStep plays a timed step to its end or skips an untimed one.
func finishStep(s *Simulator) {
	cur, ok := s.Current()
	if !ok {
		return
	}
	if !cur.Timed() {
		s.Next()
		return
	}
	s.Play()
	idx := s.State().StepIndex
	for s.State().StepIndex == idx {
		s.Tick()
	}
}

func TestPreviousAfterNextRestoresForwardTotals(t *testing.T) {
	steps := []domain.BrewStep{pour(60, 30), wait(10), ice(40), pour(100, 20), wait(5)}
	for i := 0; i < len(steps); i++ {
		s := NewSimulator(steps)
		for s.State().StepIndex <= i {
			finishStep(s)
		}
		forward := s.State()

		s.Previous()
		back := s.State()
		if back.StepIndex != i {
			t.Fatalf("i=%d: index = %d", i, back.StepIndex)
		}
		if back.TotalWeight != forward.TotalWeight {
			t.Errorf("i=%d: weight %d, forward %d", i, back.TotalWeight, forward.TotalWeight)
		}
		if back.TotalElapsed != forward.TotalElapsed {
			t.Errorf("i=%d: elapsed %d, forward %d", i, back.TotalElapsed, forward.TotalElapsed)
		}
	}
}

func TestBoundsAreNoOps(t *testing.T) {
	s := NewSimulator([]domain.BrewStep{wait(5), wait(5)})
	if s.Previous() {
		t.Error("previous on first step must be a no-op")
	}
	s.Next()
	s.Next()
	if !s.State().Completed() {
		t.Fatal("next on last step completes")
	}
	if s.Next() || s.CanNext() {
		t.Error("next after completion must be a no-op")
	}
	if !s.CanPrevious() {
		t.Error("previous should be possible after completion")
	}
	s.Previous()
	st := s.State()
	if st.StepIndex != 1 || st.Status != StatusIdle || st.TotalElapsed != 10 {
		t.Errorf("previous from completed: %+v", st)
	}
}

func TestPauseKeepsCounters(t *testing.T) {
	s := NewSimulator([]domain.BrewStep{pour(60, 30)})
	s.Toggle()
	s.Tick()
	s.Tick()
	s.Toggle()
	before := s.State()
	s.Tick()
	if s.State() != before {
		t.Error("paused simulator must ignore ticks")
	}
	if before.Status != StatusIdle || before.StepElapsed != 2 || before.TotalWeight != 4 {
		t.Errorf("paused state %+v", before)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatClock(125); got != "02:05" {
		t.Errorf("FormatClock = %q", got)
	}
	if got := Remaining(10, 45); got != "-00:35" {
		t.Errorf("Remaining = %q", got)
	}
	if got := Progress(50, 30); got != 1 {
		t.Errorf("Progress clamp = %v", got)
	}
	if got := Progress(3, 0); got != 0 {
		t.Errorf("Progress untimed = %v", got)
	}
}
