package catalog

import (
	"testing"

	"github.com/hammamikhairi/coffeepad/internal/domain"
)

func setupSelection(t *testing.T) *Selection {
	t.Helper()
	s := NewSelection()
	n := 0
	s.newID = func() string {
		n++
		return "step-" + string(rune('0'+n))
	}
	return s
}

func TestParsePositive(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"60", 60, true},
		{" 45 ", 45, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"12.5", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePositive(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePositive(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestImmediateAddForInputlessKinds(t *testing.T) {
	for _, kind := range []domain.StepKind{domain.KindRemoveDripper, domain.KindEmptyServer} {
		s := setupSelection(t)
		step, added := s.Choose(kind)
		if !added {
			t.Fatalf("%v: expected immediate add", kind)
		}
		if step.Kind != kind || step.Weight != 0 || step.Seconds != 0 {
			t.Errorf("%v: unexpected step %+v", kind, step)
		}
		if s.Stage() != StagePickKind {
			t.Errorf("%v: picker should reset, stage = %v", kind, s.Stage())
		}
	}
}

func TestPourFlowRequiresTechniqueThenBothFields(t *testing.T) {
	s := setupSelection(t)

	if _, added := s.Choose(domain.KindPourWater); added {
		t.Fatal("pour water must not be added immediately")
	}
	if s.Stage() != StagePickSubOption {
		t.Fatalf("stage = %v, want pick_sub_option", s.Stage())
	}
	if s.CanAdd() {
		t.Error("CanAdd should be false before a technique is picked")
	}
	if s.ChooseSubOption("Zigzag") {
		t.Error("unknown technique should be rejected")
	}
	if !s.ChooseSubOption("Small circles") {
		t.Fatal("known technique rejected")
	}

	s.WeightText = "60"
	if s.CanAdd() {
		t.Error("CanAdd should need the time too")
	}
	s.TimeText = "0"
	if s.CanAdd() {
		t.Error("zero time must not enable add")
	}
	if _, ok := s.Add(); ok {
		t.Error("Add should be a no-op while CanAdd is false")
	}
	s.TimeText = "30"
	if !s.CanAdd() {
		t.Fatal("CanAdd should be true with 60 g / 30 s")
	}

	step, ok := s.Add()
	if !ok {
		t.Fatal("Add failed")
	}
	if step.SubOption != "Small circles" || step.Weight != 60 || step.Seconds != 30 {
		t.Errorf("unexpected step %+v", step)
	}
	if step.ID == "" {
		t.Error("step should get an id")
	}
	if s.Stage() != StagePickKind {
		t.Error("picker should reset after add")
	}
}

func TestSingleFieldKinds(t *testing.T) {
	tests := []struct {
		kind       domain.StepKind
		weight     string
		time       string
		wantAdd    bool
		wantWeight int
		wantSecs   int
	}{
		{domain.KindAddIce, "80", "", true, 80, 0},
		{domain.KindAddIce, "", "30", false, 0, 0},
		{domain.KindWait, "", "15", true, 0, 15},
		{domain.KindWait, "999", "-1", false, 0, 0},
	}
	for _, tt := range tests {
		s := setupSelection(t)
		s.Choose(tt.kind)
		if s.Stage() != StageDetail {
			t.Fatalf("%v: stage = %v, want detail", tt.kind, s.Stage())
		}
		s.WeightText, s.TimeText = tt.weight, tt.time
		step, ok := s.Add()
		if ok != tt.wantAdd {
			t.Fatalf("%v: Add ok = %v, want %v", tt.kind, ok, tt.wantAdd)
		}
		if ok && (step.Weight != tt.wantWeight || step.Seconds != tt.wantSecs) {
			t.Errorf("%v: got weight=%d secs=%d", tt.kind, step.Weight, step.Seconds)
		}
	}
}

func TestBackWalksStages(t *testing.T) {
	s := setupSelection(t)
	s.Choose(domain.KindStir)
	s.ChooseSubOption("Stir with a spoon")
	s.TimeText = "10"

	if !s.Back() || s.Stage() != StagePickSubOption {
		t.Fatalf("back from detail should return to techniques, stage = %v", s.Stage())
	}
	if s.TimeText != "" || s.SubOption() != "" {
		t.Error("back should clear detail input")
	}
	if !s.Back() || s.Stage() != StagePickKind {
		t.Fatalf("back from techniques should return to catalog")
	}
	if s.Back() {
		t.Error("back from catalog should report false")
	}

	s.Choose(domain.KindWait)
	if !s.Back() || s.Stage() != StagePickKind {
		t.Error("back from detail without techniques should return to catalog")
	}
}
