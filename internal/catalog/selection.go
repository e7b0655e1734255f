package catalog

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/coffeepad/internal/domain"
)

// Stage is where the step picker currently is.
type Stage int

const (
	StagePickKind Stage = iota
	StagePickSubOption
	StageDetail
)

func (s Stage) String() string {
	switch s {
	case StagePickKind:
		return "pick_kind"
	case StagePickSubOption:
		return "pick_sub_option"
	case StageDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Selection walks the user from a catalog entry to a finished BrewStep.
// Invalid input never produces an error: the add action is simply not
// available until CanAdd reports true.
type Selection struct {
	stage      Stage
	def        Definition
	subOption  string
	WeightText string
	TimeText   string
	Comment    string

	newID func() string
}

// NewSelection starts a fresh picker.
func NewSelection() *Selection {
	return &Selection{newID: uuid.NewString}
}

// Stage returns the current stage.
func (s *Selection) Stage() Stage { return s.stage }

// Definition returns the chosen definition. ok is false before Choose.
func (s *Selection) Definition() (Definition, bool) {
	return s.def, s.stage != StagePickKind
}

// SubOption returns the chosen technique, if any.
func (s *Selection) SubOption() string { return s.subOption }

// Choose picks a catalog entry. When the entry has no techniques and no
// numeric inputs the step is complete at once and returned with added
// set; otherwise the picker moves to the next stage.
func (s *Selection) Choose(kind domain.StepKind) (step domain.BrewStep, added bool) {
	if s.stage != StagePickKind {
		return domain.BrewStep{}, false
	}
	d, ok := Lookup(kind)
	if !ok {
		return domain.BrewStep{}, false
	}
	s.def = d
	switch {
	case d.HasSubOptions():
		s.stage = StagePickSubOption
	case d.NeedsInput():
		s.stage = StageDetail
	default:
		step = s.build(0, 0)
		s.Reset()
		return step, true
	}
	return domain.BrewStep{}, false
}

// ChooseSubOption picks a technique and moves to detail input. Unknown
// labels are ignored.
func (s *Selection) ChooseSubOption(label string) bool {
	if s.stage != StagePickSubOption || !contains(s.def.SubOptions, label) {
		return false
	}
	s.subOption = label
	s.stage = StageDetail
	return true
}

// CanAdd reports whether every numeric field the definition requires
// parses to a positive integer.
func (s *Selection) CanAdd() bool {
	if s.stage != StageDetail {
		return false
	}
	if s.def.NeedsWeight {
		if _, ok := ParsePositive(s.WeightText); !ok {
			return false
		}
	}
	if s.def.NeedsTime {
		if _, ok := ParsePositive(s.TimeText); !ok {
			return false
		}
	}
	return true
}

// Add returns the finished step and resets the picker. ok is false (and
// nothing changes) while CanAdd is false.
func (s *Selection) Add() (step domain.BrewStep, ok bool) {
	if !s.CanAdd() {
		return domain.BrewStep{}, false
	}
	var weight, secs int
	if s.def.NeedsWeight {
		weight, _ = ParsePositive(s.WeightText)
	}
	if s.def.NeedsTime {
		secs, _ = ParsePositive(s.TimeText)
	}
	step = s.build(weight, secs)
	s.Reset()
	return step, true
}

// Back returns to the previous stage. From the first stage it reports
// false so the caller can close the picker.
func (s *Selection) Back() bool {
	switch s.stage {
	case StageDetail:
		s.WeightText, s.TimeText = "", ""
		if s.def.HasSubOptions() {
			s.subOption = ""
			s.stage = StagePickSubOption
			return true
		}
		s.Reset()
		return true
	case StagePickSubOption:
		s.Reset()
		return true
	default:
		return false
	}
}

// Reset returns the picker to the catalog list.
func (s *Selection) Reset() {
	s.stage = StagePickKind
	s.def = Definition{}
	s.subOption = ""
	s.WeightText, s.TimeText, s.Comment = "", "", ""
}

func (s *Selection) build(weight, secs int) domain.BrewStep {
	return domain.BrewStep{
		ID:        s.newID(),
		Kind:      s.def.Kind,
		Title:     s.def.Title,
		SubOption: s.subOption,
		Weight:    weight,
		Seconds:   secs,
		Comment:   strings.TrimSpace(s.Comment),
	}
}

// ParsePositive parses text as a base-10 integer greater than zero.
func ParsePositive(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
