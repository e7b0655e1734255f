// Package wizard implements the multi-screen flow that creates or edits a
// brew method. Each screen has a predicate over the live form; "next" is
// only available while the current screen's predicate holds.
package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/coffeepad/internal/domain"
)

// Screen is one page of the wizard.
type Screen int

const (
	ScreenName Screen = iota
	ScreenGrind
	ScreenDose
	ScreenTemp
	ScreenSteps
	ScreenVolume
	ScreenComment
	ScreenIcon
	ScreenConfirm
)

// Screens lists every screen in order.
var Screens = []Screen{
	ScreenName, ScreenGrind, ScreenDose, ScreenTemp, ScreenSteps,
	ScreenVolume, ScreenComment, ScreenIcon, ScreenConfirm,
}

// Title returns the heading shown on the screen.
func (s Screen) Title() string {
	switch s {
	case ScreenName:
		return "Method name"
	case ScreenGrind:
		return "Grind size"
	case ScreenDose:
		return "Coffee (g)"
	case ScreenTemp:
		return "Water temperature (°C)"
	case ScreenSteps:
		return "Brew steps"
	case ScreenVolume:
		return "Finished volume (ml)"
	case ScreenComment:
		return "Notes"
	case ScreenIcon:
		return "Icon"
	case ScreenConfirm:
		return "Confirm"
	default:
		return "unknown"
	}
}

// GrindOptions are the selectable grind sizes, finest first.
var GrindOptions = []string{
	"Extra fine",
	"Fine",
	"Medium",
	"Coarse",
	"Extra coarse",
}

// DefaultGrind is preselected on a new form.
const DefaultGrind = "Medium"

// Form is the data collected across screens. Numeric fields stay as text
// until Build so the screens can show exactly what was typed.
type Form struct {
	Name      string
	Grind     string
	Dose      string
	WaterTemp string
	Volume    string
	Comment   string
	Steps     []domain.BrewStep
	IconData  []byte
}

// CanProceed evaluates the predicate for screen against f.
func CanProceed(screen Screen, f Form) bool {
	switch screen {
	case ScreenName:
		return strings.TrimSpace(f.Name) != ""
	case ScreenGrind:
		return f.Grind != ""
	case ScreenDose:
		return isInt(f.Dose)
	case ScreenTemp:
		return isInt(f.WaterTemp)
	case ScreenSteps:
		return len(f.Steps) > 0
	default:
		return true
	}
}

func isInt(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}

// Wizard tracks the current screen and the form being filled in.
type Wizard struct {
	Form

	screen  Screen
	editing *domain.BrewMethod
}

// New returns a wizard for a brand-new method.
func New() *Wizard {
	return &Wizard{Form: Form{Grind: DefaultGrind}}
}

// FromMethod returns a wizard pre-filled from m. Build keeps m's id and
// date so the result replaces m in storage.
func FromMethod(m domain.BrewMethod) *Wizard {
	steps := make([]domain.BrewStep, len(m.Steps))
	copy(steps, m.Steps)
	orig := m
	return &Wizard{
		Form: Form{
			Name:      m.Title,
			Grind:     m.Grind,
			Dose:      strconv.Itoa(m.Weight),
			WaterTemp: strconv.Itoa(m.Temp),
			Volume:    strconv.Itoa(m.Amount),
			Comment:   m.Comment,
			Steps:     steps,
			IconData:  m.IconData,
		},
		editing: &orig,
	}
}

// Editing reports whether the wizard edits an existing method.
func (w *Wizard) Editing() bool { return w.editing != nil }

// Screen returns the current screen.
func (w *Wizard) Screen() Screen { return w.screen }

// Position returns the 1-based screen number and the screen count.
func (w *Wizard) Position() (int, int) {
	return int(w.screen) + 1, len(Screens)
}

// CanProceed reports whether the current screen allows moving on.
func (w *Wizard) CanProceed() bool {
	return CanProceed(w.screen, w.Form)
}

// Next advances one screen. It is a no-op returning false when the current
// predicate fails or the wizard is already on the last screen.
func (w *Wizard) Next() bool {
	if !w.CanProceed() || w.screen == ScreenConfirm {
		return false
	}
	w.screen++
	return true
}

// Back moves one screen back. It returns false on the first screen so the
// caller can close the wizard.
func (w *Wizard) Back() bool {
	if w.screen == ScreenName {
		return false
	}
	w.screen--
	return true
}

// AddStep appends a step to the form.
func (w *Wizard) AddStep(s domain.BrewStep) {
	w.Steps = append(w.Steps, s)
}

// RemoveStep deletes the step at i. Out-of-range indexes are ignored.
func (w *Wizard) RemoveStep(i int) {
	if i < 0 || i >= len(w.Steps) {
		return
	}
	w.Steps = append(w.Steps[:i], w.Steps[i+1:]...)
}

// MoveStep moves the step at from to position to, shifting the others.
func (w *Wizard) MoveStep(from, to int) {
	n := len(w.Steps)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	s := w.Steps[from]
	w.Steps = append(w.Steps[:from], w.Steps[from+1:]...)
	w.Steps = append(w.Steps[:to], append([]domain.BrewStep{s}, w.Steps[to:]...)...)
}

// Build assembles the method. Every gated screen is re-checked so a form
// that skipped screens cannot produce a method. id and now are only used
// for new methods.
func (w *Wizard) Build(id int64, now time.Time) (domain.BrewMethod, error) {
	for _, s := range Screens {
		if !CanProceed(s, w.Form) {
			return domain.BrewMethod{}, fmt.Errorf("screen %q: %w", s.Title(), domain.ErrInvalidField)
		}
	}
	dose, _ := strconv.Atoi(strings.TrimSpace(w.Dose))
	temp, _ := strconv.Atoi(strings.TrimSpace(w.WaterTemp))
	volume, err := strconv.Atoi(strings.TrimSpace(w.Volume))
	if err != nil {
		volume = 0
	}

	m := domain.BrewMethod{
		ID:       id,
		Title:    strings.TrimSpace(w.Name),
		Comment:  strings.TrimSpace(w.Comment),
		Amount:   volume,
		Grind:    w.Grind,
		Temp:     temp,
		Weight:   dose,
		Date:     domain.FormatDate(now),
		Steps:    append([]domain.BrewStep(nil), w.Steps...),
		IconData: w.IconData,
	}
	if w.editing != nil {
		m.ID = w.editing.ID
		m.Date = w.editing.Date
	}
	return m, nil
}
