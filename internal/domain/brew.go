// Package domain defines the core types and interfaces for coffeepad.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"time"
)

// StepKind identifies what a brew step asks the user to do. Every switch
// over StepKind in this module is exhaustive; adding a kind means touching
// the catalog, the cue lines and the display icons.
type StepKind int

const (
	KindUnknown StepKind = iota
	KindPourWater
	KindStir
	KindAddIce
	KindWait
	KindRemoveDripper
	KindEmptyServer
)

// Kinds lists the known step kinds in catalog order.
var Kinds = []StepKind{
	KindPourWater,
	KindStir,
	KindAddIce,
	KindWait,
	KindRemoveDripper,
	KindEmptyServer,
}

// String returns the persisted name of the kind.
func (k StepKind) String() string {
	switch k {
	case KindPourWater:
		return "pourWater"
	case KindStir:
		return "stir"
	case KindAddIce:
		return "addIce"
	case KindWait:
		return "wait"
	case KindRemoveDripper:
		return "removeDripper"
	case KindEmptyServer:
		return "emptyServer"
	default:
		return "unknown"
	}
}

// StepKindFromString converts a persisted name back to a StepKind.
// Returns KindUnknown for unrecognized names.
func StepKindFromString(name string) StepKind {
	for _, k := range Kinds {
		if k.String() == name {
			return k
		}
	}
	return KindUnknown
}

// MarshalText implements encoding.TextMarshaler.
func (k StepKind) MarshalText() ([]byte, error) {
	if k == KindUnknown {
		return nil, fmt.Errorf("marshal step kind %d: %w", int(k), ErrInvalidField)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *StepKind) UnmarshalText(b []byte) error {
	kind := StepKindFromString(string(b))
	if kind == KindUnknown {
		return fmt.Errorf("step kind %q: %w", string(b), ErrInvalidField)
	}
	*k = kind
	return nil
}

// BrewStep is one instruction inside a brew method.
type BrewStep struct {
	ID        string   `json:"id"`
	Kind      StepKind `json:"type"`
	Title     string   `json:"title"`
	SubOption string   `json:"subOption,omitempty"` // technique, e.g. "small circles"
	Weight    int      `json:"weight,omitempty"`    // grams of water/ice, 0 if none
	Seconds   int      `json:"time,omitempty"`      // duration, 0 if untimed
	Comment   string   `json:"comment,omitempty"`
}

// HasWeight reports whether the step contributes to the weight total.
func (s BrewStep) HasWeight() bool { return s.Weight > 0 }

// Timed reports whether the step runs against the clock.
func (s BrewStep) Timed() bool { return s.Seconds > 0 }

// Label is the title plus the technique when one was picked.
func (s BrewStep) Label() string {
	if s.SubOption == "" {
		return s.Title
	}
	return s.Title + " (" + s.SubOption + ")"
}

// BrewMethod is a saved recipe: parameters plus an ordered step list.
type BrewMethod struct {
	ID       int64      `json:"id"` // creation time, unix seconds
	Title    string     `json:"title"`
	Comment  string     `json:"comment"`
	Amount   int        `json:"amount"` // finished volume, ml
	Grind    string     `json:"grind"`
	Temp     int        `json:"temp"`   // water temperature, °C
	Weight   int        `json:"weight"` // coffee dose, g
	Date     string     `json:"date"`   // display string, see DateLayout
	Steps    []BrewStep `json:"steps"`
	IconData []byte     `json:"iconData,omitempty"`
}

// DateLayout is the display format stored in BrewMethod.Date.
const DateLayout = "Jan 2, 2006"

// FormatDate renders t the way BrewMethod.Date stores it.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CreatedAt parses the display date. ok is false for dates that were
// written in another format.
func (m BrewMethod) CreatedAt() (t time.Time, ok bool) {
	t, err := time.ParseInLocation(DateLayout, m.Date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TotalWeight is the sum of all step weights.
func (m BrewMethod) TotalWeight() int {
	total := 0
	for _, s := range m.Steps {
		total += s.Weight
	}
	return total
}

// TotalSeconds is the sum of all timed step durations.
func (m BrewMethod) TotalSeconds() int {
	total := 0
	for _, s := range m.Steps {
		total += s.Seconds
	}
	return total
}
