// Package catalog holds the fixed list of brew step definitions and the
// selection flow that turns a definition into a concrete BrewStep.
package catalog

import (
	"github.com/hammamikhairi/coffeepad/internal/domain"
)

// Definition describes one kind of step the user can add to a method.
type Definition struct {
	Kind            domain.StepKind
	Title           string
	SubOptions      []string // techniques; empty when the kind has none
	NeedsTime       bool
	NeedsWeight     bool
	SubOptionPrompt string
	InputPrompt     string
}

// NeedsInput reports whether the definition asks for any numeric field.
func (d Definition) NeedsInput() bool {
	return d.NeedsTime || d.NeedsWeight
}

// HasSubOptions reports whether a technique must be picked first.
func (d Definition) HasSubOptions() bool {
	return len(d.SubOptions) > 0
}

var definitions = []Definition{
	{
		Kind:  domain.KindPourWater,
		Title: "Pour water",
		SubOptions: []string{
			"Large circles",
			"Small circles",
			"Widening circles",
			"Straight into the center",
			"Spiral outward",
			"Spiral inward",
		},
		NeedsTime:       true,
		NeedsWeight:     true,
		SubOptionPrompt: "Choose a pouring technique",
		InputPrompt:     "Enter the water amount and pour time",
	},
	{
		Kind:            domain.KindStir,
		Title:           "Stir",
		SubOptions:      []string{"Stir with a spoon", "Swirl the dripper", "Swirl the server"},
		NeedsTime:       true,
		SubOptionPrompt: "Choose how to stir",
		InputPrompt:     "Enter the stirring time",
	},
	{
		Kind:        domain.KindAddIce,
		Title:       "Add ice",
		NeedsWeight: true,
		InputPrompt: "Enter the amount of ice",
	},
	{
		Kind:        domain.KindWait,
		Title:       "Wait",
		NeedsTime:   true,
		InputPrompt: "Enter the waiting time",
	},
	{
		Kind:  domain.KindRemoveDripper,
		Title: "Remove the dripper",
	},
	{
		Kind:  domain.KindEmptyServer,
		Title: "Empty the server",
	},
}

// All returns the catalog in display order. The slice is a copy.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for kind.
func Lookup(kind domain.StepKind) (Definition, bool) {
	for _, d := range definitions {
		if d.Kind == kind {
			return d, true
		}
	}
	return Definition{}, false
}

// Title returns the catalog title for kind, or the kind name if the
// kind is not in the catalog.
func Title(kind domain.StepKind) string {
	if d, ok := Lookup(kind); ok {
		return d.Title
	}
	return kind.String()
}

// Validate checks that a stored step is consistent with its definition:
// known kind, known technique, and every required numeric field positive.
// It is used on steps that did not come through a Selection (imports,
// model-drafted steps).
func Validate(step domain.BrewStep) bool {
	d, ok := Lookup(step.Kind)
	if !ok {
		return false
	}
	if step.SubOption != "" && !contains(d.SubOptions, step.SubOption) {
		return false
	}
	if d.NeedsWeight && step.Weight <= 0 {
		return false
	}
	if d.NeedsTime && step.Seconds <= 0 {
		return false
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
