// Package recipe provides the built-in brew methods and step templates.
package recipe

import (
	"github.com/google/uuid"

	"github.com/hammamikhairi/coffeepad/internal/catalog"
	"github.com/hammamikhairi/coffeepad/internal/domain"
)

// Defaults used when a method is created without explicit parameters.
const (
	DefaultAmount = 300 // ml
	DefaultWeight = 20  // g
	DefaultTemp   = 92  // °C
	DefaultGrind  = "Medium"
)

// DefaultVideoSteps is the three-pour routine attached to methods imported
// from a video.
func DefaultVideoSteps() []domain.BrewStep {
	return []domain.BrewStep{
		pour("Straight into the center", 60, 30, "Bloom"),
		pour("Small circles", 120, 45, "First pour"),
		pour("Large circles", 120, 45, "Second pour"),
	}
}

// Samples returns fresh copies of the built-in methods. Ids and dates are
// left zero; the caller assigns them on insert.
func Samples() []domain.BrewMethod {
	return []domain.BrewMethod{
		classicV60(),
		fourSixMethod(),
		icedPourOver(),
	}
}

func classicV60() domain.BrewMethod {
	return domain.BrewMethod{
		Title:   "Classic V60",
		Comment: "Balanced single cup. Swirl after each pour for an even bed.",
		Amount:  250,
		Grind:   "Medium",
		Temp:    94,
		Weight:  15,
		Steps: []domain.BrewStep{
			pour("Spiral outward", 45, 10, "Wet all the grounds"),
			step(domain.KindStir, "Swirl the dripper", 0, 5, ""),
			wait(35, "Let it bloom"),
			pour("Small circles", 105, 30, ""),
			pour("Small circles", 100, 30, "Finish by 2:00"),
			step(domain.KindStir, "Swirl the dripper", 0, 5, "Flattens the bed"),
			wait(60, "Draw down"),
			step(domain.KindRemoveDripper, "", 0, 0, ""),
		},
	}
}

func fourSixMethod() domain.BrewMethod {
	return domain.BrewMethod{
		Title:   "4:6 Method",
		Comment: "First 40% sets sweetness and acidity, last 60% sets strength.",
		Amount:  300,
		Grind:   "Coarse",
		Temp:    92,
		Weight:  20,
		Steps: []domain.BrewStep{
			pour("Straight into the center", 50, 45, "Sweetness"),
			pour("Straight into the center", 70, 45, "Acidity"),
			pour("Widening circles", 60, 45, ""),
			pour("Widening circles", 60, 45, ""),
			pour("Widening circles", 60, 30, ""),
			step(domain.KindRemoveDripper, "", 0, 0, "Around 3:30"),
		},
	}
}

func icedPourOver() domain.BrewMethod {
	return domain.BrewMethod{
		Title:   "Iced Pour-Over",
		Comment: "Brew hot and strong straight onto ice.",
		Amount:  250,
		Grind:   "Fine",
		Temp:    96,
		Weight:  22,
		Steps: []domain.BrewStep{
			step(domain.KindAddIce, "", 100, 0, "Into the server"),
			pour("Spiral outward", 50, 30, "Bloom"),
			pour("Small circles", 100, 40, ""),
			step(domain.KindStir, "Swirl the server", 0, 10, "Chill evenly"),
			step(domain.KindEmptyServer, "", 0, 0, "Serve over fresh ice"),
		},
	}
}

func pour(technique string, grams, seconds int, comment string) domain.BrewStep {
	return step(domain.KindPourWater, technique, grams, seconds, comment)
}

func wait(seconds int, comment string) domain.BrewStep {
	return step(domain.KindWait, "", 0, seconds, comment)
}

func step(kind domain.StepKind, sub string, grams, seconds int, comment string) domain.BrewStep {
	return domain.BrewStep{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     catalog.Title(kind),
		SubOption: sub,
		Weight:    grams,
		Seconds:   seconds,
		Comment:   comment,
	}
}
