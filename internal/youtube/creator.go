package youtube

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/recipe"
)

// StepDrafter proposes a step list for a video.
type StepDrafter interface {
	DraftSteps(ctx context.Context, v Video) ([]domain.BrewStep, error)
}

// MethodAdder stores a new method and returns it with its id assigned.
type MethodAdder interface {
	Add(ctx context.Context, m domain.BrewMethod) (domain.BrewMethod, error)
}

// Input holds the fields the user filled in for an imported method.
// Numeric fields are raw text; unparseable values fall back to defaults.
type Input struct {
	Title   string
	Comment string
	Amount  string // finished volume, ml
	Weight  string // coffee dose, g
	Grind   string
	Temp    string
	Steps   []domain.BrewStep
}

// CreatorOption configures the Creator.
type CreatorOption func(*Creator)

// WithDrafter asks d for steps when the input has none.
func WithDrafter(d StepDrafter) CreatorOption {
	return func(c *Creator) {
		c.drafter = d
	}
}

// Creator turns a video link and user input into a stored method.
type Creator struct {
	fetcher *Fetcher
	thumbs  *Thumbnails
	store   MethodAdder
	drafter StepDrafter
	log     *logger.Logger
}

// NewCreator wires the import flow.
func NewCreator(fetcher *Fetcher, thumbs *Thumbnails, store MethodAdder, log *logger.Logger, opts ...CreatorOption) *Creator {
	c := &Creator{fetcher: fetcher, thumbs: thumbs, store: store, log: log}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Preview fetches the video metadata for link.
func (c *Creator) Preview(ctx context.Context, link string) (*Video, error) {
	return c.fetcher.FetchVideoInfo(ctx, link)
}

// Create builds and stores a method for v. The thumbnail becomes the icon
// when it downloads; otherwise the method has none.
func (c *Creator) Create(ctx context.Context, v *Video, in Input) (domain.BrewMethod, error) {
	if strings.TrimSpace(in.Title) == "" {
		in.Title = v.Title
	}
	if len(in.Steps) == 0 {
		in.Steps = c.draft(ctx, v)
	}
	m := BuildMethod(in)
	m.IconData = c.thumbs.Download(ctx, v.ThumbnailURL)

	saved, err := c.store.Add(ctx, m)
	if err != nil {
		return domain.BrewMethod{}, fmt.Errorf("saving imported method: %w", err)
	}
	c.log.Info("imported %q from video %s (icon=%v)", saved.Title, v.ID, len(saved.IconData) > 0)
	return saved, nil
}

func (c *Creator) draft(ctx context.Context, v *Video) []domain.BrewStep {
	if c.drafter == nil {
		return recipe.DefaultVideoSteps()
	}
	steps, err := c.drafter.DraftSteps(ctx, *v)
	if err != nil || len(steps) == 0 {
		c.log.Warn("drafting steps for %s failed, using defaults: %v", v.ID, err)
		return recipe.DefaultVideoSteps()
	}
	return steps
}

// BuildMethod converts input into a method without id or date.
func BuildMethod(in Input) domain.BrewMethod {
	grind := strings.TrimSpace(in.Grind)
	if grind == "" {
		grind = recipe.DefaultGrind
	}
	return domain.BrewMethod{
		Title:   strings.TrimSpace(in.Title),
		Comment: strings.TrimSpace(in.Comment),
		Amount:  atoiOr(in.Amount, recipe.DefaultAmount),
		Grind:   grind,
		Temp:    atoiOr(in.Temp, recipe.DefaultTemp),
		Weight:  atoiOr(in.Weight, recipe.DefaultWeight),
		Steps:   append([]domain.BrewStep(nil), in.Steps...),
	}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
