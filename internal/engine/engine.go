// Package engine is the application service behind the TUI and the CLI:
// method bookkeeping, id allocation, import/export and playback setup.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/coffeepad/internal/catalog"
	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
	"github.com/hammamikhairi/coffeepad/internal/recipe"
	"github.com/hammamikhairi/coffeepad/internal/storage"
	"github.com/hammamikhairi/coffeepad/internal/wizard"
)

// Option configures the engine.
type Option func(*Engine)

// WithNow replaces the wall clock used for ids and dates.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithPlayerOptions passes options to every playback controller.
func WithPlayerOptions(opts ...player.Option) Option {
	return func(e *Engine) {
		e.playerOpts = append(e.playerOpts, opts...)
	}
}

// Engine manages brew methods. It depends only on domain.MethodStore and
// is fully testable over an in-memory store.
type Engine struct {
	store      domain.MethodStore
	log        *logger.Logger
	now        func() time.Time
	playerOpts []player.Option
}

// New creates an engine with the given store and options.
func New(store domain.MethodStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ── Queries ──

// List returns every method in the requested order.
func (e *Engine) List(ctx context.Context, order domain.SortOrder) ([]domain.BrewMethod, error) {
	return e.store.List(ctx, order)
}

// Get returns one method by id.
func (e *Engine) Get(ctx context.Context, id int64) (*domain.BrewMethod, error) {
	return e.store.Get(ctx, id)
}

// Stats returns the list header counters.
func (e *Engine) Stats(ctx context.Context) (storage.Stats, error) {
	methods, err := e.store.List(ctx, domain.SortNewest)
	if err != nil {
		return storage.Stats{}, err
	}
	return storage.ComputeStats(methods, e.now()), nil
}

// ── Mutations ──

// Save persists the wizard's form: a new method gets a fresh id and
// today's date, an edited one replaces the original in place.
func (e *Engine) Save(ctx context.Context, w *wizard.Wizard) (domain.BrewMethod, error) {
	if w.Editing() {
		m, err := w.Build(0, e.now())
		if err != nil {
			return domain.BrewMethod{}, fmt.Errorf("building method: %w", err)
		}
		if err := e.store.Replace(ctx, m); err != nil {
			return domain.BrewMethod{}, fmt.Errorf("updating method: %w", err)
		}
		e.log.Info("method updated: %q (%d)", m.Title, m.ID)
		return m, nil
	}

	var m domain.BrewMethod
	err := e.store.Update(ctx, func(methods []domain.BrewMethod) ([]domain.BrewMethod, error) {
		built, err := w.Build(e.nextID(methods), e.now())
		if err != nil {
			return nil, fmt.Errorf("building method: %w", err)
		}
		m = built
		return append(methods, m), nil
	})
	if err != nil {
		return domain.BrewMethod{}, fmt.Errorf("adding method: %w", err)
	}
	e.log.Info("method created: %q (%d, %d steps)", m.Title, m.ID, len(m.Steps))
	return m, nil
}

// Add stores a method assembled outside the wizard (samples, video
// import). The id and date are assigned here and steps without an id
// get a fresh one.
func (e *Engine) Add(ctx context.Context, m domain.BrewMethod) (domain.BrewMethod, error) {
	m.Date = domain.FormatDate(e.now())
	m.Steps = withStepIDs(m.Steps)
	err := e.store.Update(ctx, func(methods []domain.BrewMethod) ([]domain.BrewMethod, error) {
		m.ID = e.nextID(methods)
		return append(methods, m), nil
	})
	if err != nil {
		return domain.BrewMethod{}, fmt.Errorf("adding method: %w", err)
	}
	e.log.Info("method added: %q (%d)", m.Title, m.ID)
	return m, nil
}

// Update replaces an existing method.
func (e *Engine) Update(ctx context.Context, m domain.BrewMethod) error {
	if err := e.store.Replace(ctx, m); err != nil {
		return fmt.Errorf("updating method: %w", err)
	}
	e.log.Info("method updated: %q (%d)", m.Title, m.ID)
	return nil
}

// Delete removes a method.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting method: %w", err)
	}
	e.log.Info("method deleted: %d", id)
	return nil
}

// AddSamples stores the built-in methods and returns how many were added.
func (e *Engine) AddSamples(ctx context.Context) (int, error) {
	n := 0
	for _, m := range recipe.Samples() {
		if _, err := e.Add(ctx, m); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// nextID returns the current unix second, bumped past any id already in
// methods.
func (e *Engine) nextID(methods []domain.BrewMethod) int64 {
	taken := make(map[int64]bool, len(methods))
	for _, m := range methods {
		taken[m.ID] = true
	}
	id := e.now().Unix()
	for taken[id] {
		id++
	}
	return id
}

// withStepIDs returns a copy of steps where every step has an id.
func withStepIDs(steps []domain.BrewStep) []domain.BrewStep {
	steps = append([]domain.BrewStep(nil), steps...)
	for i := range steps {
		if steps[i].ID == "" {
			steps[i].ID = uuid.NewString()
		}
	}
	return steps
}

// ── Import / export ──

// Export writes every method, oldest first, as the same JSON array the
// store keeps.
func (e *Engine) Export(ctx context.Context, w io.Writer) (int, error) {
	methods, err := e.store.List(ctx, domain.SortOldest)
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(methods); err != nil {
		return 0, fmt.Errorf("encoding methods: %w", err)
	}
	return len(methods), nil
}

// Import reads a JSON array of methods and merges it into the store.
// Methods whose id is already present get a new id; a method with a step
// that does not match the catalog rejects the whole file. With replace
// set the stored list is overwritten instead.
func (e *Engine) Import(ctx context.Context, r io.Reader, replace bool) (int, error) {
	var incoming []domain.BrewMethod
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return 0, fmt.Errorf("decoding import: %w: %v", domain.ErrInvalidField, err)
	}
	for _, m := range incoming {
		for i, s := range m.Steps {
			if !catalog.Validate(s) {
				return 0, fmt.Errorf("method %q step %d: %w", m.Title, i+1, domain.ErrInvalidField)
			}
		}
	}

	err := e.store.Update(ctx, func(existing []domain.BrewMethod) ([]domain.BrewMethod, error) {
		if replace {
			existing = nil
		}
		taken := make(map[int64]bool, len(existing)+len(incoming))
		for _, m := range existing {
			taken[m.ID] = true
		}
		next := e.now().Unix()
		merged := append([]domain.BrewMethod(nil), existing...)
		for _, m := range incoming {
			if m.ID <= 0 || taken[m.ID] {
				for taken[next] {
					next++
				}
				e.log.Debug("import: %q gets id %d (was %d)", m.Title, next, m.ID)
				m.ID = next
			}
			if m.Date == "" {
				m.Date = domain.FormatDate(e.now())
			}
			m.Steps = withStepIDs(m.Steps)
			taken[m.ID] = true
			merged = append(merged, m)
		}
		return merged, nil
	})
	if err != nil {
		return 0, fmt.Errorf("storing import: %w", err)
	}
	e.log.Info("imported %d methods (replace=%v)", len(incoming), replace)
	return len(incoming), nil
}

// ── Playback ──

// NewPlayback loads a method and returns a controller for its steps.
// The caller starts and stops the controller.
func (e *Engine) NewPlayback(ctx context.Context, id int64) (*domain.BrewMethod, *player.Controller, error) {
	m, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(m.Steps) == 0 {
		return nil, nil, fmt.Errorf("method %d: %w", id, domain.ErrNoSteps)
	}
	e.log.Debug("playback for %q: %d steps", m.Title, len(m.Steps))
	return m, player.NewController(m.Steps, e.log.With("player"), e.playerOpts...), nil
}
