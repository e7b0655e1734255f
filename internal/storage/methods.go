package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// MethodsKey is the entry holding the JSON array of brew methods.
const MethodsKey = "brewMethods"

// Compile-time interface check.
var _ domain.MethodStore = (*MethodRepository)(nil)

// MethodRepository keeps the full method list under one KV entry and
// rewrites the whole array on every change. Mutations go through
// KV.Update, so they are atomic across handles on the same backend.
type MethodRepository struct {
	kv  KV
	key string
	log *logger.Logger
}

// RepoOption configures the repository.
type RepoOption func(*MethodRepository)

// WithKey stores the collection under a different entry name.
func WithKey(key string) RepoOption {
	return func(r *MethodRepository) {
		if key != "" {
			r.key = key
		}
	}
}

// NewMethodRepository creates a repository on top of kv.
func NewMethodRepository(kv KV, log *logger.Logger, opts ...RepoOption) *MethodRepository {
	r := &MethodRepository{kv: kv, key: MethodsKey, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// decode parses a stored entry. A missing or undecodable entry yields an
// empty list.
func (r *MethodRepository) decode(data []byte, ok bool) []domain.BrewMethod {
	if !ok || len(data) == 0 {
		return []domain.BrewMethod{}
	}
	var methods []domain.BrewMethod
	if err := json.Unmarshal(data, &methods); err != nil {
		r.log.Warn("stored methods are unreadable, starting empty: %v", err)
		return []domain.BrewMethod{}
	}
	if methods == nil {
		methods = []domain.BrewMethod{}
	}
	return methods
}

func (r *MethodRepository) load(ctx context.Context) ([]domain.BrewMethod, error) {
	data, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("loading methods: %w", err)
	}
	return r.decode(data, ok), nil
}

// Update loads the list, hands it to fn and stores what fn returns, with
// the backend locked throughout. An error from fn is returned as is and
// nothing is written.
func (r *MethodRepository) Update(ctx context.Context, fn func([]domain.BrewMethod) ([]domain.BrewMethod, error)) error {
	var (
		aborted error
		saved   int
	)
	err := r.kv.Update(ctx, r.key, func(old []byte, ok bool) ([]byte, error) {
		next, err := fn(r.decode(old, ok))
		if err != nil {
			aborted = err
			return nil, err
		}
		if next == nil {
			next = []domain.BrewMethod{}
		}
		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("encoding methods: %w", err)
		}
		saved = len(next)
		return data, nil
	})
	if aborted != nil {
		return aborted
	}
	if err != nil {
		return fmt.Errorf("saving methods: %w", err)
	}
	r.log.Debug("saved %d methods", saved)
	return nil
}

// List returns every method sorted by id.
func (r *MethodRepository) List(ctx context.Context, order domain.SortOrder) ([]domain.BrewMethod, error) {
	methods, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	SortMethods(methods, order)
	return methods, nil
}

// Get returns the method with id.
func (r *MethodRepository) Get(ctx context.Context, id int64) (*domain.BrewMethod, error) {
	methods, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].ID == id {
			return &methods[i], nil
		}
	}
	return nil, fmt.Errorf("method %d: %w", id, domain.ErrNotFound)
}

// Add appends m. Ids are unique.
func (r *MethodRepository) Add(ctx context.Context, m domain.BrewMethod) error {
	return r.Update(ctx, func(methods []domain.BrewMethod) ([]domain.BrewMethod, error) {
		for _, existing := range methods {
			if existing.ID == m.ID {
				return nil, fmt.Errorf("method %d: %w", m.ID, domain.ErrAlreadyExists)
			}
		}
		return append(methods, m), nil
	})
}

// Replace overwrites the method with m.ID, keeping its position.
func (r *MethodRepository) Replace(ctx context.Context, m domain.BrewMethod) error {
	return r.Update(ctx, func(methods []domain.BrewMethod) ([]domain.BrewMethod, error) {
		for i := range methods {
			if methods[i].ID == m.ID {
				methods[i] = m
				return methods, nil
			}
		}
		return nil, fmt.Errorf("method %d: %w", m.ID, domain.ErrNotFound)
	})
}

// Delete removes the method with id.
func (r *MethodRepository) Delete(ctx context.Context, id int64) error {
	return r.Update(ctx, func(methods []domain.BrewMethod) ([]domain.BrewMethod, error) {
		for i := range methods {
			if methods[i].ID == id {
				return append(methods[:i], methods[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("method %d: %w", id, domain.ErrNotFound)
	})
}

// ReplaceAll overwrites the stored list.
func (r *MethodRepository) ReplaceAll(ctx context.Context, methods []domain.BrewMethod) error {
	return r.Update(ctx, func([]domain.BrewMethod) ([]domain.BrewMethod, error) {
		return methods, nil
	})
}

// SortMethods orders methods in place by id.
func SortMethods(methods []domain.BrewMethod, order domain.SortOrder) {
	sort.SliceStable(methods, func(i, j int) bool {
		if order == domain.SortOldest {
			return methods[i].ID < methods[j].ID
		}
		return methods[i].ID > methods[j].ID
	})
}

// Stats summarizes a method list for the list header.
type Stats struct {
	Total     int
	ThisMonth int
}

// ComputeStats counts methods, and those whose date falls in now's month.
// Methods with unparseable dates only count toward the total.
func ComputeStats(methods []domain.BrewMethod, now time.Time) Stats {
	st := Stats{Total: len(methods)}
	for _, m := range methods {
		created, ok := m.CreatedAt()
		if !ok {
			continue
		}
		if created.Year() == now.Year() && created.Month() == now.Month() {
			st.ThisMonth++
		}
	}
	return st
}
