package domain

import "context"

// SortOrder selects how methods are listed.
type SortOrder int

const (
	// SortNewest lists the most recently created method first.
	SortNewest SortOrder = iota
	// SortOldest lists the oldest method first.
	SortOldest
)

func (o SortOrder) String() string {
	if o == SortOldest {
		return "oldest"
	}
	return "newest"
}

// MethodStore persists brew methods. Implementations can sit on any
// key-value backend; the whole collection is stored as one entry.
// Update is an atomic read-modify-write of that entry: fn sees the
// current list and returns the list to store, or an error to store
// nothing.
type MethodStore interface {
	Update(ctx context.Context, fn func(methods []BrewMethod) ([]BrewMethod, error)) error
	List(ctx context.Context, order SortOrder) ([]BrewMethod, error)
	Get(ctx context.Context, id int64) (*BrewMethod, error)
	Add(ctx context.Context, m BrewMethod) error
	Replace(ctx context.Context, m BrewMethod) error
	Delete(ctx context.Context, id int64) error
	ReplaceAll(ctx context.Context, methods []BrewMethod) error
}

// CommandParser converts raw user input (typed or spoken) into player
// commands. Implementations can be keyword-based or model-backed.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, the TUI status line, or use text-to-speech.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
