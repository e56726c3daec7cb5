package domain

import "context"

// LevelSource provides level definitions. Implementations can be built-in or
// loaded from a YAML file.
type LevelSource interface {
	List(ctx context.Context) ([]LevelSummary, error)
	// Get returns the level at the given 0-based index.
	Get(ctx context.Context, index int) (*Level, error)
	// Pool returns the archetypes endless waves are sampled from.
	Pool(ctx context.Context) ([]Archetype, error)
}

// KVStore persists small snapshots between runs. Implementations can be
// in-memory or SQLite. Get returns ErrNotFound for missing keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// IntentParser converts raw player input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers free-form messages to the player.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
