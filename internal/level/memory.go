// Package level provides level sources: the built-in story levels and
// endless pool, and definitions loaded from YAML.
package level

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// DefaultPatience is the patience ticker, in seconds, used when a definition
// leaves it out.
const DefaultPatience = 20

// MaxMealItems is what one plate holds.
const MaxMealItems = 3

// Compile-time interface check.
var _ domain.LevelSource = (*MemorySource)(nil)

// MemorySource holds levels in memory. Safe for concurrent reads.
type MemorySource struct {
	mu     sync.RWMutex
	levels []*domain.Level
	pool   []domain.Archetype
	log    *logger.Logger
}

// NewMemorySource creates a source preloaded with the five story levels and
// the endless pool.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{log: log}
	src.seed()
	return src
}

// NewSource creates a source from explicit definitions. A nil pool falls
// back to the built-in endless pool.
func NewSource(levels []domain.Level, pool []domain.Archetype, log *logger.Logger) (*MemorySource, error) {
	src := &MemorySource{log: log}
	for i := range levels {
		l := levels[i]
		if err := Validate(&l); err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		if l.ID == "" {
			l.ID = fmt.Sprintf("level%d", i+1)
		}
		if l.Name == "" {
			l.Name = fmt.Sprintf("Level %d", i+1)
		}
		src.levels = append(src.levels, cloneLevel(&l))
	}

	if pool == nil {
		pool = builtinPool()
	}
	for i := range pool {
		a := pool[i]
		if err := validateArchetype(&a); err != nil {
			return nil, fmt.Errorf("pool entry %d: %w", i+1, err)
		}
		src.pool = append(src.pool, a)
	}
	log.Debug("loaded %d levels, pool of %d", len(src.levels), len(src.pool))
	return src, nil
}

// List returns summaries of all levels in play order.
func (s *MemorySource) List(ctx context.Context) ([]domain.LevelSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LevelSummary, len(s.levels))
	for i, l := range s.levels {
		out[i] = domain.LevelSummary{Index: i, ID: l.ID, Name: l.Name}
	}
	return out, nil
}

// Get returns a copy of the level at index.
func (s *MemorySource) Get(ctx context.Context, index int) (*domain.Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.levels) {
		s.log.Debug("level index out of range: %d", index)
		return nil, domain.ErrNotFound
	}
	return cloneLevel(s.levels[index]), nil
}

// Pool returns a copy of the endless archetype pool.
func (s *MemorySource) Pool(ctx context.Context) ([]domain.Archetype, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Archetype, len(s.pool))
	for i, a := range s.pool {
		out[i] = cloneArchetype(a)
	}
	return out, nil
}

// Validate checks a level definition and fills in a missing patience.
func Validate(l *domain.Level) error {
	if len(l.Customers) == 0 {
		return fmt.Errorf("%w: no customers", domain.ErrInvalidLevel)
	}
	for i := range l.Customers {
		if err := validateArchetype(&l.Customers[i]); err != nil {
			return fmt.Errorf("customer %d: %w", i+1, err)
		}
	}
	return nil
}

func validateArchetype(a *domain.Archetype) error {
	if a.Name == "" {
		return fmt.Errorf("%w: customer without a name", domain.ErrInvalidLevel)
	}
	if len(a.Meal) == 0 {
		return fmt.Errorf("%w: %s orders nothing", domain.ErrInvalidLevel, a.Name)
	}
	if len(a.Meal) > MaxMealItems {
		return fmt.Errorf("%w: %s orders %d items, a plate holds %d", domain.ErrInvalidLevel, a.Name, len(a.Meal), MaxMealItems)
	}
	for _, kind := range a.Meal {
		if kind == "" {
			return fmt.Errorf("%w: %s orders an empty item", domain.ErrInvalidLevel, a.Name)
		}
	}
	if a.PatienceSeconds < 0 {
		return fmt.Errorf("%w: %s has negative patience", domain.ErrInvalidLevel, a.Name)
	}
	if a.PatienceSeconds == 0 {
		a.PatienceSeconds = DefaultPatience
	}
	return nil
}

func cloneLevel(l *domain.Level) *domain.Level {
	out := *l
	out.Customers = make([]domain.Archetype, len(l.Customers))
	for i, a := range l.Customers {
		out.Customers[i] = cloneArchetype(a)
	}
	return &out
}

func cloneArchetype(a domain.Archetype) domain.Archetype {
	a.Meal = append([]string(nil), a.Meal...)
	return a
}

// seed populates the source with the built-in levels.
func (s *MemorySource) seed() {
	s.levels = builtinLevels()
	s.pool = builtinPool()
	s.log.Debug("seeded %d levels, pool of %d", len(s.levels), len(s.pool))
}

func customer(name string, meal ...string) domain.Archetype {
	return domain.Archetype{Name: name, Meal: meal, PatienceSeconds: DefaultPatience}
}

// builtinLevels introduces one idea per level: plain items, then the cooler,
// then mixed orders, then the chopper, then everything at once.
func builtinLevels() []*domain.Level {
	return []*domain.Level{
		{ID: "level1", Name: "Level 1", Customers: []domain.Archetype{
			customer("Koala", "ingredient1"),
			customer("Kangaroo", "ingredient2"),
		}},
		{ID: "level2", Name: "Level 2", Customers: []domain.Archetype{
			customer("Koala", "ingredient1"),
			customer("Kangaroo", "ingredient2", "ingredientCupFilled"),
		}},
		{ID: "level3", Name: "Level 3", Customers: []domain.Archetype{
			customer("Koala", "ingredient1"),
			customer("Wombat", "ingredient1", "ingredient2"),
			customer("Snake", "ingredient3"),
		}},
		{ID: "level4", Name: "Level 4", Customers: []domain.Archetype{
			customer("Koala", "ingredient1"),
			customer("Wombat", "ingredient1", "ingredient2", "ingredientCupFilled"),
			customer("Snake", "ingredient3Chopped"),
		}},
		{ID: "level5", Name: "Level 5", Customers: []domain.Archetype{
			customer("Possum", "ingredient1", "ingredient2", "ingredient4Chopped"),
			customer("Wombat", "ingredient1", "ingredient2", "ingredientCupFilled"),
			customer("Snake", "ingredient3Chopped", "ingredientCupFilled"),
		}},
	}
}

func builtinPool() []domain.Archetype {
	return []domain.Archetype{
		customer("Koala", "ingredient1"),
		customer("Kangaroo", "ingredient2", "ingredientCupFilled"),
		customer("Wombat", "ingredient1", "ingredient2", "ingredientCupFilled"),
		customer("Snake", "ingredient3Chopped", "ingredientCupFilled"),
		customer("Possum", "ingredient1", "ingredient2", "ingredient4Chopped"),
	}
}
