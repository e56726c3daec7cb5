package level

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

func TestMemorySourceList(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))

	levels, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(levels) != 5 {
		t.Fatalf("expected 5 levels, got %d", len(levels))
	}
	for i, l := range levels {
		if l.Index != i {
			t.Fatalf("level %q has index %d, want %d", l.Name, l.Index, i)
		}
	}
	if levels[0].Name != "Level 1" || levels[4].ID != "level5" {
		t.Fatalf("unexpected summaries %+v", levels)
	}
}

func TestMemorySourceGet(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	tests := []struct {
		name    string
		index   int
		cooler  bool
		chopper bool
		wantErr error
	}{
		{"level 1", 0, false, false, nil},
		{"level 2", 1, true, false, nil},
		{"level 3", 2, false, false, nil},
		{"level 4", 3, true, true, nil},
		{"level 5", 4, true, true, nil},
		{"negative", -1, false, false, domain.ErrNotFound},
		{"past the end", 5, false, false, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := src.Get(ctx, tt.index)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l.NeedsCooler() != tt.cooler || l.NeedsChopper() != tt.chopper {
				t.Fatalf("cooler=%v chopper=%v, want %v %v", l.NeedsCooler(), l.NeedsChopper(), tt.cooler, tt.chopper)
			}
			for _, c := range l.Customers {
				if c.PatienceSeconds != DefaultPatience {
					t.Fatalf("%s has patience %v", c.Name, c.PatienceSeconds)
				}
			}
		})
	}
}

func TestGetReturnsCopy(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	l, _ := src.Get(ctx, 0)
	l.Customers[0].Meal[0] = "tampered"

	again, _ := src.Get(ctx, 0)
	if again.Customers[0].Meal[0] != "ingredient1" {
		t.Fatal("caller mutated stored level")
	}
}

func TestPool(t *testing.T) {
	src := NewMemorySource(logger.New(logger.LevelOff, nil))
	pool, err := src.Pool(context.Background())
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	names := map[string]bool{}
	for _, a := range pool {
		names[a.Name] = true
	}
	for _, want := range []string{"Koala", "Kangaroo", "Wombat", "Snake", "Possum"} {
		if !names[want] {
			t.Fatalf("pool missing %s", want)
		}
	}
}

func TestParse(t *testing.T) {
	doc := []byte(`
levels:
  - name: Breakfast Rush
    customers:
      - customerName: Koala
        requiredItemKinds: [ingredient1]
        patienceRateSeconds: 15
      - customerName: Snake
        requiredItemKinds: [ingredient3Chopped, ingredientCupFilled]
pool:
  - customerName: Possum
    requiredItemKinds: [ingredient4Chopped]
`)
	levels, pool, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(levels) != 1 || len(levels[0].Customers) != 2 {
		t.Fatalf("unexpected levels %+v", levels)
	}
	if levels[0].Customers[0].PatienceSeconds != 15 {
		t.Fatalf("patience not decoded: %+v", levels[0].Customers[0])
	}
	if len(pool) != 1 || pool[0].Name != "Possum" {
		t.Fatalf("unexpected pool %+v", pool)
	}

	src, err := NewSource(levels, pool, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	l, _ := src.Get(context.Background(), 0)
	if l.ID != "level1" || l.Name != "Breakfast Rush" {
		t.Fatalf("unexpected identity %q %q", l.ID, l.Name)
	}
	if l.Customers[1].PatienceSeconds != DefaultPatience {
		t.Fatalf("missing patience not defaulted: %v", l.Customers[1].PatienceSeconds)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no levels", "pool: []\n"},
		{"bad yaml", "levels: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Parse([]byte(tt.doc)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestNewSourceValidates(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	tests := []struct {
		name   string
		levels []domain.Level
	}{
		{"no customers", []domain.Level{{Name: "Empty"}}},
		{"nameless customer", []domain.Level{{Customers: []domain.Archetype{{Meal: []string{"ingredient1"}}}}}},
		{"empty meal", []domain.Level{{Customers: []domain.Archetype{{Name: "Koala"}}}}},
		{"negative patience", []domain.Level{{Customers: []domain.Archetype{{Name: "Koala", Meal: []string{"ingredient1"}, PatienceSeconds: -1}}}}},
		{"meal larger than a plate", []domain.Level{{Customers: []domain.Archetype{{Name: "Emu", Meal: []string{"ingredient1", "ingredient2", "ingredient3", "ingredient4"}}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSource(tt.levels, nil, log)
			if !errors.Is(err, domain.ErrInvalidLevel) {
				t.Fatalf("expected ErrInvalidLevel, got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	doc := "levels:\n  - customers:\n      - customerName: Koala\n        requiredItemKinds: [ingredient1]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := LoadFile(path, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pool, _ := src.Pool(context.Background())
	if len(pool) != 5 {
		t.Fatalf("expected built-in pool fallback, got %d", len(pool))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), logger.New(logger.LevelOff, nil)); err == nil {
		t.Fatal("expected error for missing file")
	}
}
