package storage

import (
	"context"
	"testing"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// exerciseStore runs the same CRUD checks against any KVStore.
func exerciseStore(t *testing.T, store domain.KVStore) {
	t.Helper()
	ctx := context.Background()

	// Get missing.
	if _, err := store.Get(ctx, "missing"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Put + Get.
	if err := store.Put(ctx, "stats", []byte(`{"sessions":[]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"sessions":[]}` {
		t.Fatalf("unexpected value %q", got)
	}

	// Overwrite.
	if err := store.Put(ctx, "stats", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = store.Get(ctx, "stats")
	if string(got) != "v2" {
		t.Fatalf("expected overwritten value, got %q", got)
	}

	// Delete.
	if err := store.Delete(ctx, "stats"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "stats"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Delete nonexistent.
	if err := store.Delete(ctx, "stats"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	exerciseStore(t, NewMemoryStore(log))
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	v := []byte("abc")
	if err := store.Put(ctx, "k", v); err != nil {
		t.Fatalf("put: %v", err)
	}
	v[0] = 'z'

	got, _ := store.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value was aliased: %q", got)
	}
}
