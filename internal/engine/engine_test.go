package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/level"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
	"github.com/hammamikhairi/outbackcafe/internal/stats"
	"github.com/hammamikhairi/outbackcafe/internal/storage"
)

var fixedDay = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func koala(patience float64) domain.Archetype {
	return domain.Archetype{Name: "Koala", Meal: []string{"ingredient1"}, PatienceSeconds: patience}
}

// endedHooks records level results.
type endedHooks struct {
	domain.NopHooks
	results []domain.LevelResult
	started []string
}

func (h *endedHooks) LevelEnded(r domain.LevelResult)        { h.results = append(h.results, r) }
func (h *endedHooks) LevelStarted(name string, _ domain.Mode) { h.started = append(h.started, name) }

func setupEngine(t *testing.T, levels []domain.Level, pool []domain.Archetype, opts ...Option) (*Engine, *storage.MemoryStore, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	src, err := level.NewSource(levels, pool, log)
	if err != nil {
		t.Fatalf("level source: %v", err)
	}
	store := storage.NewMemoryStore(log)
	base := []Option{WithSeed(7), WithClock(func() time.Time { return fixedDay })}
	eng := New(src, store, log, append(base, opts...)...)
	return eng, store, context.Background()
}

func singleKoala(patience float64) []domain.Level {
	return []domain.Level{
		{Name: "Level 1", Customers: []domain.Archetype{koala(patience)}},
		{Name: "Level 2", Customers: []domain.Archetype{koala(patience)}},
	}
}

func TestStartRequiresStagedLevel(t *testing.T) {
	eng, _, ctx := setupEngine(t, singleKoala(20), nil)

	if err := eng.Start(ctx); !errors.Is(err, domain.ErrNoLevel) {
		t.Fatalf("expected ErrNoLevel, got %v", err)
	}
	if err := eng.SelectLevel(ctx, 9); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := eng.SelectLevel(ctx, 0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := eng.Start(ctx); !errors.Is(err, domain.ErrLevelActive) {
		t.Fatalf("expected ErrLevelActive, got %v", err)
	}
	if err := eng.SelectLevel(ctx, 1); !errors.Is(err, domain.ErrLevelActive) {
		t.Fatalf("expected ErrLevelActive on select, got %v", err)
	}
}

func TestLevelTimesOut(t *testing.T) {
	hooks := &endedHooks{}
	eng, _, ctx := setupEngine(t, singleKoala(1000), nil, WithHooks(hooks))

	eng.SelectLevel(ctx, 0)
	eng.Start(ctx)

	if s := eng.Snapshot(); s.TimeLeft != 60 || s.Plates[0].Customer == nil {
		t.Fatalf("expected 60s and an immediate spawn, got %ds, plate %+v", s.TimeLeft, s.Plates[0])
	}

	eng.Advance(59 * time.Second)
	if eng.Phase() != domain.PhaseRunning {
		t.Fatal("level ended early")
	}
	eng.Advance(time.Second)

	res, ok := eng.Result()
	if !ok || eng.Phase() != domain.PhaseEnded {
		t.Fatalf("expected ended level, phase %s", eng.Phase())
	}
	if res.Completed || res.HasNext {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Report.LevelName != "Level 1 (Attempt 1)" {
		t.Fatalf("unexpected report name %q", res.Report.LevelName)
	}
	if res.Report.DurationSeconds != 60 {
		t.Fatalf("expected 60s duration, got %v", res.Report.DurationSeconds)
	}
	if len(hooks.results) != 1 {
		t.Fatalf("expected one LevelEnded, got %d", len(hooks.results))
	}

	if err := eng.Next(ctx); !errors.Is(err, domain.ErrNoNextLevel) {
		t.Fatalf("failed level should not offer next, got %v", err)
	}
	if err := eng.Restart(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	eng.Start(ctx)
	eng.Advance(60 * time.Second)
	res, _ = eng.Result()
	if res.Report.LevelName != "Level 1 (Attempt 2)" {
		t.Fatalf("expected second attempt, got %q", res.Report.LevelName)
	}
}

func TestLevelCompletesOnThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Required = 100
	eng, _, ctx := setupEngine(t, singleKoala(20), nil, WithConfig(cfg))

	eng.SelectLevel(ctx, 0)
	eng.Start(ctx)

	eng.Move("ingredient1")
	eng.Move("plate1")
	if s := eng.Snapshot(); s.Score != 100 || s.Phase != domain.PhaseRunning {
		t.Fatalf("expected 100 and still running until the clock ticks, got %d %s", s.Score, s.Phase)
	}

	eng.Advance(time.Second)
	res, ok := eng.Result()
	if !ok || !res.Completed || !res.HasNext {
		t.Fatalf("expected completed level with a next, got %+v", res)
	}
	if res.Report.CustomersServed != 1 || res.Report.PlanningPercent != 100 {
		t.Fatalf("unexpected report %+v", res.Report)
	}

	if err := eng.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if s := eng.Snapshot(); s.Phase != domain.PhaseMenu || s.LevelName != "Level 2" {
		t.Fatalf("expected Level 2 staged, got %s %q", s.Phase, s.LevelName)
	}
	eng.Start(ctx)
	if eng.Snapshot().Score != 0 {
		t.Fatal("story score should reset each level")
	}
}

func TestSpawnDroppedWhenPlatesFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnMin = 2 * time.Second
	cfg.SpawnMax = 2 * time.Second
	eng, _, ctx := setupEngine(t, singleKoala(100), nil, WithConfig(cfg))

	eng.SelectLevel(ctx, 0)
	eng.Start(ctx)
	eng.Advance(6 * time.Second)

	s := eng.Snapshot()
	for _, p := range s.Plates {
		if p.Customer == nil {
			t.Fatalf("plate %d should be taken", p.Index+1)
		}
	}
	if _, spawned := eng.tracker.Counts(); spawned != 3 {
		t.Fatalf("dropped spawn was counted: %d", spawned)
	}
	first := s.Plates[0].Customer.ID

	eng.Move("ingredient1")
	eng.Move("plate1")
	eng.Advance(time.Second)
	if eng.Snapshot().Plates[0].Customer != nil {
		t.Fatal("plate 1 should be free after the linger delay")
	}

	// The dropped attempt still rescheduled; the next one lands at 8s.
	eng.Advance(time.Second)
	c := eng.Snapshot().Plates[0].Customer
	if c == nil || c.ID == first {
		t.Fatalf("expected a new customer at plate 1, got %+v", c)
	}
}

func TestSpawnDelayWindow(t *testing.T) {
	eng, _, _ := setupEngine(t, singleKoala(20), nil)
	for i := 0; i < 1000; i++ {
		d := eng.spawnDelay()
		if d < 2*time.Second || d > 8*time.Second {
			t.Fatalf("spawn delay %s outside [2s, 8s]", d)
		}
	}
}

func TestZeroSpawnWindowFallsBack(t *testing.T) {
	eng, _, ctx := setupEngine(t, singleKoala(20), nil,
		WithConfig(Config{LevelTime: 60 * time.Second, Required: 300}))

	if err := eng.SelectLevel(ctx, 0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		eng.Advance(time.Second)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("advance did not return with an empty spawn window")
	}

	if d := eng.spawnDelay(); d < 2*time.Second || d > 8*time.Second {
		t.Fatalf("expected the default spawn window, got %s", d)
	}
}

func TestLevelEndCancelsTimers(t *testing.T) {
	eng, _, ctx := setupEngine(t, singleKoala(1000), nil)

	eng.SelectLevel(ctx, 0)
	eng.Start(ctx)
	eng.Move("ingredient1")
	eng.Move("plate2")
	eng.Move("ingredient3")
	eng.Move("chopper")
	eng.Move("ingredientCup")
	eng.Advance(60 * time.Second)

	if n := eng.sched.Pending(); n != 0 {
		t.Fatalf("expected no pending events, got %d", n)
	}
	s := eng.Snapshot()
	if !s.Held.IsZero() {
		t.Fatal("held item survived level end")
	}
	for _, p := range s.Plates {
		if p.Customer != nil || len(p.Contents) != 0 {
			t.Fatalf("plate %d not cleared", p.Index+1)
		}
	}
	for _, p := range s.Processors {
		if p.State != domain.ProcessorEmpty {
			t.Fatalf("%s not reset", p.Kind)
		}
	}

	// Time does not move between levels.
	eng.Advance(10 * time.Second)
	if eng.Snapshot().TimeLeft != 0 {
		t.Fatal("clock kept running after the level ended")
	}
}

func TestPauseFreezesTime(t *testing.T) {
	eng, _, ctx := setupEngine(t, singleKoala(20), nil)

	if err := eng.Pause(); !errors.Is(err, domain.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	eng.SelectLevel(ctx, 0)
	eng.Start(ctx)
	eng.Advance(5 * time.Second)

	if err := eng.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	eng.Advance(30 * time.Second)
	if eng.Snapshot().TimeLeft != 55 {
		t.Fatalf("time moved while paused: %d", eng.Snapshot().TimeLeft)
	}
	if eng.Move("ingredient1") {
		t.Fatal("moves should be ignored while paused")
	}
	if err := eng.Restart(ctx); !errors.Is(err, domain.ErrLevelActive) {
		t.Fatalf("expected ErrLevelActive, got %v", err)
	}

	if err := eng.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	eng.Advance(time.Second)
	if eng.Snapshot().TimeLeft != 54 {
		t.Fatalf("expected 54 after resume, got %d", eng.Snapshot().TimeLeft)
	}
}

func TestEndlessWaves(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Required = 100
	cfg.ThresholdStep = 300
	pool := []domain.Archetype{koala(1000)}
	eng, store, ctx := setupEngine(t, singleKoala(20), pool, WithConfig(cfg))

	if err := eng.StartEndless(ctx); err != nil {
		t.Fatalf("start endless: %v", err)
	}
	s := eng.Snapshot()
	if s.Phase != domain.PhaseMenu || s.LevelName != "Endless Wave 1" || len(s.Menu) != 1 {
		t.Fatalf("unexpected staged wave %+v", s)
	}

	eng.Start(ctx)
	eng.Move("ingredient1")
	eng.Move("plate1")
	eng.Advance(time.Second)

	res, _ := eng.Result()
	if !res.Completed || !res.Continued {
		t.Fatalf("expected a continued run, got %+v", res)
	}
	if res.Report.LevelName != "Endless Wave 1 (Attempt 1)" {
		t.Fatalf("unexpected report name %q", res.Report.LevelName)
	}
	s = eng.Snapshot()
	if s.Phase != domain.PhaseMenu || s.Required != 400 || s.Wave != 2 || s.Score != 100 {
		t.Fatalf("unexpected next wave state %+v", s)
	}

	eng.Start(ctx)
	if eng.Snapshot().Score != 100 {
		t.Fatal("endless score should carry into the next wave")
	}
	eng.Advance(60 * time.Second)

	res, _ = eng.Result()
	if res.Completed || res.Continued || eng.Phase() != domain.PhaseGameOver {
		t.Fatalf("expected game over, got %+v", res)
	}
	if res.HighScore != 100 {
		t.Fatalf("expected high score 100, got %d", res.HighScore)
	}
	hs, err := stats.LoadHighScore(ctx, store)
	if err != nil || hs != 100 {
		t.Fatalf("high score not persisted: %d %v", hs, err)
	}

	if err := eng.Restart(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	s = eng.Snapshot()
	if s.Wave != 1 || s.Required != 100 || s.Score != 0 {
		t.Fatalf("restart should begin a fresh run, got %+v", s)
	}
}

func TestRestartEndlessWhileActive(t *testing.T) {
	pool := []domain.Archetype{koala(1000)}
	eng, _, ctx := setupEngine(t, singleKoala(20), pool)

	if err := eng.StartEndless(ctx); err != nil {
		t.Fatalf("start endless: %v", err)
	}
	if err := eng.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := eng.Restart(ctx); !errors.Is(err, domain.ErrLevelActive) {
		t.Fatalf("expected ErrLevelActive, got %v", err)
	}
	if err := eng.StartEndless(ctx); !errors.Is(err, domain.ErrLevelActive) {
		t.Fatalf("expected ErrLevelActive from StartEndless, got %v", err)
	}
	if eng.Phase() != domain.PhaseRunning {
		t.Fatalf("active wave should keep playing, got %s", eng.Phase())
	}
}

func TestEndlessWaveArchetypesDistinct(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		log := logger.New(logger.LevelOff, nil)
		eng := New(level.NewMemorySource(log), storage.NewMemoryStore(log), log, WithSeed(seed))
		if err := eng.StartEndless(context.Background()); err != nil {
			t.Fatalf("start endless: %v", err)
		}
		menu := eng.Snapshot().Menu
		if len(menu) != 3 {
			t.Fatalf("seed %d: expected 3 distinct archetypes, got %d", seed, len(menu))
		}
	}
}

func TestHistoryRestoredSameDay(t *testing.T) {
	eng, store, ctx := setupEngine(t, singleKoala(1000), nil)
	eng.SelectLevel(ctx, 0)
	eng.Start(ctx)
	eng.Advance(60 * time.Second)

	log := logger.New(logger.LevelOff, nil)
	src := level.NewMemorySource(log)

	same := New(src, store, log, WithClock(func() time.Time { return fixedDay.Add(3 * time.Hour) }))
	if err := same.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	h := same.History()
	if len(h.Sessions) != 1 || !strings.HasPrefix(h.Sessions[0].LevelName, "Level 1") {
		t.Fatalf("expected restored history, got %+v", h.Sessions)
	}

	later := New(src, store, log, WithClock(func() time.Time { return fixedDay.AddDate(0, 0, 1) }))
	if err := later.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := len(later.History().Sessions); n != 0 {
		t.Fatalf("history from yesterday should be dropped, got %d", n)
	}
}
