package stats

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
	"github.com/hammamikhairi/outbackcafe/internal/storage"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestReportPercents(t *testing.T) {
	level := &domain.Level{Customers: []domain.Archetype{
		{Name: "Koala", Meal: []string{"ingredient1"}},
		{Name: "Kangaroo", Meal: []string{"ingredient2", "ingredientCupFilled"}},
	}}

	tr := NewTracker(10 * time.Second)
	tr.Spawned("Koala")
	tr.Spawned("Kangaroo")
	tr.Spawned("Koala")
	tr.Served("Koala", 0.8)
	tr.Served("Koala", 0.6)

	r := tr.Report("Level 2 (Attempt 1)", 70*time.Second, level)

	if !approx(r.PlanningPercent, 50) {
		t.Fatalf("planning: expected 50, got %v", r.PlanningPercent)
	}
	if !approx(r.ServeSpeedPercent, 70) {
		t.Fatalf("serve speed: expected 70, got %v", r.ServeSpeedPercent)
	}
	if r.AnticipationPercent != 100 {
		t.Fatalf("anticipation: expected 100 with no idle, got %v", r.AnticipationPercent)
	}
	if r.CustomersServed != 2 || r.CustomersSpawned != 3 {
		t.Fatalf("counts: got served=%d spawned=%d", r.CustomersServed, r.CustomersSpawned)
	}
	if r.DurationSeconds != 60 {
		t.Fatalf("duration: expected 60, got %v", r.DurationSeconds)
	}
}

func TestReportNothingSeen(t *testing.T) {
	tr := NewTracker(0)
	r := tr.Report("Level 1 (Attempt 1)", time.Second, &domain.Level{})
	if r.PlanningPercent != 0 || r.ServeSpeedPercent != 0 {
		t.Fatalf("expected zero percents, got %+v", r)
	}
}

func TestIdleClockAnticipation(t *testing.T) {
	level := &domain.Level{Customers: []domain.Archetype{
		{Name: "Snake", Meal: []string{"ingredient3Chopped", "ingredientCupFilled"}},
	}}

	tr := NewTracker(0)

	// Cooler empty while the player drops elsewhere at t=1s; loaded at t=13s.
	tr.ObserveDrop(1*time.Second, domain.StationCooler, true, false)
	tr.ObserveDrop(5*time.Second, domain.StationCooler, true, false) // keeps running
	tr.ObserveDrop(13*time.Second, domain.StationCooler, false, false)

	// Chopper: standing at it while empty does not start the clock.
	tr.ObserveDrop(2*time.Second, domain.StationChopper, true, true)
	tr.ObserveDrop(3*time.Second, domain.StationChopper, false, false)

	if got := tr.Idle(domain.StationCooler); got != 12*time.Second {
		t.Fatalf("cooler idle: expected 12s, got %s", got)
	}
	if got := tr.Idle(domain.StationChopper); got != 0 {
		t.Fatalf("chopper idle: expected 0, got %s", got)
	}

	r := tr.Report("x", 20*time.Second, level)
	// floor(12/5)*5 = 10.
	if r.AnticipationPercent != 90 {
		t.Fatalf("anticipation: expected 90, got %v", r.AnticipationPercent)
	}
}

func TestAnticipationIgnoresUnneededProcessor(t *testing.T) {
	level := &domain.Level{Customers: []domain.Archetype{
		{Name: "Koala", Meal: []string{"ingredient1"}},
	}}
	tr := NewTracker(0)
	tr.ObserveDrop(0, domain.StationCooler, true, false)
	tr.ObserveDrop(time.Minute, domain.StationCooler, false, false)

	r := tr.Report("x", time.Minute, level)
	if r.AnticipationPercent != 100 {
		t.Fatalf("expected no penalty for a level without cups, got %v", r.AnticipationPercent)
	}
}

func TestHistoryAttemptAndAverages(t *testing.T) {
	h := &History{}
	if n := h.Attempt("Endless Wave 1"); n != 1 {
		t.Fatalf("expected attempt 1, got %d", n)
	}

	h.Add(domain.Report{LevelName: "Endless Wave 1 (Attempt 1)", PlanningPercent: 100, ServeSpeedPercent: 50, AnticipationPercent: 80, DurationSeconds: 60})
	h.Add(domain.Report{LevelName: "Endless Wave 10 (Attempt 1)", PlanningPercent: 0, ServeSpeedPercent: 30, AnticipationPercent: 100, DurationSeconds: 12.5})

	if n := h.Attempt("Endless Wave 1"); n != 2 {
		t.Fatalf("wave 10 must not count as a wave 1 attempt, got %d", n)
	}

	p, s, a := h.Averages()
	if !approx(p, 50) || !approx(s, 40) || !approx(a, 90) {
		t.Fatalf("unexpected averages %v %v %v", p, s, a)
	}
	if !approx(h.TotalDuration, 72.5) {
		t.Fatalf("expected total duration 72.5, got %v", h.TotalDuration)
	}
}

func TestHistoryPersistsSameDayOnly(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()

	h := &History{}
	h.Add(domain.Report{LevelName: "Level 1 (Attempt 1)", CustomersServed: 3})
	if err := SaveHistory(ctx, store, h, "2026-10-19"); err != nil {
		t.Fatalf("save: %v", err)
	}

	same, err := LoadHistory(ctx, store, "2026-10-19")
	if err != nil {
		t.Fatalf("load same day: %v", err)
	}
	if len(same.Sessions) != 1 || same.TotalCustomersServed != 3 {
		t.Fatalf("expected restored history, got %+v", same)
	}

	next, err := LoadHistory(ctx, store, "2026-10-20")
	if err != nil {
		t.Fatalf("load next day: %v", err)
	}
	if len(next.Sessions) != 0 {
		t.Fatalf("expected fresh history on a new day, got %d sessions", len(next.Sessions))
	}
	if _, err := store.Get(ctx, KeyHistory); err != domain.ErrNotFound {
		t.Fatalf("expected stale history to be dropped, got %v", err)
	}
}

func TestHighScoreRoundTrip(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()

	if n, err := LoadHighScore(ctx, store); err != nil || n != 0 {
		t.Fatalf("expected 0 with no score stored, got %d (%v)", n, err)
	}
	if err := SaveHighScore(ctx, store, 740); err != nil {
		t.Fatalf("save: %v", err)
	}
	if n, _ := LoadHighScore(ctx, store); n != 740 {
		t.Fatalf("expected 740, got %d", n)
	}
}
