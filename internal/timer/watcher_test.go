package timer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// fakeSource serves a mutable snapshot.
type fakeSource struct {
	mu   sync.Mutex
	snap domain.Snapshot
}

func (f *fakeSource) Snapshot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) set(s domain.Snapshot) {
	f.mu.Lock()
	f.snap = s
	f.mu.Unlock()
}

func runningWith(processors []domain.ProcessorView, plates ...domain.PlateView) domain.Snapshot {
	return domain.Snapshot{Phase: domain.PhaseRunning, Processors: processors, Plates: plates}
}

func TestWatcherReadyItemNudge(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := &fakeSource{}
	notifier := &mockNotifier{}
	w := NewWatcher(src, notifier, log, WithReadyGrace(5*time.Second))
	ctx := context.Background()
	t0 := time.Unix(1000, 0)

	cup := domain.Item{Base: "ingredientCup", Cup: true, State: domain.ItemFilled}
	src.set(runningWith([]domain.ProcessorView{{Kind: domain.StationCooler, State: domain.ProcessorReady, Item: cup}}))

	w.check(ctx, t0)
	w.check(ctx, t0.Add(4*time.Second))
	if n, _ := notifier.counts(); n != 0 {
		t.Fatalf("nudged before the grace period: %d", n)
	}

	w.check(ctx, t0.Add(6*time.Second))
	w.check(ctx, t0.Add(20*time.Second))
	if n, _ := notifier.counts(); n != 1 {
		t.Fatalf("expected exactly one nudge, got %d", n)
	}
	if !strings.Contains(notifier.messages[0], "cup (filled)") {
		t.Fatalf("unexpected message %q", notifier.messages[0])
	}

	// Taking the item and finishing another re-arms the nudge.
	src.set(runningWith([]domain.ProcessorView{{Kind: domain.StationCooler, State: domain.ProcessorEmpty}}))
	w.check(ctx, t0.Add(21*time.Second))
	src.set(runningWith([]domain.ProcessorView{{Kind: domain.StationCooler, State: domain.ProcessorReady, Item: cup}}))
	w.check(ctx, t0.Add(22*time.Second))
	w.check(ctx, t0.Add(28*time.Second))
	if n, _ := notifier.counts(); n != 2 {
		t.Fatalf("expected a second nudge, got %d", n)
	}
}

func TestWatcherLowPatience(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := &fakeSource{}
	notifier := &mockNotifier{}
	w := NewWatcher(src, notifier, log)
	ctx := context.Background()
	now := time.Unix(2000, 0)

	calm := &domain.CustomerView{ID: "a", Name: "Koala", Meal: []string{"ingredient1"}, Patience: 0.8}
	cranky := &domain.CustomerView{ID: "b", Name: "Snake", Meal: []string{"ingredient3Chopped"}, Patience: 0.2}
	src.set(runningWith(nil,
		domain.PlateView{Index: 0, Customer: calm},
		domain.PlateView{Index: 2, Customer: cranky},
	))

	w.check(ctx, now)
	w.check(ctx, now.Add(time.Second))

	_, urgent := notifier.counts()
	if urgent != 1 {
		t.Fatalf("expected one urgent warning, got %d", urgent)
	}
	msg := notifier.urgent[0]
	if !strings.Contains(msg, "Snake") || !strings.Contains(msg, "plate 3") || !strings.Contains(msg, "i3 (chopped)") {
		t.Fatalf("unexpected warning %q", msg)
	}
}

func TestWatcherPauseNudge(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := &fakeSource{}
	notifier := &mockNotifier{}
	w := NewWatcher(src, notifier, log, WithPauseNudge(30*time.Second))
	ctx := context.Background()
	t0 := time.Unix(3000, 0)

	src.set(domain.Snapshot{Phase: domain.PhasePaused})
	w.check(ctx, t0)
	w.check(ctx, t0.Add(10*time.Second))
	if n, _ := notifier.counts(); n != 0 {
		t.Fatal("nudged too early")
	}
	w.check(ctx, t0.Add(31*time.Second))
	w.check(ctx, t0.Add(90*time.Second))
	if n, _ := notifier.counts(); n != 1 {
		t.Fatalf("expected one pause nudge, got %d", n)
	}
}

func TestWatcherIdleBetweenLevels(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := &fakeSource{}
	notifier := &mockNotifier{}
	w := NewWatcher(src, notifier, log)

	src.set(domain.Snapshot{Phase: domain.PhaseEnded, Plates: []domain.PlateView{
		{Customer: &domain.CustomerView{ID: "x", Name: "Koala", Patience: 0.01}},
	}})
	w.check(context.Background(), time.Unix(0, 0))
	if n, u := notifier.counts(); n+u != 0 {
		t.Fatal("watcher spoke while no level was running")
	}
}

func TestWatcherRun(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	cranky := &domain.CustomerView{ID: "c", Name: "Possum", Patience: 0.1}
	src := &fakeSource{}
	src.set(runningWith(nil, domain.PlateView{Customer: cranky}))
	notifier := &mockNotifier{}

	w := NewWatcher(src, notifier, log, WithWatchInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if _, u := notifier.counts(); u != 1 {
		t.Fatalf("expected one warning from the loop, got %d", u)
	}
}
