package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/conversation"
	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// SnapshotSource provides consistent reads of the game. The engine
// implements it.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher checks the floor.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithReadyGrace sets how long a finished item may sit in a processor
// before the watcher mentions it.
func WithReadyGrace(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.readyGrace = d
	}
}

// WithPatienceWarning sets the patience level below which a customer is
// called out.
func WithPatienceWarning(p float64) WatcherOption {
	return func(w *Watcher) {
		w.lowPatience = p
	}
}

// WithPauseNudge sets how long a pause lasts before the watcher comments.
func WithPauseNudge(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.pauseNudge = d
	}
}

// Watcher periodically inspects the floor and nudges the player about an
// item left waiting in a processor, a customer about to walk out, or a
// long pause. Each situation is mentioned once.
type Watcher struct {
	src         SnapshotSource
	notifier    domain.Notifier
	log         *logger.Logger
	interval    time.Duration
	readyGrace  time.Duration
	lowPatience float64
	pauseNudge  time.Duration

	readySince  map[domain.StationKind]time.Time
	readyTold   map[domain.StationKind]bool
	warned      map[string]bool // customer IDs
	pausedSince time.Time
	pauseTold   bool
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(src SnapshotSource, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		src:         src,
		notifier:    notifier,
		log:         log,
		interval:    time.Second,
		readyGrace:  5 * time.Second,
		lowPatience: 0.25,
		pauseNudge:  time.Minute,
		readySince:  make(map[domain.StationKind]time.Time),
		readyTold:   make(map[domain.StationKind]bool),
		warned:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
// Intended to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("watcher started (interval=%s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return
		case now := <-ticker.C:
			w.check(ctx, now)
		}
	}
}

// check runs one watcher cycle.
func (w *Watcher) check(ctx context.Context, now time.Time) {
	snap := w.src.Snapshot()

	switch snap.Phase {
	case domain.PhaseRunning:
		w.pausedSince, w.pauseTold = time.Time{}, false
	case domain.PhasePaused:
		w.checkPause(ctx, now)
		return
	default:
		w.forget()
		return
	}

	for _, p := range snap.Processors {
		w.checkProcessor(ctx, now, p)
	}

	active := make(map[string]bool)
	for _, plate := range snap.Plates {
		c := plate.Customer
		if c == nil || c.State != domain.CustomerActive {
			continue
		}
		active[c.ID] = true
		if c.Patience >= w.lowPatience || w.warned[c.ID] {
			continue
		}
		w.warned[c.ID] = true
		w.urgent(ctx, fmt.Sprintf("[Watcher] %s at plate %d is about to leave! Needs %s.",
			c.Name, plate.Index+1, conversation.MealLabel(c.Meal)))
	}
	for id := range w.warned {
		if !active[id] {
			delete(w.warned, id)
		}
	}
}

func (w *Watcher) checkProcessor(ctx context.Context, now time.Time, p domain.ProcessorView) {
	if p.State != domain.ProcessorReady {
		delete(w.readySince, p.Kind)
		delete(w.readyTold, p.Kind)
		return
	}
	since, ok := w.readySince[p.Kind]
	if !ok {
		w.readySince[p.Kind] = now
		return
	}
	if w.readyTold[p.Kind] || now.Sub(since) < w.readyGrace {
		return
	}
	w.readyTold[p.Kind] = true
	w.notify(ctx, fmt.Sprintf("[Watcher] The %s has %s waiting for you.", p.Kind, conversation.ItemLabel(p.Item.Kind())))
}

func (w *Watcher) checkPause(ctx context.Context, now time.Time) {
	if w.pausedSince.IsZero() {
		w.pausedSince = now
		return
	}
	if w.pauseTold || now.Sub(w.pausedSince) < w.pauseNudge {
		return
	}
	w.pauseTold = true
	w.notify(ctx, fmt.Sprintf("[Watcher] Paused for %s. The customers are still hungry.",
		now.Sub(w.pausedSince).Round(time.Second)))
}

// forget drops all per-level state between levels.
func (w *Watcher) forget() {
	clear(w.readySince)
	clear(w.readyTold)
	clear(w.warned)
	w.pausedSince, w.pauseTold = time.Time{}, false
}

func (w *Watcher) notify(ctx context.Context, msg string) {
	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
}

func (w *Watcher) urgent(ctx context.Context, msg string) {
	if err := w.notifier.NotifyUrgent(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
}
