// Package timer drives the game in real time. The Supervisor converts wall
// clock ticks into virtual-time advances on the engine, and the optional
// Watcher looks at the floor on a slower cycle and nudges the player.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// Clock is advanced by the elapsed wall time every tick. The engine
// implements it and ignores advances while no level is running.
type Clock interface {
	Advance(d time.Duration)
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor advances the clock.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithMaxStep caps a single advance, so a stalled process does not
// fast-forward through a level when it wakes up.
func WithMaxStep(d time.Duration) Option {
	return func(s *Supervisor) {
		s.maxStep = d
	}
}

// WithFrameHook registers fn to run after every advance, e.g. a redraw.
func WithFrameHook(fn func()) Option {
	return func(s *Supervisor) {
		s.onFrame = fn
	}
}

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// WithWatcher enables the floor watcher over the given snapshot source.
func WithWatcher(src SnapshotSource, opts ...WatcherOption) Option {
	return func(s *Supervisor) {
		s.watcherSrc = src
		s.watcherOpts = opts
	}
}

// Supervisor runs in the background and feeds elapsed time to the clock.
// Optionally runs a Watcher on a slower cycle.
type Supervisor struct {
	clock        Clock
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration
	maxStep      time.Duration
	now          func() time.Time
	onFrame      func()

	watcherSrc  SnapshotSource
	watcherOpts []WatcherOption
	watcher     *Watcher

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a supervisor with the given dependencies and options.
func New(clock Clock, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		clock:        clock,
		notifier:     notifier,
		log:          log,
		tickInterval: 50 * time.Millisecond,
		maxStep:      time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})

	go s.loop(childCtx, s.done)

	if s.watcherSrc != nil {
		s.watcher = NewWatcher(s.watcherSrc, s.notifier, s.log, s.watcherOpts...)
		go s.watcher.Run(childCtx)
	}

	s.log.Info("supervisor started (tick=%s, max step=%s)", s.tickInterval, s.maxStep)
}

// Stop shuts the loop down and waits for the last advance to finish.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.log.Info("supervisor stopped")
}

// Running reports whether the loop is active.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// loop is the main tick loop.
func (s *Supervisor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			s.step(now.Sub(last))
			last = now
		}
	}
}

// step advances the clock by elapsed, capped at maxStep.
func (s *Supervisor) step(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	if s.maxStep > 0 && elapsed > s.maxStep {
		s.log.Debug("supervisor: capping %s step to %s", elapsed, s.maxStep)
		elapsed = s.maxStep
	}
	s.clock.Advance(elapsed)
	if s.onFrame != nil {
		s.onFrame()
	}
}
