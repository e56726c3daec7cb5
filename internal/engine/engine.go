// Package engine implements the level and wave controller. It owns the
// kitchen, the scheduler and the per-level metrics behind one mutex, and
// exposes the operations the UI, the voice input and the real-time driver
// call into.
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/kitchen"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
	"github.com/hammamikhairi/outbackcafe/internal/sched"
	"github.com/hammamikhairi/outbackcafe/internal/stats"
)

// Config holds the level controller's knobs.
type Config struct {
	LevelTime     time.Duration
	Tick          time.Duration // level clock period
	Required      int           // first threshold
	ThresholdStep int           // added per cleared endless wave
	SpawnMin      time.Duration
	SpawnMax      time.Duration
	WaveSize      int
	Kitchen       kitchen.Config
}

// DefaultConfig returns the stock game: 60 second levels, 300 points to
// clear, a spawn attempt every 2 to 8 seconds, three archetypes a wave.
func DefaultConfig() Config {
	return Config{
		LevelTime:     60 * time.Second,
		Tick:          time.Second,
		Required:      300,
		ThresholdStep: 300,
		SpawnMin:      2 * time.Second,
		SpawnMax:      8 * time.Second,
		WaveSize:      3,
		Kitchen:       kitchen.DefaultConfig(),
	}
}

// Option configures the engine.
type Option func(*Engine)

// WithConfig overrides the default controller settings.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithHooks sets the notification sink shared by the engine and kitchen.
func WithHooks(h domain.Hooks) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = h
		}
	}
}

// WithRand sets the random source for spawns and endless waves.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithSeed seeds the random source, for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithClock sets the wall clock used to date the history.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// WithRegistry replaces the default station layout.
func WithRegistry(r *kitchen.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// Engine manages levels and endless runs. All methods are safe for
// concurrent use.
type Engine struct {
	mu sync.Mutex

	levels   domain.LevelSource
	store    domain.KVStore
	log      *logger.Logger
	cfg      Config
	hooks    domain.Hooks
	rng      *rand.Rand
	clock    func() time.Time
	registry *kitchen.Registry

	sched   *sched.Scheduler
	tracker *stats.Tracker
	kitchen *kitchen.Kitchen

	phase     domain.Phase
	mode      domain.Mode
	level     *domain.Level
	index     int // story level being played
	timeLeft  int // seconds
	required  int
	wave      int
	highScore int
	runID     string
	clockTok  sched.Token
	spawnTok  sched.Token

	history *stats.History
	last    *domain.LevelResult
}

// New creates an engine with the given dependencies and options.
func New(levels domain.LevelSource, store domain.KVStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		levels:  levels,
		store:   store,
		log:     log,
		cfg:     DefaultConfig(),
		hooks:   domain.NopHooks{},
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		clock:   time.Now,
		history: &stats.History{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.Tick <= 0 {
		e.cfg.Tick = time.Second
	}
	if e.cfg.SpawnMin <= 0 {
		// A zero window would respawn forever inside one Advance.
		def := DefaultConfig()
		e.cfg.SpawnMin, e.cfg.SpawnMax = def.SpawnMin, def.SpawnMax
	}
	if e.cfg.SpawnMax < e.cfg.SpawnMin {
		e.cfg.SpawnMax = e.cfg.SpawnMin
	}
	if e.cfg.WaveSize <= 0 {
		e.cfg.WaveSize = 3
	}

	e.sched = sched.New()
	e.tracker = stats.NewTracker(0)
	kopts := []kitchen.Option{
		kitchen.WithConfig(e.cfg.Kitchen),
		kitchen.WithHooks(e.hooks),
	}
	if e.registry != nil {
		kopts = append(kopts, kitchen.WithRegistry(e.registry))
	}
	e.kitchen = kitchen.New(e.sched, e.tracker, log.Named("kitchen"), kopts...)
	e.required = e.cfg.Required
	return e
}

// Load restores today's history and the endless high score.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	h, err := stats.LoadHistory(ctx, e.store, e.today())
	if err != nil {
		return fmt.Errorf("restoring history: %w", err)
	}
	hs, err := stats.LoadHighScore(ctx, e.store)
	if err != nil {
		return fmt.Errorf("restoring high score: %w", err)
	}
	e.history = h
	e.highScore = hs
	e.log.Debug("restored %d reports, high score %d", len(h.Sessions), hs)
	return nil
}

// ListLevels returns the story levels.
func (e *Engine) ListLevels(ctx context.Context) ([]domain.LevelSummary, error) {
	return e.levels.List(ctx)
}

// SelectLevel stages story level index (0-based) in the menu.
func (e *Engine) SelectLevel(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active() {
		return domain.ErrLevelActive
	}
	return e.stageStory(ctx, index)
}

func (e *Engine) stageStory(ctx context.Context, index int) error {
	l, err := e.levels.Get(ctx, index)
	if err != nil {
		return fmt.Errorf("getting level %d: %w", index+1, err)
	}
	e.mode = domain.ModeStory
	e.index = index
	e.level = l
	e.required = e.cfg.Required
	e.phase = domain.PhaseMenu
	e.last = nil
	e.log.Info("staged %s", l.Name)
	return nil
}

// StartEndless begins a new endless run and stages its first wave.
func (e *Engine) StartEndless(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active() {
		return domain.ErrLevelActive
	}
	return e.startEndless(ctx)
}

func (e *Engine) startEndless(ctx context.Context) error {
	pool, err := e.levels.Pool(ctx)
	if err != nil {
		return fmt.Errorf("getting endless pool: %w", err)
	}

	e.mode = domain.ModeEndless
	e.runID = uuid.NewString()
	e.wave = 1
	e.required = e.cfg.Required
	e.kitchen.SetScore(0)
	e.level = e.generateWave(pool)
	e.phase = domain.PhaseMenu
	e.last = nil
	e.log.Info("endless run %s started", e.runID)
	return nil
}

// Start begins the staged level or wave.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case domain.PhaseRunning, domain.PhasePaused:
		return domain.ErrLevelActive
	case domain.PhaseMenu:
	default:
		return domain.ErrNoLevel
	}

	e.sched.Clear()
	e.kitchen.Reset()
	e.tracker.Reset(e.sched.Now())
	e.timeLeft = int(e.cfg.LevelTime / time.Second)
	if e.mode == domain.ModeStory {
		e.kitchen.SetScore(0)
	}
	e.phase = domain.PhaseRunning

	e.clockTok = e.sched.Every(e.cfg.Tick, func(time.Duration) { e.tick() })
	e.log.Info("%s started (need %d, %ds)", e.level.Name, e.required, e.timeLeft)
	e.hooks.LevelStarted(e.level.Name, e.mode)
	e.hooks.ScoreChanged(e.kitchen.Score())
	e.spawn()
	return nil
}

// Next stages the story level after the one just cleared.
func (e *Engine) Next(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active() {
		return domain.ErrLevelActive
	}
	if e.phase != domain.PhaseEnded || e.last == nil || !e.last.HasNext {
		return domain.ErrNoNextLevel
	}
	return e.stageStory(ctx, e.index+1)
}

// Restart stages the last story level again, or a fresh endless run after
// game over.
func (e *Engine) Restart(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active() {
		return domain.ErrLevelActive
	}
	if e.level == nil {
		return domain.ErrNoLevel
	}
	if e.mode == domain.ModeEndless {
		return e.startEndless(ctx)
	}
	return e.stageStory(ctx, e.index)
}

// Pause freezes virtual time.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != domain.PhaseRunning {
		return domain.ErrNotRunning
	}
	e.phase = domain.PhasePaused
	e.log.Info("paused with %ds left", e.timeLeft)
	return nil
}

// Resume continues a paused level.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != domain.PhasePaused {
		return domain.ErrNotRunning
	}
	e.phase = domain.PhaseRunning
	e.log.Info("resumed")
	return nil
}

// Move walks the player to the station of object. It returns false when no
// level is running or the object is unknown.
func (e *Engine) Move(object string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != domain.PhaseRunning {
		return false
	}
	return e.kitchen.MoveTo(object)
}

// Advance moves virtual time forward by d and fires everything due. It does
// nothing unless a level is running.
func (e *Engine) Advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != domain.PhaseRunning {
		return
	}
	e.sched.Advance(d)
}

// Running reports whether a level is in play, paused or not.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active()
}

// Phase returns the current phase.
func (e *Engine) Phase() domain.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Result returns the outcome of the last finished level.
func (e *Engine) Result() (domain.LevelResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return domain.LevelResult{}, false
	}
	return *e.last, true
}

// History returns a copy of today's reports and totals.
func (e *Engine) History() stats.History {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := *e.history
	h.Sessions = append([]domain.Report(nil), e.history.Sessions...)
	return h
}

// Snapshot returns a consistent copy of the game for rendering.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := domain.Snapshot{
		Phase:      e.phase,
		Mode:       e.mode,
		TimeLeft:   e.timeLeft,
		Score:      e.kitchen.Score(),
		Required:   e.required,
		HighScore:  e.highScore,
		Station:    e.kitchen.Station().Object,
		Held:       e.kitchen.Held(),
		Processors: e.kitchen.ProcessorViews(),
		Plates:     e.kitchen.PlateViews(),
	}
	if e.mode == domain.ModeEndless {
		s.Wave = e.wave
	}
	if e.level != nil {
		s.LevelName = e.level.Name
		s.Menu = e.level.Menu()
	}
	return s
}

func (e *Engine) active() bool {
	return e.phase == domain.PhaseRunning || e.phase == domain.PhasePaused
}

func (e *Engine) today() string {
	return e.clock().Format("2006-01-02")
}
