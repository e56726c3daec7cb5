// Package kitchen holds the cafe floor: stations, the two processors, the
// plates, the customers waiting at them and the single player carrying an
// item between them. Everything here runs on virtual time driven by a
// sched.Scheduler and is not safe for concurrent use; the engine serializes
// access.
package kitchen

import (
	"math"
	"math/bits"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
	"github.com/hammamikhairi/outbackcafe/internal/sched"
	"github.com/hammamikhairi/outbackcafe/internal/stats"
)

// Config holds the kitchen's timing and scoring knobs.
type Config struct {
	ProcessDelay  time.Duration // chopper and cooler transform time
	ResolveDelay  time.Duration // served/angry customer lingers this long
	PatienceTick  time.Duration
	PointsPerMeal int // scaled by patience left
	AngryPenalty  int
	PlateCapacity int
}

// DefaultConfig returns the stock timings: 4s processing, 1s linger, 1s
// patience tick, 100 points per meal, 10 point penalty, three items a plate.
func DefaultConfig() Config {
	return Config{
		ProcessDelay:  4 * time.Second,
		ResolveDelay:  time.Second,
		PatienceTick:  time.Second,
		PointsPerMeal: 100,
		AngryPenalty:  10,
		PlateCapacity: 3,
	}
}

// Option configures a Kitchen.
type Option func(*Kitchen)

// WithConfig overrides the default timings. Zero fields keep their default.
func WithConfig(cfg Config) Option {
	return func(k *Kitchen) {
		def := DefaultConfig()
		if cfg.ProcessDelay <= 0 {
			cfg.ProcessDelay = def.ProcessDelay
		}
		if cfg.ResolveDelay <= 0 {
			cfg.ResolveDelay = def.ResolveDelay
		}
		if cfg.PatienceTick <= 0 {
			cfg.PatienceTick = def.PatienceTick
		}
		if cfg.PointsPerMeal <= 0 {
			cfg.PointsPerMeal = def.PointsPerMeal
		}
		if cfg.AngryPenalty < 0 {
			cfg.AngryPenalty = def.AngryPenalty
		}
		if cfg.PlateCapacity <= 0 {
			cfg.PlateCapacity = def.PlateCapacity
		}
		k.cfg = cfg
	}
}

// WithHooks sets the notification sink.
func WithHooks(h domain.Hooks) Option {
	return func(k *Kitchen) {
		if h != nil {
			k.hooks = h
		}
	}
}

// WithRegistry replaces the default station layout.
func WithRegistry(r *Registry) Option {
	return func(k *Kitchen) {
		if r != nil {
			k.registry = r
		}
	}
}

// WithIDs replaces the customer ID generator.
func WithIDs(next func() string) Option {
	return func(k *Kitchen) {
		if next != nil {
			k.newID = next
		}
	}
}

// Kitchen is the single owned game state for one level.
type Kitchen struct {
	cfg      Config
	registry *Registry
	sched    *sched.Scheduler
	tracker  *stats.Tracker
	hooks    domain.Hooks
	log      *logger.Logger
	newID    func() string

	station domain.Station
	held    domain.Item

	chopper *Processor
	cooler  *Processor

	plates    []*Plate
	free      uint32 // bit i set: plate i has no customer
	customers []*Customer

	score int
}

// New creates a kitchen on the given scheduler. Metrics are reported to
// tracker.
func New(s *sched.Scheduler, tracker *stats.Tracker, log *logger.Logger, opts ...Option) *Kitchen {
	k := &Kitchen{
		cfg:      DefaultConfig(),
		registry: DefaultRegistry(),
		sched:    s,
		tracker:  tracker,
		hooks:    domain.NopHooks{},
		log:      log,
		newID:    uuid.NewString,
		chopper:  newProcessor(domain.StationChopper),
		cooler:   newProcessor(domain.StationCooler),
	}
	for _, opt := range opts {
		opt(k)
	}

	n := k.registry.PlateCount()
	k.plates = make([]*Plate, n)
	for i := range k.plates {
		k.plates[i] = newPlate(i, k.cfg.PlateCapacity)
	}
	k.free = allPlates(n)
	k.station = k.registry.Start()
	return k
}

func allPlates(n int) uint32 {
	if n >= 32 {
		return math.MaxUint32
	}
	return uint32(1)<<n - 1
}

// Registry returns the station layout.
func (k *Kitchen) Registry() *Registry { return k.registry }

// Config returns the active timings.
func (k *Kitchen) Config() Config { return k.cfg }

// Station returns where the player stands.
func (k *Kitchen) Station() domain.Station { return k.station }

// Held returns the carried item, zero when empty-handed.
func (k *Kitchen) Held() domain.Item { return k.held }

// Score returns the current score.
func (k *Kitchen) Score() int { return k.score }

// SetScore overwrites the score, used when a level or wave starts.
func (k *Kitchen) SetScore(v int) { k.score = v }

// Plate returns plate i, nil when out of range.
func (k *Kitchen) Plate(i int) *Plate {
	if i < 0 || i >= len(k.plates) {
		return nil
	}
	return k.plates[i]
}

// Processor returns the chopper or the cooler.
func (k *Kitchen) Processor(kind domain.StationKind) *Processor {
	switch kind {
	case domain.StationChopper:
		return k.chopper
	case domain.StationCooler:
		return k.cooler
	}
	return nil
}

// Customers returns the customers currently on the floor, including ones
// that are served or angry but not yet removed.
func (k *Kitchen) Customers() []*Customer {
	out := make([]*Customer, len(k.customers))
	copy(out, k.customers)
	return out
}

// FreePlate returns the lowest free plate index.
func (k *Kitchen) FreePlate() (int, bool) {
	if k.free == 0 {
		return 0, false
	}
	return bits.TrailingZeros32(k.free), true
}

// FreePlates returns how many plates have no customer.
func (k *Kitchen) FreePlates() int { return bits.OnesCount32(k.free) }

// Spawn seats a customer of the given archetype at the lowest free plate.
// It returns nil when every plate is taken.
func (k *Kitchen) Spawn(a domain.Archetype) *Customer {
	idx, ok := k.FreePlate()
	if !ok {
		k.log.Debug("no free plate for %s, spawn dropped", a.Name)
		return nil
	}

	c := newCustomer(k.newID(), a, idx)
	plate := k.plates[idx]
	plate.clear()
	plate.customer = c
	k.free &^= 1 << idx
	k.customers = append(k.customers, c)

	c.timer = k.sched.Every(k.cfg.PatienceTick, func(time.Duration) {
		k.tickPatience(c)
	})

	k.tracker.Spawned(c.Name)
	k.log.Debug("customer %s (%s) seated at plate %d wanting %v", c.ID, c.Name, idx+1, c.Meal)
	k.hooks.CustomerSpawned(c.View(), idx)
	return c
}

func (k *Kitchen) tickPatience(c *Customer) {
	if c.State != domain.CustomerActive {
		k.sched.Cancel(c.timer)
		return
	}
	if c.decay() {
		k.resolve(c, VerdictAngry)
	}
}

// serve evaluates plate contents for a bound customer. It does nothing once
// the customer has left the Active state.
func (k *Kitchen) serve(c *Customer, contents []string) Verdict {
	if c == nil || c.State != domain.CustomerActive {
		return VerdictPending
	}
	v := c.Evaluate(contents)
	if v != VerdictPending {
		k.resolve(c, v)
	}
	return v
}

func (k *Kitchen) resolve(c *Customer, v Verdict) {
	k.sched.Cancel(c.timer)
	c.timer = 0

	var delta int
	switch v {
	case VerdictServed:
		c.State = domain.CustomerServed
		delta = int(math.Round(float64(k.cfg.PointsPerMeal) * c.Patience))
		k.tracker.Served(c.Name, c.Patience)
		k.log.Debug("customer %s served at plate %d, +%d", c.Name, c.Plate+1, delta)
	case VerdictAngry:
		c.State = domain.CustomerAngry
		delta = -k.cfg.AngryPenalty
		k.log.Debug("customer %s angry at plate %d, %d", c.Name, c.Plate+1, delta)
	default:
		return
	}

	k.score += delta
	k.hooks.CustomerResolved(c.View(), c.Plate, delta)
	k.hooks.ScoreChanged(k.score)

	k.sched.After(k.cfg.ResolveDelay, func(time.Duration) {
		k.release(c)
	})
}

// release frees the customer's plate and takes them off the floor.
func (k *Kitchen) release(c *Customer) {
	if c.State == domain.CustomerRemoved {
		return
	}
	k.sched.Cancel(c.timer)
	c.State = domain.CustomerRemoved

	if p := k.Plate(c.Plate); p != nil && p.customer == c {
		p.clear()
		p.customer = nil
		k.free |= 1 << c.Plate
	}
	for i, other := range k.customers {
		if other == c {
			k.customers = append(k.customers[:i], k.customers[i+1:]...)
			break
		}
	}
}

// Reset returns the floor to its start state: the held item is destroyed,
// processors are emptied, every customer is removed and every plate is
// cleared and freed. The score is left alone.
func (k *Kitchen) Reset() {
	k.held = domain.Item{}
	k.station = k.registry.Start()

	for _, p := range []*Processor{k.chopper, k.cooler} {
		k.sched.Cancel(p.token)
		p.reset()
	}
	for _, c := range k.Customers() {
		k.release(c)
	}
	for _, p := range k.plates {
		p.clear()
		p.customer = nil
	}
	k.customers = nil
	k.free = allPlates(len(k.plates))
}

// ProcessorViews returns the cooler then the chopper.
func (k *Kitchen) ProcessorViews() []domain.ProcessorView {
	now := k.sched.Now()
	return []domain.ProcessorView{k.cooler.view(now), k.chopper.view(now)}
}

// PlateViews returns every plate with its bound customer.
func (k *Kitchen) PlateViews() []domain.PlateView {
	out := make([]domain.PlateView, len(k.plates))
	for i, p := range k.plates {
		out[i] = domain.PlateView{Index: i, Contents: p.Contents()}
		if p.customer != nil {
			v := p.customer.View()
			out[i].Customer = &v
		}
	}
	return out
}
