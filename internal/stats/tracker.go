// Package stats tracks per-level play metrics and aggregates them into a
// history that survives across levels of the same day.
package stats

import (
	"math"
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
)

// idleStep is the granularity of the anticipation penalty: every full five
// seconds a processor sat idle costs five percent.
const idleStep = 5.0

// idleClock accumulates how long a processor sat empty while the player was
// busy elsewhere.
type idleClock struct {
	since   time.Duration
	running bool
	total   time.Duration
}

// Tracker collects the raw counters of one level or wave.
type Tracker struct {
	startedAt   time.Duration
	spawned     int
	served      int
	seen        map[string]bool
	servedTypes map[string]bool
	patiences   []float64
	coolerIdle  idleClock
	chopperIdle idleClock
}

// NewTracker creates a tracker starting at the given virtual time.
func NewTracker(start time.Duration) *Tracker {
	t := &Tracker{}
	t.Reset(start)
	return t
}

// Reset clears every counter and restarts the level clock at start.
func (t *Tracker) Reset(start time.Duration) {
	*t = Tracker{
		startedAt:   start,
		seen:        make(map[string]bool),
		servedTypes: make(map[string]bool),
	}
}

// Spawned records a customer arrival.
func (t *Tracker) Spawned(name string) {
	t.spawned++
	t.seen[name] = true
}

// Served records a correct serve and the patience left at that moment.
func (t *Tracker) Served(name string, patience float64) {
	t.served++
	t.servedTypes[name] = true
	t.patiences = append(t.patiences, patience)
}

// Counts returns customers served and spawned so far.
func (t *Tracker) Counts() (served, spawned int) { return t.served, t.spawned }

// ObserveDrop updates a processor's idle clock. It is evaluated on every drop
// attempt: an empty processor the player is not standing at starts (or keeps)
// the clock running; a loaded processor stops it and banks the idle time.
func (t *Tracker) ObserveDrop(now time.Duration, kind domain.StationKind, empty, atStation bool) {
	var c *idleClock
	switch kind {
	case domain.StationCooler:
		c = &t.coolerIdle
	case domain.StationChopper:
		c = &t.chopperIdle
	default:
		return
	}

	switch {
	case empty && !atStation:
		if !c.running {
			c.running = true
			c.since = now
		}
	case !empty && c.running:
		c.total += now - c.since
		c.running = false
	}
}

// Idle returns the banked idle time of a processor.
func (t *Tracker) Idle(kind domain.StationKind) time.Duration {
	switch kind {
	case domain.StationCooler:
		return t.coolerIdle.total
	case domain.StationChopper:
		return t.chopperIdle.total
	}
	return 0
}

// Report computes the metrics record for the level at virtual time now.
func (t *Tracker) Report(name string, now time.Duration, level *domain.Level) domain.Report {
	r := domain.Report{
		LevelName:           name,
		CustomersServed:     t.served,
		CustomersSpawned:    t.spawned,
		AnticipationPercent: 100,
		DurationSeconds:     math.Round((now-t.startedAt).Seconds()*10) / 10,
	}

	if len(t.seen) > 0 {
		r.PlanningPercent = float64(len(t.servedTypes)) / float64(len(t.seen)) * 100
	}

	if len(t.patiences) > 0 {
		sum := 0.0
		for _, p := range t.patiences {
			sum += p
		}
		r.ServeSpeedPercent = clamp(sum/float64(len(t.patiences))*100, 0, 100)
	}

	if level != nil && level.NeedsCooler() {
		r.AnticipationPercent -= idlePenalty(t.coolerIdle.total)
	}
	if level != nil && level.NeedsChopper() {
		r.AnticipationPercent -= idlePenalty(t.chopperIdle.total)
	}
	r.AnticipationPercent = math.Max(0, r.AnticipationPercent)

	return r
}

func idlePenalty(idle time.Duration) float64 {
	return math.Min(100, math.Floor(idle.Seconds()/idleStep)*idleStep)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
