package sfx

import (
	"context"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

var _ domain.Hooks = (*Hooks)(nil)

// Hooks turns game events into sound cues. Events arrive with the game
// lock held, so they are only queued here; Run plays them.
type Hooks struct {
	domain.NopHooks
	bank  *Bank
	out   Output
	log   *logger.Logger
	queue chan Sound
}

// NewHooks creates sound hooks that play cues from bank through out.
func NewHooks(bank *Bank, out Output, log *logger.Logger) *Hooks {
	return &Hooks{
		bank:  bank,
		out:   out,
		log:   log,
		queue: make(chan Sound, 32),
	}
}

// Run plays queued cues until ctx is cancelled.
func (h *Hooks) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-h.queue:
			h.out.Play(h.bank.PCM(s))
		}
	}
}

// cue queues a sound, dropping it when the queue is full.
func (h *Hooks) cue(s Sound) {
	select {
	case h.queue <- s:
	default:
		h.log.Debug("sfx: queue full, dropped %s", s)
	}
}

func (h *Hooks) ItemPickedUp(domain.Item, domain.Station) { h.cue(SoundPickup) }

func (h *Hooks) ItemDropped(domain.Item, domain.Station) { h.cue(SoundDrop) }

func (h *Hooks) ProcessorReady(domain.StationKind, domain.Item) { h.cue(SoundReady) }

func (h *Hooks) CustomerSpawned(domain.CustomerView, int) { h.cue(SoundSpawn) }

func (h *Hooks) CustomerResolved(c domain.CustomerView, _ int, _ int) {
	if c.State == domain.CustomerServed {
		h.cue(SoundHappy)
		return
	}
	h.cue(SoundAngry)
}

func (h *Hooks) LevelEnded(r domain.LevelResult) {
	if r.Completed {
		h.cue(SoundLevelWon)
		return
	}
	h.cue(SoundLevelLost)
}
