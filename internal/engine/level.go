package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/level"
	"github.com/hammamikhairi/outbackcafe/internal/stats"
)

// tick is the level clock. The end check sees the score as it stands at
// this tick.
func (e *Engine) tick() {
	if e.phase != domain.PhaseRunning {
		return
	}
	e.timeLeft--
	if e.timeLeft <= 0 || e.kitchen.Score() >= e.required {
		e.endLevel()
	}
}

// spawn tries to seat one random customer and always schedules the next
// attempt. A spawn with no free plate is dropped, not queued.
func (e *Engine) spawn() {
	if e.phase != domain.PhaseRunning || e.level == nil || len(e.level.Customers) == 0 {
		return
	}
	a := e.level.Customers[e.rng.IntN(len(e.level.Customers))]
	e.kitchen.Spawn(a)

	e.spawnTok = e.sched.After(e.spawnDelay(), func(time.Duration) { e.spawn() })
}

// spawnDelay is uniform over [SpawnMin, SpawnMax] at millisecond grain.
func (e *Engine) spawnDelay() time.Duration {
	lo := e.cfg.SpawnMin.Milliseconds()
	hi := e.cfg.SpawnMax.Milliseconds()
	return time.Duration(lo+e.rng.Int64N(hi-lo+1)) * time.Millisecond
}

// endLevel tears the floor down, records the report and decides what comes
// next.
func (e *Engine) endLevel() {
	now := e.sched.Now()
	dropped := e.sched.Clear()
	e.clockTok, e.spawnTok = 0, 0
	e.kitchen.Reset()

	score := e.kitchen.Score()
	base := e.level.Name
	report := e.tracker.Report(fmt.Sprintf("%s (Attempt %d)", base, e.history.Attempt(base)), now, e.level)
	e.history.Add(report)
	e.persistHistory()

	res := domain.LevelResult{
		Mode:      e.mode,
		LevelName: base,
		Score:     score,
		Required:  e.required,
		Completed: score >= e.required,
		Report:    report,
	}

	switch e.mode {
	case domain.ModeEndless:
		if res.Completed {
			e.required += e.cfg.ThresholdStep
			e.wave++
			e.stageWave()
			res.Continued = true
		} else {
			if score > e.highScore {
				e.highScore = score
			}
			e.persistHighScore()
			e.phase = domain.PhaseGameOver
		}
		res.HighScore = e.highScore
	default:
		if res.Completed {
			if list, err := e.levels.List(context.Background()); err == nil {
				res.HasNext = e.index+1 < len(list)
			} else {
				e.log.Warn("listing levels: %v", err)
			}
		}
		e.phase = domain.PhaseEnded
	}

	e.last = &res
	e.log.Info("%s ended: score %d/%d, completed=%v (%d events dropped)",
		base, score, res.Required, res.Completed, dropped)
	e.hooks.LevelEnded(res)
}

// stageWave puts the next endless wave in the menu; the score carries over.
func (e *Engine) stageWave() {
	pool, err := e.levels.Pool(context.Background())
	if err != nil {
		e.log.Error("getting endless pool: %v", err)
		e.phase = domain.PhaseGameOver
		return
	}
	e.level = e.generateWave(pool)
	e.phase = domain.PhaseMenu
}

// generateWave samples WaveSize distinct archetypes from pool.
func (e *Engine) generateWave(pool []domain.Archetype) *domain.Level {
	n := min(e.cfg.WaveSize, len(pool))
	picked := make([]domain.Archetype, 0, n)
	for _, i := range e.rng.Perm(len(pool))[:n] {
		a := pool[i]
		if a.PatienceSeconds <= 0 {
			a.PatienceSeconds = level.DefaultPatience
		}
		picked = append(picked, a)
	}
	name := fmt.Sprintf("Endless Wave %d", e.wave)
	e.log.Debug("generated %s with %d archetypes", name, len(picked))
	return &domain.Level{
		ID:        fmt.Sprintf("endless-%d", e.wave),
		Name:      name,
		Customers: picked,
		Endless:   true,
	}
}

func (e *Engine) persistHistory() {
	if err := stats.SaveHistory(context.Background(), e.store, e.history, e.today()); err != nil {
		e.log.Error("persisting history: %v", err)
	}
}

func (e *Engine) persistHighScore() {
	if err := stats.SaveHighScore(context.Background(), e.store, e.highScore); err != nil {
		e.log.Error("persisting high score: %v", err)
	}
}
