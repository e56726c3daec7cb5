package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
)

// Keys under which history and high score are persisted.
const (
	KeyHistory     = "stats"
	KeyHistoryDate = "stats_date"
	KeyHighScore   = "endless_high_score"
)

// History is the running aggregate of every report played today.
type History struct {
	Sessions              []domain.Report `json:"sessions"`
	TotalPlanning         float64         `json:"totalPlanning"`
	TotalServeSpeed       float64         `json:"totalServeSpeed"`
	TotalAnticipation     float64         `json:"totalAnticipation"`
	TotalLevelsPlayed     int             `json:"totalLevelsPlayed"`
	TotalCustomersServed  int             `json:"totalCustomersServed"`
	TotalCustomersSpawned int             `json:"totalCustomersSpawned"`
	TotalDuration         float64         `json:"totalDuration"`
}

// Attempt returns the attempt number the next report for base would carry.
func (h *History) Attempt(base string) int {
	n := 1
	for _, s := range h.Sessions {
		if s.LevelName == base || strings.HasPrefix(s.LevelName, base+" (") {
			n++
		}
	}
	return n
}

// Add appends a report and folds it into the totals.
func (h *History) Add(r domain.Report) {
	h.Sessions = append(h.Sessions, r)
	h.TotalPlanning += r.PlanningPercent
	h.TotalServeSpeed += r.ServeSpeedPercent
	h.TotalAnticipation += r.AnticipationPercent
	h.TotalLevelsPlayed++
	h.TotalCustomersServed += r.CustomersServed
	h.TotalCustomersSpawned += r.CustomersSpawned
	h.TotalDuration += r.DurationSeconds
}

// Averages returns the mean planning, serve-speed and anticipation percents.
func (h *History) Averages() (planning, serveSpeed, anticipation float64) {
	if h.TotalLevelsPlayed == 0 {
		return 0, 0, 0
	}
	n := float64(h.TotalLevelsPlayed)
	return h.TotalPlanning / n, h.TotalServeSpeed / n, h.TotalAnticipation / n
}

// LoadHistory restores today's history from the store. A history saved on a
// different day is discarded and an empty one returned.
func LoadHistory(ctx context.Context, store domain.KVStore, today string) (*History, error) {
	date, err := store.Get(ctx, KeyHistoryDate)
	if errors.Is(err, domain.ErrNotFound) {
		return &History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading history date: %w", err)
	}

	if string(date) != today {
		if err := store.Delete(ctx, KeyHistory); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("dropping stale history: %w", err)
		}
		if err := store.Delete(ctx, KeyHistoryDate); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("dropping stale history date: %w", err)
		}
		return &History{}, nil
	}

	raw, err := store.Get(ctx, KeyHistory)
	if errors.Is(err, domain.ErrNotFound) {
		return &History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	h := &History{}
	if err := json.Unmarshal(raw, h); err != nil {
		return nil, fmt.Errorf("decoding history: %w", err)
	}
	return h, nil
}

// SaveHistory writes the history and today's date stamp.
func SaveHistory(ctx context.Context, store domain.KVStore, h *History, today string) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := store.Put(ctx, KeyHistory, raw); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	if err := store.Put(ctx, KeyHistoryDate, []byte(today)); err != nil {
		return fmt.Errorf("saving history date: %w", err)
	}
	return nil
}

// LoadHighScore returns the stored endless high score, 0 if none.
func LoadHighScore(ctx context.Context, store domain.KVStore) (int, error) {
	raw, err := store.Get(ctx, KeyHighScore)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("loading high score: %w", err)
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("decoding high score %q: %w", raw, err)
	}
	return n, nil
}

// SaveHighScore persists the endless high score.
func SaveHighScore(ctx context.Context, store domain.KVStore, score int) error {
	if err := store.Put(ctx, KeyHighScore, []byte(strconv.Itoa(score))); err != nil {
		return fmt.Errorf("saving high score: %w", err)
	}
	return nil
}
