package display

import (
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
)

func TestRenderHUDIdle(t *testing.T) {
	if got := RenderHUD(domain.Snapshot{Phase: domain.PhaseIdle}, 80); got != "" {
		t.Fatalf("expected empty HUD when idle, got %q", got)
	}
}

func TestRenderHUDMenu(t *testing.T) {
	s := domain.Snapshot{
		Phase:     domain.PhaseMenu,
		LevelName: "Level 2",
		TimeLeft:  60,
		Required:  300,
		Menu: []domain.Archetype{
			{Name: "Koala", Meal: []string{"ingredient1"}},
			{Name: "Kangaroo", Meal: []string{"ingredient2", "ingredientCupFilled"}},
		},
	}
	got := RenderHUD(s, 100)
	for _, want := range []string{"Level 2", "Koala", "Kangaroo", "i2 + cup (filled)", "start"} {
		if !strings.Contains(got, want) {
			t.Errorf("menu HUD missing %q:\n%s", want, got)
		}
	}
}

func TestRenderHUDRunning(t *testing.T) {
	s := domain.Snapshot{
		Phase:     domain.PhaseRunning,
		Mode:      domain.ModeEndless,
		LevelName: "Endless Wave 2",
		TimeLeft:  42,
		Score:     175,
		Required:  400,
		HighScore: 900,
		Station:   "spot12",
		Held:      domain.Item{Base: "ingredient3", State: domain.ItemChopped, Choppable: true},
		Processors: []domain.ProcessorView{
			{Kind: domain.StationCooler, State: domain.ProcessorBusy, Item: domain.Item{Base: "ingredientCup", Cup: true}, ReadyIn: 2500 * time.Millisecond},
			{Kind: domain.StationChopper, State: domain.ProcessorEmpty},
		},
		Plates: []domain.PlateView{
			{Index: 0, Contents: []string{"ingredient1"}, Customer: &domain.CustomerView{
				ID: "a", Name: "Wombat", Meal: []string{"ingredient1", "ingredient2"}, Patience: 0.6,
			}},
			{Index: 1},
		},
	}
	got := RenderHUD(s, 120)
	for _, want := range []string{
		"Endless Wave 2", "42s", "175/400", "best", "900",
		"spot12", "i3 (chopped)",
		"cooler", "2.5s", "chopper", "empty",
		"[1]", "Wombat", "wants i1 + i2", "on plate: i1",
		"[2]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("running HUD missing %q:\n%s", want, got)
		}
	}
}

func TestPatienceBar(t *testing.T) {
	tests := []struct {
		patience float64
		full     int
	}{
		{1, 10},
		{0.5, 5},
		{0.04, 0},
		{0, 0},
		{-1, 0},
		{2, 10},
	}
	for _, tt := range tests {
		bar := PatienceBar(tt.patience)
		if got := strings.Count(bar, "█"); got != tt.full {
			t.Errorf("PatienceBar(%v) filled %d, want %d", tt.patience, got, tt.full)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != barWidth {
			t.Errorf("PatienceBar(%v) width %d, want %d", tt.patience, got, barWidth)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		snap domain.Snapshot
		want string
	}{
		{"idle", domain.Snapshot{}, "Outback Cafe"},
		{"running", domain.Snapshot{Phase: domain.PhaseRunning, LevelName: "Level 1", TimeLeft: 9, Score: 50, Required: 300}, "Outback Cafe | Level 1 | 9s | 50/300"},
		{"paused", domain.Snapshot{Phase: domain.PhasePaused, LevelName: "Level 1"}, "Outback Cafe | Level 1 | paused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.snap); got != tt.want {
				t.Fatalf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCenterBanner(t *testing.T) {
	got := centerBanner("ab\nabcd\n", 10)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "   ") {
			t.Errorf("expected 3 columns of padding, got %q", l)
		}
	}
	if narrow := centerBanner("abcd", 2); strings.HasPrefix(narrow, " ") {
		t.Errorf("no padding expected when the terminal is narrower than the art, got %q", narrow)
	}
}
