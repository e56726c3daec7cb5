package domain

import "time"

// Phase tracks where the game is between and during levels.
type Phase int

const (
	// PhaseIdle: nothing staged, main menu.
	PhaseIdle Phase = iota
	// PhaseMenu: a level is staged and its recipes are shown.
	PhaseMenu
	PhaseRunning
	PhasePaused
	// PhaseEnded: a level finished; next/restart are offered.
	PhaseEnded
	// PhaseGameOver: an endless run finished below threshold.
	PhaseGameOver
)

// String returns a human-readable phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMenu:
		return "menu"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseEnded:
		return "ended"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Mode selects story levels or endless waves.
type Mode int

const (
	ModeStory Mode = iota
	ModeEndless
)

// String returns a human-readable mode.
func (m Mode) String() string {
	if m == ModeEndless {
		return "endless"
	}
	return "story"
}

// CustomerState is the lifecycle of one customer.
type CustomerState int

const (
	CustomerActive CustomerState = iota
	CustomerServed
	CustomerAngry
	CustomerRemoved
)

// String returns a human-readable customer state.
func (s CustomerState) String() string {
	switch s {
	case CustomerActive:
		return "active"
	case CustomerServed:
		return "served"
	case CustomerAngry:
		return "angry"
	case CustomerRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ProcessorState is the lifecycle of a chopper or cooler.
type ProcessorState int

const (
	ProcessorEmpty ProcessorState = iota
	ProcessorBusy
	ProcessorReady
)

// String returns a human-readable processor state.
func (s ProcessorState) String() string {
	switch s {
	case ProcessorEmpty:
		return "empty"
	case ProcessorBusy:
		return "busy"
	case ProcessorReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Report is the per-level metrics record appended to session history.
type Report struct {
	LevelName           string  `json:"levelName"`
	PlanningPercent     float64 `json:"planningPercent"`
	ServeSpeedPercent   float64 `json:"serveSpeedPercent"`
	AnticipationPercent float64 `json:"anticipationPercent"`
	CustomersServed     int     `json:"totalCustomersServed"`
	CustomersSpawned    int     `json:"totalCustomersSpawned"`
	DurationSeconds     float64 `json:"duration"`
}

// LevelResult is what the controller decided when a level ended.
type LevelResult struct {
	Mode      Mode
	LevelName string
	Score     int
	Required  int
	Completed bool // threshold met
	HasNext   bool // story mode: another level is available
	Continued bool // endless mode: a new wave was staged
	HighScore int  // endless mode only
	Report    Report
}

// ProcessorView is a read-only copy of a processor for rendering.
type ProcessorView struct {
	Kind    StationKind
	State   ProcessorState
	Item    Item
	ReadyIn time.Duration
}

// CustomerView is a read-only copy of a customer for rendering.
type CustomerView struct {
	ID       string
	Name     string
	Meal     []string
	Patience float64
	State    CustomerState
}

// PlateView is a read-only copy of a plate and its customer.
type PlateView struct {
	Index    int
	Contents []string
	Customer *CustomerView
}

// Snapshot is a consistent read-only copy of the whole game for the UI.
type Snapshot struct {
	Phase      Phase
	Mode       Mode
	LevelName  string
	TimeLeft   int
	Score      int
	Required   int
	Wave       int
	HighScore  int
	Station    string
	Held       Item
	Processors []ProcessorView
	Plates     []PlateView
	Menu       []Archetype
}
