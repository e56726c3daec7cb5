package domain

// IntentType classifies what the player wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentMove               // payload: station object, e.g. "plate2"
	IntentListLevels
	IntentSelectLevel // payload: 1-based level number
	IntentStart
	IntentEndless
	IntentNext
	IntentRestart
	IntentPause
	IntentResume
	IntentStatus
	IntentStats
	IntentQuit
	IntentHelp
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentMove:
		return "move"
	case IntentListLevels:
		return "list_levels"
	case IntentSelectLevel:
		return "select_level"
	case IntentStart:
		return "start"
	case IntentEndless:
		return "endless"
	case IntentNext:
		return "next"
	case IntentRestart:
		return "restart"
	case IntentPause:
		return "pause"
	case IntentResume:
		return "resume"
	case IntentStatus:
		return "status"
	case IntentStats:
		return "stats"
	case IntentQuit:
		return "quit"
	case IntentHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Intent represents a parsed player action.
type Intent struct {
	Type    IntentType
	Payload string
}
