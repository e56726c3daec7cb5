package domain

import "errors"

// Sentinel errors used across layers. Gameplay actions never return these;
// they only surface from level control and persistence.
var (
	ErrNotFound     = errors.New("not found")
	ErrLevelActive  = errors.New("a level is already running")
	ErrNotRunning   = errors.New("no level is running")
	ErrNoLevel      = errors.New("no level is staged")
	ErrNoNextLevel  = errors.New("no next level")
	ErrPaused       = errors.New("level is paused")
	ErrInvalidLevel = errors.New("invalid level definition")
)
