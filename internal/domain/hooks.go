package domain

// Hooks receives fire-and-forget notifications about state changes. The core
// never reads anything back. Methods are called with the game lock held, so
// implementations must not call back into the engine.
type Hooks interface {
	ItemPickedUp(item Item, station Station)
	ItemDropped(item Item, station Station)
	ProcessorReady(kind StationKind, item Item)
	CustomerSpawned(c CustomerView, plate int)
	CustomerResolved(c CustomerView, plate int, delta int)
	ScoreChanged(score int)
	LevelStarted(name string, mode Mode)
	LevelEnded(result LevelResult)
}

// NopHooks ignores every notification. Embed it to implement a subset.
type NopHooks struct{}

func (NopHooks) ItemPickedUp(Item, Station)              {}
func (NopHooks) ItemDropped(Item, Station)               {}
func (NopHooks) ProcessorReady(StationKind, Item)        {}
func (NopHooks) CustomerSpawned(CustomerView, int)       {}
func (NopHooks) CustomerResolved(CustomerView, int, int) {}
func (NopHooks) ScoreChanged(int)                        {}
func (NopHooks) LevelStarted(string, Mode)               {}
func (NopHooks) LevelEnded(LevelResult)                  {}

// MultiHooks fans every notification out to each hook in order.
type MultiHooks []Hooks

func (m MultiHooks) ItemPickedUp(item Item, s Station) {
	for _, h := range m {
		h.ItemPickedUp(item, s)
	}
}

func (m MultiHooks) ItemDropped(item Item, s Station) {
	for _, h := range m {
		h.ItemDropped(item, s)
	}
}

func (m MultiHooks) ProcessorReady(kind StationKind, item Item) {
	for _, h := range m {
		h.ProcessorReady(kind, item)
	}
}

func (m MultiHooks) CustomerSpawned(c CustomerView, plate int) {
	for _, h := range m {
		h.CustomerSpawned(c, plate)
	}
}

func (m MultiHooks) CustomerResolved(c CustomerView, plate int, delta int) {
	for _, h := range m {
		h.CustomerResolved(c, plate, delta)
	}
}

func (m MultiHooks) ScoreChanged(score int) {
	for _, h := range m {
		h.ScoreChanged(score)
	}
}

func (m MultiHooks) LevelStarted(name string, mode Mode) {
	for _, h := range m {
		h.LevelStarted(name, mode)
	}
}

func (m MultiHooks) LevelEnded(result LevelResult) {
	for _, h := range m {
		h.LevelEnded(result)
	}
}
