package domain

// StationKind classifies what happens when the player arrives at a station.
type StationKind int

const (
	StationIdle StationKind = iota
	StationIngredient
	StationPlate
	StationChopper
	StationCooler
	StationTrash
)

// String returns a human-readable station kind.
func (k StationKind) String() string {
	switch k {
	case StationIdle:
		return "idle"
	case StationIngredient:
		return "ingredient"
	case StationPlate:
		return "plate"
	case StationChopper:
		return "chopper"
	case StationCooler:
		return "cooler"
	case StationTrash:
		return "trash"
	default:
		return "unknown"
	}
}

// IsProcessor reports whether the station is a timed single-slot transformer.
func (k StationKind) IsProcessor() bool {
	return k == StationChopper || k == StationCooler
}

// Station is one immutable registry entry. Object is what the player clicks
// or names; Slot is where the player stands.
type Station struct {
	Object string
	Slot   string
	Kind   StationKind

	// Ingredient stations only.
	Ingredient string
	Cup        bool
	Choppable  bool

	// Plate stations only.
	Plate int
}

// Dispense returns a fresh raw item for an ingredient station.
func (s Station) Dispense() Item {
	return Item{Base: s.Ingredient, State: ItemRaw, Cup: s.Cup, Choppable: s.Choppable}
}
