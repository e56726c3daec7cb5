package kitchen

import (
	"fmt"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
)

// Registry is the fixed mapping of interactive objects to station slots.
// It is immutable after construction.
type Registry struct {
	stations []domain.Station
	byObject map[string]domain.Station
	bySlot   map[string]domain.Station
	plates   int
	start    domain.Station
}

// NewRegistry validates a station table. Every object and every slot must be
// unique, plate indices must run 0..n-1, and there may be at most one chopper
// and one cooler.
func NewRegistry(stations []domain.Station) (*Registry, error) {
	r := &Registry{
		byObject: make(map[string]domain.Station, len(stations)),
		bySlot:   make(map[string]domain.Station, len(stations)),
	}

	var platesSeen []bool
	processors := map[domain.StationKind]bool{}
	haveStart := false

	for _, s := range stations {
		if s.Object == "" || s.Slot == "" {
			return nil, fmt.Errorf("station %+v: object and slot are required", s)
		}
		if _, dup := r.byObject[s.Object]; dup {
			return nil, fmt.Errorf("object %q mapped twice", s.Object)
		}
		if _, dup := r.bySlot[s.Slot]; dup {
			return nil, fmt.Errorf("slot %q used twice", s.Slot)
		}

		switch s.Kind {
		case domain.StationPlate:
			if s.Plate < 0 || s.Plate >= maxPlates {
				return nil, fmt.Errorf("plate %q: index %d out of range", s.Object, s.Plate)
			}
			for len(platesSeen) <= s.Plate {
				platesSeen = append(platesSeen, false)
			}
			if platesSeen[s.Plate] {
				return nil, fmt.Errorf("plate index %d used twice", s.Plate)
			}
			platesSeen[s.Plate] = true
		case domain.StationChopper, domain.StationCooler:
			if processors[s.Kind] {
				return nil, fmt.Errorf("more than one %s station", s.Kind)
			}
			processors[s.Kind] = true
		case domain.StationIngredient:
			if s.Ingredient == "" {
				return nil, fmt.Errorf("ingredient station %q has no ingredient", s.Object)
			}
		case domain.StationIdle:
			if !haveStart {
				r.start = s
				haveStart = true
			}
		}

		r.stations = append(r.stations, s)
		r.byObject[s.Object] = s
		r.bySlot[s.Slot] = s
	}

	for i, ok := range platesSeen {
		if !ok {
			return nil, fmt.Errorf("plate index %d missing", i)
		}
	}
	r.plates = len(platesSeen)
	return r, nil
}

// DefaultStations returns the cafe layout: three plates, seven ingredient
// bins, the cup stack, the water cooler, the bin and the chopper.
func DefaultStations() []domain.Station {
	st := []domain.Station{
		{Object: "counter", Slot: "spot0", Kind: domain.StationIdle},
		{Object: "plate1", Slot: "spot1", Kind: domain.StationPlate, Plate: 0},
		{Object: "plate2", Slot: "spot2", Kind: domain.StationPlate, Plate: 1},
		{Object: "plate3", Slot: "spot3", Kind: domain.StationPlate, Plate: 2},
	}
	for i := 1; i <= 7; i++ {
		name := fmt.Sprintf("ingredient%d", i)
		st = append(st, domain.Station{
			Object:     name,
			Slot:       fmt.Sprintf("spot%d", i+3),
			Kind:       domain.StationIngredient,
			Ingredient: name,
			Choppable:  i == 3 || i == 4,
		})
	}
	return append(st,
		domain.Station{Object: "ingredientCup", Slot: "spot11", Kind: domain.StationIngredient, Ingredient: "ingredientCup", Cup: true},
		domain.Station{Object: "waterCooler", Slot: "spot12", Kind: domain.StationCooler},
		domain.Station{Object: "bin", Slot: "spot13", Kind: domain.StationTrash},
		domain.Station{Object: "chopper", Slot: "spot14", Kind: domain.StationChopper},
	)
}

// DefaultRegistry returns the registry for DefaultStations.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultStations())
	if err != nil {
		panic(err)
	}
	return r
}

// StationForObject resolves an interactive object to its station.
func (r *Registry) StationForObject(id string) (domain.Station, bool) {
	s, ok := r.byObject[id]
	return s, ok
}

// StationAt resolves a slot identifier to its station.
func (r *Registry) StationAt(slot string) (domain.Station, bool) {
	s, ok := r.bySlot[slot]
	return s, ok
}

// Stations returns every station in registration order.
func (r *Registry) Stations() []domain.Station {
	out := make([]domain.Station, len(r.stations))
	copy(out, r.stations)
	return out
}

// PlateCount returns the number of plate slots.
func (r *Registry) PlateCount() int { return r.plates }

// Start returns where the player stands before the first move: the first
// idle station, or the zero Station if none was registered.
func (r *Registry) Start() domain.Station { return r.start }
