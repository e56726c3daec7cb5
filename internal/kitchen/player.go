package kitchen

import (
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
)

// MoveTo walks the player to the station mapped to object and interacts
// with it. Unknown objects are ignored and reported as false.
func (k *Kitchen) MoveTo(object string) bool {
	st, ok := k.registry.StationForObject(object)
	if !ok {
		k.log.Debug("unknown object %q", object)
		return false
	}
	k.station = st
	k.Interact()
	return true
}

// Interact performs the arrival action at the current station. The bin
// destroys the held item and clears every plate's contents. Empty-handed at
// an ingredient the player picks up a fresh raw item; at a Ready processor
// the player takes the transformed item. Otherwise the held item is dropped
// if the station accepts it.
func (k *Kitchen) Interact() {
	st := k.station

	if st.Kind == domain.StationTrash {
		if !k.held.IsZero() {
			k.log.Debug("binned %s", k.held.Kind())
			k.held = domain.Item{}
		}
		for _, p := range k.plates {
			p.clear()
		}
		return
	}

	if k.held.IsZero() {
		switch st.Kind {
		case domain.StationIngredient:
			k.pickUp(st.Dispense(), st)
			return
		case domain.StationChopper, domain.StationCooler:
			if item, ok := k.Processor(st.Kind).take(); ok {
				k.pickUp(item, st)
			}
		}
	}

	if !k.held.IsZero() {
		k.Drop()
	}
}

func (k *Kitchen) pickUp(item domain.Item, st domain.Station) {
	k.held = item
	k.log.Debug("picked up %s at %s", item.Kind(), st.Object)
	k.hooks.ItemPickedUp(item, st)
}

// Drop tries to place the held item at the current station and reports
// whether it left the player's hands. A rejected drop changes nothing.
func (k *Kitchen) Drop() bool {
	if k.held.IsZero() {
		return false
	}
	st := k.station
	item := k.held

	now := k.sched.Now()
	k.tracker.ObserveDrop(now, domain.StationCooler, k.cooler.Empty(), st.Kind == domain.StationCooler)
	k.tracker.ObserveDrop(now, domain.StationChopper, k.chopper.Empty(), st.Kind == domain.StationChopper)

	switch st.Kind {
	case domain.StationChopper, domain.StationCooler:
		p := k.Processor(st.Kind)
		if !p.Accepts(item) {
			return false
		}
		k.held = domain.Item{}
		k.load(p, item)
		k.hooks.ItemDropped(item, st)
		return true

	case domain.StationPlate:
		plate := k.Plate(st.Plate)
		if plate == nil || !plate.add(item.Kind()) {
			return false
		}
		k.held = domain.Item{}
		k.log.Debug("placed %s on plate %d", item.Kind(), st.Plate+1)
		k.hooks.ItemDropped(item, st)
		if c := plate.customer; c != nil {
			k.serve(c, plate.Contents())
		}
		return true
	}
	return false
}

func (k *Kitchen) load(p *Processor, item domain.Item) {
	readyAt := k.sched.Now() + k.cfg.ProcessDelay
	tok := k.sched.After(k.cfg.ProcessDelay, func(_ time.Duration) {
		if out, ok := p.finish(); ok {
			k.log.Debug("%s ready with %s", p.kind, out.Kind())
			k.hooks.ProcessorReady(p.kind, out)
		}
	})
	p.load(item, readyAt, tok)
	k.log.Debug("%s loaded with %s", p.kind, item.Kind())
}
