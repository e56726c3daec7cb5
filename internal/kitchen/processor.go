package kitchen

import (
	"time"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/sched"
)

// Processor is a single-slot timed transformer: the chopper or the cooler.
// It is Empty, Busy while the transform runs, then Ready until the item is
// taken.
type Processor struct {
	kind    domain.StationKind
	state   domain.ProcessorState
	item    domain.Item
	readyAt time.Duration
	token   sched.Token
}

func newProcessor(kind domain.StationKind) *Processor {
	return &Processor{kind: kind}
}

// Kind returns StationChopper or StationCooler.
func (p *Processor) Kind() domain.StationKind { return p.kind }

// State returns the current lifecycle state.
func (p *Processor) State() domain.ProcessorState { return p.state }

// Item returns the item inside, zero when empty.
func (p *Processor) Item() domain.Item { return p.item }

// Empty reports whether the processor can take a new item.
func (p *Processor) Empty() bool { return p.state == domain.ProcessorEmpty }

// Accepts reports whether item may be loaded right now. The cooler only
// fills raw cups; the chopper only chops raw choppable non-cup items.
// Neither accepts anything unless empty.
func (p *Processor) Accepts(item domain.Item) bool {
	if !p.Empty() || item.IsZero() || item.State != domain.ItemRaw {
		return false
	}
	switch p.kind {
	case domain.StationCooler:
		return item.Cup
	case domain.StationChopper:
		return item.Choppable && !item.Cup
	}
	return false
}

func (p *Processor) load(item domain.Item, readyAt time.Duration, tok sched.Token) {
	p.state = domain.ProcessorBusy
	p.item = item
	p.readyAt = readyAt
	p.token = tok
}

// finish applies the transform. It is a no-op unless Busy.
func (p *Processor) finish() (domain.Item, bool) {
	if p.state != domain.ProcessorBusy {
		return domain.Item{}, false
	}
	switch p.kind {
	case domain.StationCooler:
		p.item = p.item.Filled()
	case domain.StationChopper:
		p.item = p.item.Chopped()
	}
	p.state = domain.ProcessorReady
	p.token = 0
	return p.item, true
}

// take removes a Ready item.
func (p *Processor) take() (domain.Item, bool) {
	if p.state != domain.ProcessorReady {
		return domain.Item{}, false
	}
	item := p.item
	p.reset()
	return item, true
}

func (p *Processor) reset() {
	p.state = domain.ProcessorEmpty
	p.item = domain.Item{}
	p.readyAt = 0
	p.token = 0
}

func (p *Processor) view(now time.Duration) domain.ProcessorView {
	v := domain.ProcessorView{Kind: p.kind, State: p.state, Item: p.item}
	if p.state == domain.ProcessorBusy && p.readyAt > now {
		v.ReadyIn = p.readyAt - now
	}
	return v
}
