package kitchen

// maxPlates bounds the free-slot bitmask.
const maxPlates = 32

// Plate is a bounded collection of item kinds being assembled for the
// customer bound to it. Order is kept for display only.
type Plate struct {
	index    int
	capacity int
	contents []string
	customer *Customer
}

func newPlate(index, capacity int) *Plate {
	return &Plate{index: index, capacity: capacity}
}

// Index returns the plate slot.
func (p *Plate) Index() int { return p.index }

// Len returns how many items are on the plate.
func (p *Plate) Len() int { return len(p.contents) }

// Full reports whether another item would be rejected.
func (p *Plate) Full() bool { return len(p.contents) >= p.capacity }

// Contents returns a copy of the item kinds on the plate.
func (p *Plate) Contents() []string {
	out := make([]string, len(p.contents))
	copy(out, p.contents)
	return out
}

// Customer returns the bound customer, nil when the plate is free.
func (p *Plate) Customer() *Customer { return p.customer }

func (p *Plate) add(kind string) bool {
	if p.Full() {
		return false
	}
	p.contents = append(p.contents, kind)
	return true
}

func (p *Plate) clear() {
	p.contents = p.contents[:0]
}
