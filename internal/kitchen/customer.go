package kitchen

import (
	"slices"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/sched"
)

// Verdict is the outcome of checking a plate against an order.
type Verdict int

const (
	// VerdictPending: nothing wrong yet, order not complete.
	VerdictPending Verdict = iota
	VerdictServed
	VerdictAngry
)

// String returns a human-readable verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictServed:
		return "served"
	case VerdictAngry:
		return "angry"
	default:
		return "pending"
	}
}

// Customer waits at a plate for an exact meal while patience drains.
type Customer struct {
	ID       string
	Name     string
	Meal     []string
	Ticker   float64 // seconds of patience at full
	Plate    int
	State    domain.CustomerState
	Patience float64

	ticks int
	timer sched.Token
}

func newCustomer(id string, a domain.Archetype, plate int) *Customer {
	meal := make([]string, len(a.Meal))
	copy(meal, a.Meal)
	return &Customer{
		ID:       id,
		Name:     a.Name,
		Meal:     meal,
		Ticker:   a.PatienceSeconds,
		Plate:    plate,
		State:    domain.CustomerActive,
		Patience: 1,
	}
}

// Evaluate checks plate contents against the meal. Any item the meal does not
// list makes the customer angry, even when every required item is also
// there. Served needs every required item and nothing extra.
func (c *Customer) Evaluate(contents []string) Verdict {
	for _, kind := range contents {
		if !c.wants(kind) {
			return VerdictAngry
		}
	}
	if len(contents) != len(c.Meal) {
		return VerdictPending
	}
	for _, kind := range c.Meal {
		if !slices.Contains(contents, kind) {
			return VerdictPending
		}
	}
	return VerdictServed
}

// decay drains one tick of patience and reports whether it ran out.
// Patience is derived from the tick count so it reaches zero exactly.
func (c *Customer) decay() bool {
	c.ticks++
	if c.Ticker <= 0 {
		c.Patience = 0
		return true
	}
	c.Patience = 1 - float64(c.ticks)/c.Ticker
	if c.Patience <= 0 {
		c.Patience = 0
		return true
	}
	return false
}

// View returns a copy safe to hand outside the lock.
func (c *Customer) View() domain.CustomerView {
	meal := make([]string, len(c.Meal))
	copy(meal, c.Meal)
	return domain.CustomerView{
		ID:       c.ID,
		Name:     c.Name,
		Meal:     meal,
		Patience: c.Patience,
		State:    c.State,
	}
}

func (c *Customer) wants(kind string) bool { return slices.Contains(c.Meal, kind) }
