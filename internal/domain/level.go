package domain

// Archetype is one kind of customer a level can spawn. These three fields are
// the only ones a level definition may set.
type Archetype struct {
	Name            string   `yaml:"customerName" json:"customerName"`
	Meal            []string `yaml:"requiredItemKinds" json:"requiredItemKinds"`
	PatienceSeconds float64  `yaml:"patienceRateSeconds" json:"patienceRateSeconds"`
}

// Level is a playable round: a pool of archetypes spawned at random.
type Level struct {
	ID        string
	Name      string
	Customers []Archetype
	Endless   bool
}

// LevelSummary is a lightweight view of a level for menus.
type LevelSummary struct {
	Index int
	ID    string
	Name  string
}

// NeedsCooler reports whether any archetype orders a filled cup.
func (l *Level) NeedsCooler() bool {
	for _, c := range l.Customers {
		for _, k := range c.Meal {
			if NeedsCooler(k) {
				return true
			}
		}
	}
	return false
}

// NeedsChopper reports whether any archetype orders a chopped item.
func (l *Level) NeedsChopper() bool {
	for _, c := range l.Customers {
		for _, k := range c.Meal {
			if NeedsChopper(k) {
				return true
			}
		}
	}
	return false
}

// Menu returns the archetypes with duplicate names removed, in order.
func (l *Level) Menu() []Archetype {
	seen := make(map[string]bool, len(l.Customers))
	var out []Archetype
	for _, c := range l.Customers {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}
