package domain

import "strings"

// ItemState is the processing state of a carried item.
type ItemState int

const (
	ItemRaw ItemState = iota
	ItemChopped
	ItemFilled
)

// String returns a human-readable item state.
func (s ItemState) String() string {
	switch s {
	case ItemRaw:
		return "raw"
	case ItemChopped:
		return "chopped"
	case ItemFilled:
		return "filled"
	default:
		return "unknown"
	}
}

// Suffixes appended to a base kind once it has been processed.
const (
	ChoppedSuffix = "Chopped"
	FilledSuffix  = "Filled"
)

// Item is the value a player carries. It has no identity beyond its fields:
// two raw ingredient3 items are interchangeable.
type Item struct {
	Base      string // e.g. "ingredient3", "ingredientCup"
	State     ItemState
	Cup       bool // only raw cups may enter the cooler
	Choppable bool // only raw choppable items may enter the chopper
}

// Kind returns the recipe kind of the item, e.g. "ingredient3Chopped".
func (i Item) Kind() string {
	switch i.State {
	case ItemChopped:
		return i.Base + ChoppedSuffix
	case ItemFilled:
		return i.Base + FilledSuffix
	default:
		return i.Base
	}
}

// Chopped returns the chopped form of the item.
func (i Item) Chopped() Item {
	i.State = ItemChopped
	return i
}

// Filled returns the filled form of the item.
func (i Item) Filled() Item {
	i.State = ItemFilled
	return i
}

// IsZero reports whether the item is the empty value.
func (i Item) IsZero() bool { return i.Base == "" }

// NeedsChopper reports whether a recipe kind can only come out of the chopper.
func NeedsChopper(kind string) bool { return strings.HasSuffix(kind, ChoppedSuffix) }

// NeedsCooler reports whether a recipe kind can only come out of the cooler.
func NeedsCooler(kind string) bool { return strings.HasSuffix(kind, FilledSuffix) }
