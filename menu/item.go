package menu

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Type is the course a menu item is listed under.
//
// It is informational: the order package does not reject, say, a side
// selected as an entree. Hosts use it to build per-course pickers.
type Type int

const (
	// TypeUnknown is the zero value and never appears in a loaded catalog.
	TypeUnknown Type = iota
	TypeEntree
	TypeSide
	TypeAccompaniment
)

// String returns the YAML spelling of the type.
func (t Type) String() string {
	switch t {
	case TypeEntree:
		return "entree"
	case TypeSide:
		return "side"
	case TypeAccompaniment:
		return "accompaniment"
	default:
		return "unknown"
	}
}

// ParseType converts the YAML spelling of a type back into a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "entree":
		return TypeEntree, nil
	case "side", "side_dish":
		return TypeSide, nil
	case "accompaniment":
		return TypeAccompaniment, nil
	default:
		return TypeUnknown, UnknownTypeError{Value: s}
	}
}

// UnknownTypeError is returned when a menu document names a type that is
// not one of entree, side or accompaniment.
type UnknownTypeError struct{ Value string }

// Error implements the error interface.
func (e UnknownTypeError) Error() string {
	// Example: menu: unknown item type "dessert"
	return "menu: unknown item type " + strconv.Quote(e.Value)
}

// Item is an immutable menu entry.
//
// Key is the catalog key used by order setters; Name is what a UI shows.
type Item struct {
	Key         string
	Name        string
	Description string
	Price       decimal.Decimal
	Type        Type
}

// Equal reports whether two items describe the same entry at the same price.
func (i Item) Equal(other Item) bool {
	return i.Key == other.Key &&
		i.Name == other.Name &&
		i.Description == other.Description &&
		i.Type == other.Type &&
		i.Price.Equal(other.Price)
}
