package order

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownItem matches any UnknownItemError via errors.Is.
	ErrUnknownItem = errors.New("order: unknown menu item")

	// ErrNilCatalog is returned by New when no catalog is supplied.
	ErrNilCatalog = errors.New("order: nil menu catalog")

	// ErrNilFormatter is returned when WithFormatter is given nil.
	ErrNilFormatter = errors.New("order: nil money formatter")
)

// UnknownItemError is returned by the course setters when the key is not in
// the catalog. The order is left exactly as it was before the call.
type UnknownItemError struct {
	Course Course
	Key    string
}

// Error implements the error interface.
func (e UnknownItemError) Error() string {
	// Example: order: unknown menu item "nonexistent" for entree
	return "order: unknown menu item " + strconv.Quote(e.Key) + " for " + e.Course.String()
}

// Is lets errors.Is(err, ErrUnknownItem) match.
func (e UnknownItemError) Is(target error) bool { return target == ErrUnknownItem }

// UnknownCourseError is returned by Set for a Course outside the three slots.
type UnknownCourseError struct{ Course Course }

// Error implements the error interface.
func (e UnknownCourseError) Error() string {
	return "order: unknown course " + strconv.Itoa(int(e.Course))
}

// InvalidTaxRateError is returned by WithTaxRate for a rate outside [0, 1].
type InvalidTaxRateError struct{ Rate decimal.Decimal }

// Error implements the error interface.
func (e InvalidTaxRateError) Error() string {
	// Example: order: tax rate "1.5" outside [0, 1]
	return "order: tax rate " + strconv.Quote(e.Rate.String()) + " outside [0, 1]"
}
