package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sghaida/lunchtray/money"
)

// Option configures a State during New.
//
// Options are applied in order; New stops at the first error.
type Option func(*State) error

// ReselectPolicy decides what selecting the item already in a slot does.
type ReselectPolicy int

const (
	// ReselectNoOp leaves the order untouched and publishes nothing.
	ReselectNoOp ReselectPolicy = iota

	// ReselectCharge adds the item's price again without removing the
	// earlier charge, so the subtotal counts the item twice.
	ReselectCharge
)

// String implements fmt.Stringer.
func (p ReselectPolicy) String() string {
	if p == ReselectCharge {
		return "charge"
	}
	return "noop"
}

// WithTaxRate sets the fraction of the subtotal charged as tax.
// The rate must be within [0, 1].
func WithTaxRate(rate decimal.Decimal) Option {
	return func(s *State) error {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return InvalidTaxRateError{Rate: rate}
		}
		s.taxRate = rate
		return nil
	}
}

// WithFormatter sets how amounts are rendered for the text observables.
func WithFormatter(f *money.Formatter) Option {
	return func(s *State) error {
		if f == nil {
			return ErrNilFormatter
		}
		s.formatter = f
		return nil
	}
}

// WithLogger attaches a logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(s *State) error {
		if l != nil {
			s.logger = l
		}
		return nil
	}
}

// WithReselectPolicy chooses the behaviour for re-selecting the same key.
func WithReselectPolicy(p ReselectPolicy) Option {
	return func(s *State) error {
		s.reselect = p
		return nil
	}
}

// WithID fixes the order ID instead of generating a random one.
func WithID(id uuid.UUID) Option {
	return func(s *State) error {
		s.id = id
		return nil
	}
}
