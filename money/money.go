// Package money formats and derives order amounts.
//
// Arithmetic is done on decimal.Decimal so tax and total stay exact; only
// Format converts to a display string.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultTaxRate is the fraction of the subtotal charged as tax.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Tax returns subtotal × rate.
func Tax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate)
}

// Total returns subtotal + tax.
func Total(subtotal, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax)
}

// Formatter renders amounts as locale-formatted currency strings.
type Formatter struct {
	tag     language.Tag
	unit    currency.Unit
	symbol  string
	scale   int32
	format  string
	printer *message.Printer
}

// NewFormatter builds a formatter for a BCP 47 locale and an ISO 4217 code.
//
// The number of fraction digits follows the currency (2 for USD, 0 for JPY).
// An empty symbol falls back to the ISO code followed by a space.
func NewFormatter(locale, code, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("money: locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("money: currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	if symbol == "" {
		symbol = unit.String() + " "
	}
	return &Formatter{
		tag:     tag,
		unit:    unit,
		symbol:  symbol,
		scale:   int32(scale),
		format:  fmt.Sprintf("%%.%df", scale),
		printer: message.NewPrinter(tag),
	}, nil
}

// MustFormatter is NewFormatter that panics on error.
func MustFormatter(locale, code, symbol string) *Formatter {
	f, err := NewFormatter(locale, code, symbol)
	if err != nil {
		panic(err)
	}
	return f
}

// DefaultFormatter formats US dollars for en-US.
func DefaultFormatter() *Formatter {
	return MustFormatter("en-US", "USD", "$")
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() language.Tag { return f.tag }

// Currency returns the formatter's currency unit.
func (f *Formatter) Currency() currency.Unit { return f.unit }

// Format renders d, for example "$1,234.50" or "-$0.50".
func (f *Formatter) Format(d decimal.Decimal) string {
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
		d = d.Neg()
	}
	b.WriteString(f.symbol)
	// Round in decimal first so half-cents round away from zero.
	b.WriteString(f.printer.Sprintf(f.format, d.Round(f.scale).InexactFloat64()))
	return b.String()
}
