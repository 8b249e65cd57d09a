package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount in the smallest currency unit. It is the only form a
// price takes on the wire.
type Cents int64

var hundred = decimal.NewFromInt(100)

// ParseCents parses a major-unit amount such as "12.34" into Cents. More than
// two decimal places is an error.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	minor := d.Mul(hundred)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", s)
	}
	return Cents(minor.IntPart()), nil
}

// Decimal returns the amount in major units as an exact decimal.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Major returns the amount in major units rounded to two decimals.
func (c Cents) Major() float64 {
	return c.Decimal().Round(2).InexactFloat64()
}

// String formats the amount as a major-unit string with two decimals.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}
