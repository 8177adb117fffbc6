package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the currency precision: amounts carry at most two decimal places.
const AmountScale = 2

// maxAmountExponent and minAmountExponent bound the decimal exponent before any arithmetic,
// comparing values far outside them costs a huge rescale.
const (
	maxAmountExponent = 16
	minAmountExponent = -64
)

// MaxAmount is the exclusive upper bound of an amount, the NUMERIC(18,2) column limit.
var MaxAmount = decimal.New(1, maxAmountExponent)

// ParseAmount parses an exact decimal amount, e.g. "150.00".
// It rejects values outside the storable range but does not check sign or precision, ValidateBid does.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, ErrInvalidAmount)
	}
	if !AmountInRange(d) {
		return decimal.Zero, fmt.Errorf("parse amount: out of range: %w", ErrInvalidAmount)
	}
	return d, nil
}

// AmountInRange reports whether |d| < MaxAmount with a bounded exponent.
// It only looks at the exponent before comparing, so it is cheap for any input.
func AmountInRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	exp := d.Exponent()
	if exp >= maxAmountExponent || exp < minAmountExponent {
		return false
	}
	return d.Abs().LessThan(MaxAmount)
}

// FormatAmount renders an amount with the fixed currency scale, the canonical storage form.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}

func hasCurrencyPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}
