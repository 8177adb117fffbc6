package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateBid decides whether amount may be appended on top of currentHighest.
// currentHighest is nil when the auction has no accepted bid yet.
// Rules are checked in order: amount shape, base price floor (first bid only), strict increase.
// It has no side effects and is safe for concurrent use.
func ValidateBid(amount, basePrice decimal.Decimal, currentHighest *decimal.Decimal) error {
	// range first, formatting an out of range amount is itself expensive
	if !AmountInRange(amount) {
		return fmt.Errorf("amount out of range: %w", ErrInvalidAmount)
	}
	if !amount.IsPositive() || !hasCurrencyPrecision(amount) {
		return fmt.Errorf("amount %s: %w", amount, ErrInvalidAmount)
	}
	if currentHighest == nil {
		if amount.LessThan(basePrice) {
			return fmt.Errorf("amount %s, base price %s: %w", amount, FormatAmount(basePrice), ErrBelowBasePrice)
		}
		return nil
	}
	if amount.LessThanOrEqual(*currentHighest) {
		return fmt.Errorf("amount %s, current highest %s: %w", amount, FormatAmount(*currentHighest), ErrOutbid)
	}
	return nil
}
