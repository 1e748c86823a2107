package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a ledger amount in the smallest unit of account.
type Amount = decimal.Decimal

var (
	// ErrAmountNotIntegral is returned for amounts with a fractional part.
	ErrAmountNotIntegral = errors.New("amount must be a whole number")
	// ErrAmountOutOfRange is returned for amounts outside the int128 range.
	ErrAmountOutOfRange = errors.New("amount out of range")

	maxAmount = decimal.RequireFromString("170141183460469231731687303715884105727")
	minAmount = decimal.RequireFromString("-170141183460469231731687303715884105728")
)

// ZeroAmount returns a zero amount.
func ZeroAmount() Amount {
	return decimal.Zero
}

// NewAmount returns an amount from an int64.
func NewAmount(v int64) Amount {
	return decimal.NewFromInt(v)
}

// ValidateAmount checks that a is integral and fits in a signed 128-bit integer.
func ValidateAmount(a Amount) error {
	if !a.IsInteger() {
		return ErrAmountNotIntegral
	}
	if a.GreaterThan(maxAmount) || a.LessThan(minAmount) {
		return ErrAmountOutOfRange
	}
	return nil
}

// ParseAmount parses a base-10 amount and validates it.
func ParseAmount(s string) (Amount, error) {
	a, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if err := ValidateAmount(a); err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return a, nil
}
