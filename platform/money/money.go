// Package money provides fixed-point monetary arithmetic for the application.
// This is part of the platform layer and contains no business logic.
//
// All persisted amounts carry exactly two fraction digits. Intermediate
// arithmetic runs at arbitrary precision; callers round each result once
// through Round2 at the point the value becomes a business amount, so
// repeated recomputation over the same inputs always yields identical
// results.
package money

import (
	"github.com/shopspring/decimal"
)

// Amount is a decimal monetary value.
// It is an alias so amounts interoperate directly with decimal arithmetic
// and with NUMERIC columns scanned through the pgx decimal codec.
type Amount = decimal.Decimal

// Zero is the zero amount.
var Zero = decimal.Zero

// Round2 rounds to two fraction digits, ties away from zero.
// Business amounts are non-negative, so this matches round-half-up.
// It must be applied exactly once per persisted aggregate.
func Round2(d decimal.Decimal) Amount {
	return d.Round(2)
}

// MustParse parses a decimal string and panics on malformed input.
// Use only for constants and test fixtures.
func MustParse(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse parses a decimal string.
func Parse(s string) (Amount, error) {
	return decimal.NewFromString(s)
}

// FromInt builds an amount from a whole number.
func FromInt(n int64) Amount {
	return decimal.NewFromInt(n)
}

// PercentFraction converts a percentage rate (e.g. 10 for 10%) into the
// multiplier fraction (0.1). The division is exact: rate keeps its full
// precision divided by 100, no rounding happens here.
func PercentFraction(rate decimal.Decimal) decimal.Decimal {
	return rate.Shift(-2)
}

// ApplyRate multiplies an amount by a percentage rate and rounds the result
// to two fraction digits. This is the single entry point for tax math.
func ApplyRate(amount, rate decimal.Decimal) Amount {
	return Round2(amount.Mul(PercentFraction(rate)))
}
