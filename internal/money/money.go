// Package money provides the exact decimal arithmetic used for every
// monetary computation in the engine. All operations work on base-10
// arbitrary-precision decimals; rounding to two fractional digits happens
// only at storage and display boundaries, with halves rounded away from zero.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrDivisionByZero is returned when a division has a zero divisor.
// Callers are expected to guard zero-member or zero-total divisors
// instead of invoking Div blindly.
var ErrDivisionByZero = errors.New("money: division by zero")

// divisionPrecision is the number of fractional digits kept by Div.
const divisionPrecision = 20

// Tolerance is the monetary allowance used to treat near-zero balances
// and sums as exactly zero after rounding.
var Tolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// Zero is the zero monetary value.
var Zero = decimal.Zero

// FromString parses a decimal from its string representation.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// FromFloat converts a binary float to a decimal. Only intended for
// boundary conversions of external input, never for intermediate math.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Add returns a + b.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b)
}

// Sub returns a - b.
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b)
}

// Mul returns a * b.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}

// Div returns a / b carried to 20 fractional digits.
func Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return a.DivRound(b, divisionPrecision), nil
}

// Sum returns the sum of values, zero for an empty list.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Average returns the arithmetic mean of values.
func Average(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, ErrDivisionByZero
	}
	return Div(Sum(values...), decimal.NewFromInt(int64(len(values))))
}

// Max returns the largest value, zero for an empty list.
func Max(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	max := values[0]
	for _, v := range values[1:] {
		if v.GreaterThan(max) {
			max = v
		}
	}
	return max
}

// Min returns the smallest value, zero for an empty list.
func Min(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	min := values[0]
	for _, v := range values[1:] {
		if v.LessThan(min) {
			min = v
		}
	}
	return min
}

// Percentage returns part / whole * 100.
func Percentage(part, whole decimal.Decimal) (decimal.Decimal, error) {
	ratio, err := Div(part, whole)
	if err != nil {
		return decimal.Zero, err
	}
	return ratio.Mul(hundred), nil
}

// PercentOf returns amount * pct / 100. The divisor is a constant, so
// this never fails.
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).DivRound(hundred, divisionPrecision)
}

// Round2 rounds to two fractional digits, halves away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Equal reports exact decimal equality.
func Equal(a, b decimal.Decimal) bool {
	return a.Equal(b)
}

// EqualWithinTolerance reports whether |a - b| <= tolerance.
func EqualWithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// IsNegligible reports whether |d| <= Tolerance, the rounding-noise
// threshold shared by settlement and anomaly detection.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Tolerance)
}

// GreaterThan reports a > b.
func GreaterThan(a, b decimal.Decimal) bool {
	return a.GreaterThan(b)
}

// LessThan reports a < b.
func LessThan(a, b decimal.Decimal) bool {
	return a.LessThan(b)
}
