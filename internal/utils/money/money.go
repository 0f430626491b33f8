package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount as an integer count of minor currency
// units (centavos). All arithmetic on obligations and balances goes through
// this type; floating point is never used for accumulation.
type Money struct {
	cents int64
}

// Tolerance is the materiality threshold for drift comparisons: differences
// of at most one minor unit (0.01) are rounding noise, not drift.
const Tolerance int64 = 1

// Zero returns a zero amount.
func Zero() Money {
	return Money{}
}

// FromCents builds a Money from an integer number of minor units.
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// FromDecimal converts a decimal value to Money, rounding half-up to two
// decimal places. This is the single entry point for values scanned from
// NUMERIC columns or parsed from request bodies.
func FromDecimal(d decimal.Decimal) Money {
	return Money{cents: d.Round(2).Shift(2).IntPart()}
}

// Parse parses a decimal string such as "123.45" into Money.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid monetary value %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Decimal returns the amount as a two decimal place decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Sub(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

func (m Money) Neg() Money {
	return Money{cents: -m.cents}
}

func (m Money) Abs() Money {
	if m.cents < 0 {
		return Money{cents: -m.cents}
	}
	return m
}

// MulRate multiplies the amount by an arbitrary decimal rate, rounding
// half-up to the nearest cent.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(rate))
}

// Cmp returns -1, 0 or 1 comparing m to other.
func (m Money) Cmp(other Money) int {
	switch {
	case m.cents < other.cents:
		return -1
	case m.cents > other.cents:
		return 1
	default:
		return 0
	}
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) IsNegative() bool {
	return m.cents < 0
}

func (m Money) IsPositive() bool {
	return m.cents > 0
}

// Clamp limits the amount to the inclusive range [lo, hi].
func (m Money) Clamp(lo, hi Money) Money {
	if m.cents < lo.cents {
		return lo
	}
	if m.cents > hi.cents {
		return hi
	}
	return m
}

// WithinTolerance reports whether the difference between m and other is at
// most one minor unit. Amounts within tolerance are considered equal for
// drift detection.
func (m Money) WithinTolerance(other Money) bool {
	diff := m.cents - other.cents
	if diff < 0 {
		diff = -diff
	}
	return diff <= Tolerance
}

// Sum adds a slice of amounts.
func Sum(amounts []Money) Money {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON renders the amount as a fixed two decimal place JSON string,
// e.g. "123.45".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string ("123.45") or a bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
