// Package fixedpoint implements a deterministic Q-format scalar for prices
// and sizes where exactness matters.
//
// Value is a fixed-point number with 6 implied decimal digits, backed by an
// int64. Unlike float64, repeated Add/Sub/Mul/Div of the same operands in
// the same order always produce the same bit pattern — there is no
// platform- or compiler-dependent rounding. This is the representation the
// portfolio engine normalizes trade quantities and prices through before
// crossing the balance-check/debit-credit boundary, so that round-trip
// executions at a fixed price restore balances exactly.
package fixedpoint

import "math"

// Scale is the number of representable decimal digits (1e6 = 6 digits).
const Scale = 1_000_000

// Value is a fixed-point scalar: the real number represented is
// float64(raw) / Scale.
type Value struct {
	raw int64
}

// Zero is the additive identity.
var Zero = Value{}

// FromFloat64 converts a float64 into the nearest representable Value.
func FromFloat64(v float64) Value {
	return Value{raw: int64(math.Round(v * Scale))}
}

// ToFloat64 converts back to a float64.
func (v Value) ToFloat64() float64 {
	return float64(v.raw) / Scale
}

// IsPositive reports whether v represents a strictly positive number.
func (v Value) IsPositive() bool {
	return v.raw > 0
}

// IsZero reports whether v represents exactly zero.
func (v Value) IsZero() bool {
	return v.raw == 0
}

// Add returns v + other.
func (v Value) Add(other Value) Value {
	return Value{raw: v.raw + other.raw}
}

// Sub returns v - other.
func (v Value) Sub(other Value) Value {
	return Value{raw: v.raw - other.raw}
}

// Mul returns v * other, rescaling back down to Scale.
func (v Value) Mul(other Value) Value {
	return Value{raw: (v.raw * other.raw) / Scale}
}

// Div returns v / other, rescaling up before dividing. Div by zero panics,
// matching standard library integer division semantics; callers must not
// divide by a zero Value.
func (v Value) Div(other Value) Value {
	return Value{raw: (v.raw * Scale) / other.raw}
}

// Cmp returns -1, 0, or 1 as v is less than, equal to, or greater than other.
func (v Value) Cmp(other Value) int {
	switch {
	case v.raw < other.raw:
		return -1
	case v.raw > other.raw:
		return 1
	default:
		return 0
	}
}

// GreaterOrEqual reports whether v >= other.
func (v Value) GreaterOrEqual(other Value) bool {
	return v.raw >= other.raw
}
