package expr

import (
	"strconv"
	"strings"
)

// Value is the result of evaluating an expression.
// The zero Value is the integer 0.
type Value struct {
	i     int64
	f     float64
	float bool
}

// Int returns an integer Value.
func Int(i int64) Value {
	return Value{i: i}
}

// Float returns a floating-point Value.
func Float(f float64) Value {
	return Value{f: f, float: true}
}

// IsFloat reports whether the value came out of a division.
func (v Value) IsFloat() bool {
	return v.float
}

// Int64 returns the value as an integer, truncating floats toward zero.
func (v Value) Int64() int64 {
	if v.float {
		return int64(v.f)
	}
	return v.i
}

// Float64 returns the value as a float64.
func (v Value) Float64() float64 {
	if v.float {
		return v.f
	}
	return float64(v.i)
}

// IsZero reports whether the value is numerically zero.
func (v Value) IsZero() bool {
	if v.float {
		return v.f == 0
	}
	return v.i == 0
}

// Equal reports whether two values are numerically equal.
// Integers compare exactly; anything involving a float compares as float64.
func (v Value) Equal(other Value) bool {
	if !v.float && !other.float {
		return v.i == other.i
	}
	return v.Float64() == other.Float64()
}

// String formats integers plainly and floats with at least one decimal
// place, so 2 and 2.0 remain distinguishable in logs.
func (v Value) String() string {
	if !v.float {
		return strconv.FormatInt(v.i, 10)
	}
	s := strconv.FormatFloat(v.f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".IN") {
		s += ".0"
	}
	return s
}
