package expr

import (
	"math"
)

// apply combines two values with a binary operator.
// Integer operands stay integers for + - *; '/' always produces a float.
func apply(op byte, left, right Value) (Value, error) {
	switch op {
	case '+':
		if !left.float && !right.float {
			return addInt(left.i, right.i)
		}
		return Float(left.Float64() + right.Float64()), nil
	case '-':
		if !left.float && !right.float {
			return subInt(left.i, right.i)
		}
		return Float(left.Float64() - right.Float64()), nil
	case '*':
		if !left.float && !right.float {
			return mulInt(left.i, right.i)
		}
		return Float(left.Float64() * right.Float64()), nil
	case '/':
		if right.IsZero() {
			return Value{}, ErrDivisionByZero
		}
		return Float(left.Float64() / right.Float64()), nil
	default:
		return Value{}, ErrSyntax
	}
}

func addInt(a, b int64) (Value, error) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return Value{}, ErrOverflow
	}
	return Int(s), nil
}

func subInt(a, b int64) (Value, error) {
	if b == math.MinInt64 {
		return Value{}, ErrOverflow
	}
	return addInt(a, -b)
}

func mulInt(a, b int64) (Value, error) {
	if a == 0 || b == 0 {
		return Int(0), nil
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return Value{}, ErrOverflow
	}
	return Int(p), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
