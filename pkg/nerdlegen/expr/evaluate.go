package expr

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for evaluation.
var (
	// ErrSyntax indicates the text is not a well-formed expression.
	ErrSyntax = errors.New("syntax error")

	// ErrDivisionByZero indicates a divisor evaluated to zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOverflow indicates an integer result does not fit in int64.
	ErrOverflow = errors.New("integer overflow")
)

// EvalError wraps an evaluation failure with its position.
type EvalError struct {
	// Expr is the text being evaluated.
	Expr string
	// Offset is the byte offset where evaluation stopped.
	Offset int
	// Err is one of ErrSyntax, ErrDivisionByZero or ErrOverflow.
	Err error
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("eval %q at offset %d: %v", e.Expr, e.Offset, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// Eval evaluates an arithmetic expression.
// See the package documentation for the grammar and numeric semantics.
func Eval(s string) (Value, error) {
	p := scanner{src: s}
	return p.expr()
}

// MustEval is like Eval but panics on error.
// Intended for tests and constant tables.
func MustEval(s string) Value {
	v, err := Eval(s)
	if err != nil {
		panic(err)
	}
	return v
}

// scanner walks the expression text once, evaluating as it goes.
type scanner struct {
	src string
	pos int
}

func (p *scanner) fail(err error) error {
	return &EvalError{Expr: p.src, Offset: p.pos, Err: err}
}

// expr := term (('+' | '-') term)*
func (p *scanner) expr() (Value, error) {
	if p.src == "" {
		return Value{}, p.fail(ErrSyntax)
	}
	sum, err := p.term()
	if err != nil {
		return Value{}, err
	}
	for p.pos < len(p.src) {
		op := p.src[p.pos]
		if op != '+' && op != '-' {
			return Value{}, p.fail(ErrSyntax)
		}
		p.pos++
		rhs, err := p.term()
		if err != nil {
			return Value{}, err
		}
		if sum, err = apply(op, sum, rhs); err != nil {
			return Value{}, p.fail(err)
		}
	}
	return sum, nil
}

// term := number (('*' | '/') number)*
func (p *scanner) term() (Value, error) {
	product, err := p.number()
	if err != nil {
		return Value{}, err
	}
	for p.pos < len(p.src) {
		op := p.src[p.pos]
		if op != '*' && op != '/' {
			break
		}
		p.pos++
		rhs, err := p.number()
		if err != nil {
			return Value{}, err
		}
		if product, err = apply(op, product, rhs); err != nil {
			return Value{}, p.fail(err)
		}
	}
	return product, nil
}

// number := digit+
func (p *scanner) number() (Value, error) {
	start := p.pos
	var n int64
	nonZero := false
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		d := int64(p.src[p.pos] - '0')
		if n > (math.MaxInt64-d)/10 {
			return Value{}, p.fail(ErrOverflow)
		}
		n = n*10 + d
		if d != 0 {
			nonZero = true
		}
		p.pos++
	}
	if p.pos == start {
		return Value{}, p.fail(ErrSyntax)
	}
	// "00" is a valid zero literal, "01" is not.
	if p.src[start] == '0' && p.pos-start > 1 && nonZero {
		p.pos = start
		return Value{}, p.fail(ErrSyntax)
	}
	return Int(n), nil
}
