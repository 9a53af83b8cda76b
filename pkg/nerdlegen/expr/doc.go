/*
Package expr evaluates the arithmetic expressions that make up each side
of a Nerdle equation.

# Overview

expr implements a minimal four-operator, two-precedence-level evaluator.
It replaces dynamic code evaluation: the input is scanned once, left to
right, without building a token list or syntax tree.

# Expression Syntax

	<expr>   := <term> (('+' | '-') <term>)*
	<term>   := <number> (('*' | '/') <number>)*
	<number> := digit+

There are no unary operators, parentheses or whitespace. A literal with a
leading zero ("01") is rejected; a literal made only of zeros ("00") is
accepted and equals 0.

# Numeric Semantics

Values are exact int64 integers until a division happens. '/' is true
division and always yields a float64. Mixing an integer with a float
converts the integer to float64 first. Equality between an integer and a
float is numeric, so 4/2 equals 2:

	a, _ := expr.Eval("4/2") // 2.0 (float)
	b, _ := expr.Eval("2")   // 2 (int)
	a.Equal(b)               // true

# Errors

Eval returns an *EvalError wrapping one of:

  - ErrSyntax: empty input, misplaced operator, unknown character,
    zero-prefixed literal
  - ErrDivisionByZero: the divisor evaluated to zero
  - ErrOverflow: an integer literal or product does not fit in int64

Use errors.Is to tell them apart:

	if _, err := expr.Eval("5/0"); errors.Is(err, expr.ErrDivisionByZero) {
	    // skip
	}
*/
package expr
