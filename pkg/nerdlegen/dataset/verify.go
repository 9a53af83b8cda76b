package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/expr"
)

// ErrInvalidEntry is matched by every error Verify returns.
var ErrInvalidEntry = errors.New("invalid dataset entry")

// InvalidEntryError describes why an entry is not an equation the
// enumerator would emit.
type InvalidEntryError struct {
	Entry  string
	Reason string
	// Err is the evaluation error, if evaluation failed.
	Err error
}

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid entry %q: %s: %v", e.Entry, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid entry %q: %s", e.Entry, e.Reason)
}

// Unwrap returns ErrInvalidEntry and the evaluation error, if any.
func (e *InvalidEntryError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidEntry, e.Err}
	}
	return []error{ErrInvalidEntry}
}

// Verify checks that entry is "left=right" with length characters
// besides the '=', and that the enumerator emits it for that length.
func Verify(entry string, length int) error {
	invalid := func(reason string, err error) error {
		return &InvalidEntryError{Entry: entry, Reason: reason, Err: err}
	}

	left, right, ok := strings.Cut(entry, "=")
	switch {
	case !ok:
		return invalid("missing '='", nil)
	case strings.Contains(right, "="):
		return invalid("more than one '='", nil)
	}

	candidate := left + right
	switch {
	case len(candidate) != length:
		return invalid(fmt.Sprintf("has %d characters, want %d", len(candidate), length), nil)
	case left == "":
		return invalid("empty left side", nil)
	case len(right) < 2:
		return invalid("right side shorter than 2 characters", nil)
	}
	for i := 0; i < len(candidate); i++ {
		if !nerdlegen.IsDigit(candidate[i]) && !nerdlegen.IsOperator(candidate[i]) {
			return invalid(fmt.Sprintf("character %q outside the alphabet", candidate[i]), nil)
		}
	}
	if nerdlegen.HasAdjacentOperators(candidate) {
		return invalid("adjacent operators", nil)
	}

	for _, side := range []struct{ name, s string }{{"left", left}, {"right", right}} {
		switch {
		case nerdlegen.StartsWithOperator(side.s):
			return invalid(side.name+" side starts with an operator", nil)
		case nerdlegen.EndsWithOperator(side.s):
			return invalid(side.name+" side ends with an operator", nil)
		case nerdlegen.HasLeadingZero(side.s):
			return invalid(side.name+" side has a leading zero", nil)
		}
	}

	lv, err := expr.Eval(left)
	if err != nil {
		return invalid("left side does not evaluate", err)
	}
	rv, err := expr.Eval(right)
	if err != nil {
		return invalid("right side does not evaluate", err)
	}
	if !lv.Equal(rv) {
		return invalid(fmt.Sprintf("sides differ: %v != %v", lv, rv), nil)
	}
	return nil
}

// VerifyAll returns one error per invalid entry, in input order.
func VerifyAll(entries []string, length int) []error {
	var errs []error
	for _, e := range entries {
		if err := Verify(e, length); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
