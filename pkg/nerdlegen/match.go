package nerdlegen

import (
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/expr"
)

// Match is one split whose two sides evaluate to the same value.
type Match struct {
	Left  string
	Right string
	Value expr.Value
}

// String renders the match as a dataset line without the newline.
func (m Match) String() string {
	return m.Left + "=" + m.Right
}

// Split is a division of a candidate into left and right parts.
type Split struct {
	Left  string
	Right string
}

// Splits returns the splits the enumerator examines for a candidate:
// left lengths 1..len-2, so the right side always has at least two
// characters.
func Splits(candidate string) []Split {
	if len(candidate) < 3 {
		return nil
	}
	splits := make([]Split, 0, len(candidate)-2)
	for i := 1; i <= len(candidate)-2; i++ {
		splits = append(splits, Split{Left: candidate[:i], Right: candidate[i:]})
	}
	return splits
}

// Check runs every filter and the evaluation for split position i of
// candidate, where i is the length of the left part. Positions outside
// 1..len-2 are never examined by the enumerator and report false, as do
// rejected splits and evaluation errors.
func Check(candidate string, i int) (Match, bool) {
	if i < 1 || i > len(candidate)-2 || !inAlphabet(candidate) || HasAdjacentOperators(candidate) {
		return Match{}, false
	}
	return checkSplit(candidate[:i], candidate[i:])
}

// checkSplit assumes the candidate already passed the adjacency filter.
func checkSplit(left, right string) (Match, bool) {
	if !ValidPart(left) || !ValidPart(right) {
		return Match{}, false
	}
	lv, err := expr.Eval(left)
	if err != nil {
		return Match{}, false
	}
	rv, err := expr.Eval(right)
	if err != nil {
		return Match{}, false
	}
	if !lv.Equal(rv) {
		return Match{}, false
	}
	return Match{Left: left, Right: right, Value: lv}, true
}
