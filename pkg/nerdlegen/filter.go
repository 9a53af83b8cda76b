package nerdlegen

// Alphabet is the candidate alphabet in enumeration order: digits 1-9,
// then 0, then the four operators. Output order follows this ordering.
const Alphabet = "1234567890+-*/"

// IsOperator reports whether c is one of + - * /.
func IsOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/':
		return true
	}
	return false
}

// IsDigit reports whether c is 0-9.
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// HasAdjacentOperators reports whether two consecutive bytes of s are
// both operators.
func HasAdjacentOperators(s string) bool {
	for i := 1; i < len(s); i++ {
		if IsOperator(s[i]) && IsOperator(s[i-1]) {
			return true
		}
	}
	return false
}

// StartsWithOperator reports whether s begins with an operator.
func StartsWithOperator(s string) bool {
	return len(s) > 0 && IsOperator(s[0])
}

// EndsWithOperator reports whether s ends with an operator.
func EndsWithOperator(s string) bool {
	return len(s) > 0 && IsOperator(s[len(s)-1])
}

// HasLeadingZero reports whether s contains a multi-digit number starting
// with 0: a '0' at a word boundary (start of s or after an operator)
// followed by a digit.
func HasLeadingZero(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '0' || !IsDigit(s[i+1]) {
			continue
		}
		if i == 0 || !IsDigit(s[i-1]) {
			return true
		}
	}
	return false
}

// ValidPart reports whether s may be one side of an equation: non-empty,
// no leading or trailing operator, no leading-zero number.
func ValidPart(s string) bool {
	return s != "" &&
		!StartsWithOperator(s) &&
		!EndsWithOperator(s) &&
		!HasLeadingZero(s)
}

// inAlphabet reports whether every byte of s belongs to Alphabet.
func inAlphabet(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) && !IsOperator(s[i]) {
			return false
		}
	}
	return true
}
