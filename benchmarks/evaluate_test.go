package benchmarks

import (
	"testing"

	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen"
	"github.com/randalmurphal/nerdlegen/pkg/nerdlegen/expr"
)

// BenchmarkEval_Integer measures an all-integer expression.
func BenchmarkEval_Integer(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Eval("12*3-1")
	}
}

// BenchmarkEval_Division measures an expression that promotes to float.
func BenchmarkEval_Division(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Eval("6/4*2+1")
	}
}

// BenchmarkEval_SyntaxError measures the rejection path.
func BenchmarkEval_SyntaxError(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = expr.Eval("12+05")
	}
}

// BenchmarkCheck_Match measures a split that matches.
func BenchmarkCheck_Match(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = nerdlegen.Check("12*3-135", 6)
	}
}

// BenchmarkCheck_Rejected measures a split rejected by the filters.
func BenchmarkCheck_Rejected(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = nerdlegen.Check("12+34-10", 2)
	}
}

// BenchmarkHasLeadingZero measures the leading-zero scan.
func BenchmarkHasLeadingZero(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = nerdlegen.HasLeadingZero("10+20*305")
	}
}
