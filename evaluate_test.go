package ocrsolve_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/njchilds90/ocrsolve"
)

func evalText(t *testing.T, text string, opts ...ocrsolve.Option) ocrsolve.Result {
	t.Helper()
	stmt, err := ocrsolve.Parse(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return ocrsolve.Evaluate(stmt, opts...)
}

func TestEvaluate_Simplify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2x + 3x", "simplified expression: 5*x"},
		{"(x+1)^2", "simplified expression: x^2 + 2*x + 1"},
		{"sqrt(8)", "simplified expression: 2*sqrt(2)"},
		{"sqrt(-4)", "simplified expression: 2*I"},
		{"2^10", "simplified expression: 1024"},
		{"x*x^-1", "simplified expression: 1"},
		{"1/2 + 1/3", "simplified expression: 5/6"},
		{"y + y", "simplified expression: 2*y"},
		{"0/5", "simplified expression: 0"},
		{"5/0", "error: division by zero"},
		{"x/(3-3)", "error: division by zero"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := ocrsolve.Format(evalText(t, tc.in)); got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEvaluate_Solve(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2*x + 3 = 7", "solution: 2"},
		{"2x+3=7", "solution: 2"},
		{"2*x+4=10", "solution: 3"},
		{"2x+3=9", "solution: 3"},
		{"3(x+1) = 2x", "solution: -3"},
		{"x/2 + 1 = 3", "solution: 4"},
		{"2x = 0", "solution: 0"},
		{"x^2 - 4 = 0", "solution: -2, 2"},
		{"x^2 = 4", "solution: -2, 2"},
		{"x^2 = 0", "solution: 0"},
		{"x^2 - 2x + 1 = 0", "solution: 1"},
		{"x^2 - 2 = 0", "solution: -sqrt(2), sqrt(2)"},
		{"x^2 + 1 = 0", "solution: -I, I"},
		{"x^2 + x + 1 = 0", "solution: -1/2 - sqrt(3)*I/2, -1/2 + sqrt(3)*I/2"},
		{"x^3 - 6x^2 + 11x - 6 = 0", "solution: 1, 2, 3"},
		{"2x^3 - 3x^2 - 3x + 2 = 0", "solution: -1, 1/2, 2"},
		{"x^3 = 8", "solution: -1 - sqrt(3)*I, -1 + sqrt(3)*I, 2"},
		{"x^3 = 0", "solution: 0"},
		{"1/x = 2", "solution: 1/2"},
		{"1/x + 1/x = 1", "solution: 2"},
		{"x*y = 2", "solution: 2/y"},
		{"x = x", "solution: infinitely many solutions"},
		{"x/x = 1", "solution: infinitely many solutions"},
		{"2 + 2 = 4", "solution: infinitely many solutions"},
		{"x + 1 = x + 2", "error: no solution"},
		{"2 + 2 = 5", "error: no solution"},
		{"1/(x-1) = 0", "error: no solution"},
		{"x/(x-1) = 1/(x-1)", "no solution"},
		{"y + 1 = 2", "error: target variable not present"},
		{"x/(2-2) = 1", "error: division by zero"},
		{"sqrt(x) = 2", "error: equation is not polynomial in x"},
		{"x^4 = 2", "error: cannot solve polynomial of degree 4"},
		{"x^65 = 1", "error: cannot solve polynomial of degree 65"},
		{"x^2147483648 = 1", "error: cannot solve polynomial of degree 2147483648"},
		{"x = 2I", "solution: 2*I"},
		{"x^2*y = 1", "error: symbolic coefficients of degree 2 are not supported"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := ocrsolve.Format(evalText(t, tc.in)); got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEvaluate_Options(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts []ocrsolve.Option
		want string
	}{
		{"real only drops complex", "x^2 + 1 = 0", []ocrsolve.Option{ocrsolve.WithRealOnly()}, "no solution"},
		{"real only keeps real", "x^2 - 4 = 0", []ocrsolve.Option{ocrsolve.WithRealOnly()}, "solution: -2, 2"},
		{"real only drops imaginary", "x = 2I", []ocrsolve.Option{ocrsolve.WithRealOnly()}, "no solution"},
		{"target z", "z^2 = 9", []ocrsolve.Option{ocrsolve.WithTarget("z")}, "solution: -3, 3"},
		{"target is normalized", "y - 1 = 0", []ocrsolve.Option{ocrsolve.WithTarget(" Y ")}, "solution: 1"},
		{"target y with x present", "x + y = 3", []ocrsolve.Option{ocrsolve.WithTarget("y")}, "solution: -x + 3"},
		{"unknown target", "x = 1", []ocrsolve.Option{ocrsolve.WithTarget("w")}, "error: unknown target variable: w"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ocrsolve.Format(evalText(t, tc.in, tc.opts...)); got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEvaluate_ResultFields(t *testing.T) {
	r := evalText(t, "y^2 = 4", ocrsolve.WithTarget("y"))
	if r.Kind != ocrsolve.ResultSolutions {
		t.Fatalf("want solutions, got %s", r.Kind)
	}
	if r.Target != "y" {
		t.Errorf("want target y, got %q", r.Target)
	}
	if len(r.Roots) != 2 {
		t.Errorf("want 2 roots, got %d", len(r.Roots))
	}
}

func TestEvaluate_NilStatement(t *testing.T) {
	r := ocrsolve.Evaluate(nil)
	if r.Kind != ocrsolve.ResultInvalid || !errors.Is(r.Err, ocrsolve.ErrNonMath) {
		t.Errorf("want invalid non-math result, got %+v", r)
	}
}

func TestEvaluate_NeverPanics(t *testing.T) {
	r := ocrsolve.Evaluate(&ocrsolve.Statement{Kind: ocrsolve.KindExpr})
	if r.Kind != ocrsolve.ResultUnsolvable || !strings.HasPrefix(r.Reason, "internal error") {
		t.Errorf("want internal error, got %+v", r)
	}
}

func TestSimplifyExpr(t *testing.T) {
	x := ocrsolve.S("x")
	r := ocrsolve.SimplifyExpr(ocrsolve.MulOf(ocrsolve.AddOf(x, ocrsolve.N(1)), ocrsolve.AddOf(x, ocrsolve.N(1))))
	if got := ocrsolve.Format(r); got != "simplified expression: x^2 + 2*x + 1" {
		t.Errorf("got %q", got)
	}
	r = ocrsolve.SimplifyExpr(ocrsolve.PowOf(ocrsolve.N(0), ocrsolve.N(-1)))
	if r.Kind != ocrsolve.ResultUnsolvable || r.Reason != ocrsolve.ReasonDivisionByZero {
		t.Errorf("want division by zero, got %+v", r)
	}
}

func TestSolveEquation(t *testing.T) {
	x := ocrsolve.S("x")
	r := ocrsolve.SolveEquation(ocrsolve.MulOf(ocrsolve.N(2), x), ocrsolve.N(4))
	if r.Kind != ocrsolve.ResultSolutions || r.Target != "x" {
		t.Fatalf("want solutions for x, got %+v", r)
	}
	if got := rootStrings(r.Roots); !sameStrings(got, []string{"2"}) {
		t.Errorf("want [2], got %v", got)
	}
}

// ============================================================
// Format tests
// ============================================================

func TestFormat_AllKinds(t *testing.T) {
	cases := []struct {
		name string
		r    ocrsolve.Result
		want string
	}{
		{"simplified", ocrsolve.Result{Kind: ocrsolve.ResultSimplified, Expr: ocrsolve.MulOf(ocrsolve.N(2), ocrsolve.S("x"))}, "simplified expression: 2*x"},
		{"empty roots", ocrsolve.Result{Kind: ocrsolve.ResultSolutions}, "no solution"},
		{"roots", ocrsolve.Result{Kind: ocrsolve.ResultSolutions, Roots: []ocrsolve.Expr{ocrsolve.N(-2), ocrsolve.N(2)}}, "solution: -2, 2"},
		{"infinite", ocrsolve.Result{Kind: ocrsolve.ResultInfinite}, "solution: infinitely many solutions"},
		{"unsolvable", ocrsolve.Unsolvable(ocrsolve.ReasonNoSolution), "error: no solution"},
		{"non math", ocrsolve.Invalid(&ocrsolve.ParseError{Err: ocrsolve.ErrNonMath, Pos: -1}), "error: not a mathematical expression"},
		{"parse error", ocrsolve.Invalid(&ocrsolve.ParseError{Err: ocrsolve.ErrUnbalanced, Pos: 0, Detail: "unclosed '('"}), "error: unbalanced parentheses: unclosed '(' at 0"},
		{"unknown kind", ocrsolve.Result{Kind: ocrsolve.ResultKind(99)}, "error: unknown result ResultKind(99)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ocrsolve.Format(tc.r); got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormatLaTeX(t *testing.T) {
	r := ocrsolve.Result{Kind: ocrsolve.ResultSolutions, Roots: []ocrsolve.Expr{ocrsolve.F(1, 2)}}
	if got := ocrsolve.FormatLaTeX(r); got != `solution: \frac{1}{2}` {
		t.Errorf("got %q", got)
	}
}

func TestFormatRecognized(t *testing.T) {
	r := ocrsolve.Result{Kind: ocrsolve.ResultSolutions, Roots: []ocrsolve.Expr{ocrsolve.N(2)}}
	direct := ocrsolve.FormatRecognized(ocrsolve.RawText{Text: "2x=4"}, r)
	if direct != "solution: 2" {
		t.Errorf("direct input: got %q", direct)
	}
	ocr := ocrsolve.FormatRecognized(ocrsolve.RawText{Text: " 2x=4\n", Origin: ocrsolve.OriginOCR}, r)
	if ocr != "recognized text: 2x=4\nsolution: 2" {
		t.Errorf("ocr input: got %q", ocr)
	}
}
