package ocrsolve

import "fmt"

// ResultKind tags an evaluation Result.
type ResultKind int

const (
	ResultSimplified ResultKind = iota
	ResultSolutions
	ResultInfinite
	ResultUnsolvable
	ResultInvalid
)

func (k ResultKind) String() string {
	switch k {
	case ResultSimplified:
		return "simplified"
	case ResultSolutions:
		return "solutions"
	case ResultInfinite:
		return "infinite"
	case ResultUnsolvable:
		return "unsolvable"
	case ResultInvalid:
		return "invalid"
	}
	return fmt.Sprintf("ResultKind(%d)", int(k))
}

// Result is the outcome of evaluating one Statement.
type Result struct {
	Kind   ResultKind
	Expr   Expr   // ResultSimplified
	Roots  []Expr // ResultSolutions, ascending; may be empty
	Target string
	Reason string // ResultUnsolvable and ResultInvalid
	Err    error  // ResultInvalid
}

// Unsolvable builds a ResultUnsolvable with the given reason.
func Unsolvable(reason string) Result {
	return Result{Kind: ResultUnsolvable, Reason: reason}
}

// Invalid converts a parse failure into a Result.
func Invalid(err error) Result {
	return Result{Kind: ResultInvalid, Reason: err.Error(), Err: err}
}

// Option configures Evaluate.
type Option func(*evalConfig)

type evalConfig struct {
	target   string
	realOnly bool
}

// WithTarget selects the variable to solve for. Names outside Symbols
// make Evaluate fail.
func WithTarget(name string) Option {
	return func(c *evalConfig) { c.target = NormalizeTarget(name) }
}

// WithRealOnly drops roots with a nonzero imaginary part.
func WithRealOnly() Option {
	return func(c *evalConfig) { c.realOnly = true }
}

// Evaluate simplifies an expression statement or solves an equation
// statement for the target variable. It never panics; internal failures
// become ResultUnsolvable.
func Evaluate(stmt *Statement, opts ...Option) (res Result) {
	cfg := newEvalConfig(opts)
	defer recoverResult(&res, cfg.target)
	if err := ValidateTarget(cfg.target); err != nil {
		return Unsolvable(err.Error())
	}
	if stmt == nil {
		return Invalid(&ParseError{Err: ErrNonMath, Pos: -1})
	}
	switch stmt.Kind {
	case KindExpr:
		return simplifyStatement(Lower(stmt.Expr))
	case KindEquation:
		res = solveEquation(Lower(stmt.LHS), Lower(stmt.RHS), cfg)
		res.Target = cfg.target
		return res
	}
	return Unsolvable(fmt.Sprintf("unknown statement kind %d", int(stmt.Kind)))
}

// SimplifyExpr canonicalizes a kernel expression, reporting division by an
// expression that simplifies to zero.
func SimplifyExpr(e Expr) (res Result) {
	defer recoverResult(&res, "")
	return simplifyStatement(e)
}

// SolveEquation solves lhs = rhs for the target variable.
func SolveEquation(lhs, rhs Expr, opts ...Option) (res Result) {
	cfg := newEvalConfig(opts)
	defer recoverResult(&res, cfg.target)
	if err := ValidateTarget(cfg.target); err != nil {
		return Unsolvable(err.Error())
	}
	res = solveEquation(lhs, rhs, cfg)
	res.Target = cfg.target
	return res
}

func newEvalConfig(opts []Option) evalConfig {
	cfg := evalConfig{target: DefaultTarget}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func recoverResult(res *Result, target string) {
	if r := recover(); r != nil {
		*res = Unsolvable(fmt.Sprintf("internal error: %v", r))
		res.Target = target
	}
}

func simplifyStatement(e Expr) Result {
	if hasZeroDivision(e) {
		return Unsolvable(ReasonDivisionByZero)
	}
	return Result{Kind: ResultSimplified, Expr: Canonicalize(e)}
}

func solveEquation(lhs, rhs Expr, cfg evalConfig) Result {
	if hasZeroDivision(lhs) || hasZeroDivision(rhs) {
		return Unsolvable(ReasonDivisionByZero)
	}
	residual := Canonicalize(Eq(lhs, rhs).Residual())

	vars := FreeSymbols(lhs)
	collectSymbols(rhs, vars)
	if len(vars) == 0 {
		if isZero(residual) {
			return Result{Kind: ResultInfinite}
		}
		return Unsolvable(ReasonNoSolution)
	}
	if _, ok := vars[cfg.target]; !ok {
		return Unsolvable(ReasonTargetAbsent)
	}

	numer, denoms := clearDenominators(residual, cfg.target)
	coeffs, err := PolyCoeffs(numer, cfg.target)
	if err != nil {
		return Unsolvable(fmt.Sprintf("equation is not polynomial in %s", cfg.target))
	}
	sol := SolvePolynomial(coeffs)
	switch {
	case sol.Infinite:
		return Result{Kind: ResultInfinite}
	case sol.Error != "":
		return Unsolvable(sol.Error)
	}

	roots := make([]Expr, 0, len(sol.Solutions))
	for _, r := range sol.Solutions {
		if zeroesAny(denoms, cfg.target, r) {
			continue
		}
		if cfg.realOnly && containsImag(r) {
			continue
		}
		roots = append(roots, r)
	}
	return Result{Kind: ResultSolutions, Roots: SortRoots(roots)}
}

// maxDenominators bounds the number of distinct denominators cleared from
// one residual.
const maxDenominators = 8

// clearDenominators multiplies the residual through by every power of an
// expression in target that appears with a negative integer exponent. It
// returns the cleared residual and the bases it multiplied by.
func clearDenominators(e Expr, target string) (Expr, []Expr) {
	var denoms []Expr
	for i := 0; i < maxDenominators; i++ {
		base, k, ok := findDenominator(e, target)
		if !ok {
			break
		}
		denoms = append(denoms, base)
		e = multiplyThrough(e, PowOf(base, N(k)))
	}
	return e, denoms
}

func findDenominator(e Expr, target string) (Expr, int64, bool) {
	terms := []Expr{e}
	if a, ok := e.(*Add); ok {
		terms = a.terms
	}
	for _, t := range terms {
		factors := []Expr{t}
		if m, ok := t.(*Mul); ok {
			factors = m.factors
		}
		for _, f := range factors {
			p, ok := f.(*Pow)
			if !ok || !containsSymbol(p.base, target) {
				continue
			}
			n, ok := p.exp.(*Num)
			if !ok || !n.IsInteger() || !n.IsNegative() || !n.val.Num().IsInt64() {
				continue
			}
			return p.base, -n.val.Num().Int64(), true
		}
	}
	return nil, 0, false
}

// zeroesAny reports whether substituting root for target makes any of the
// denominators zero.
func zeroesAny(denoms []Expr, target string, root Expr) bool {
	for _, d := range denoms {
		if isZero(Canonicalize(d.Sub(target, root))) {
			return true
		}
	}
	return false
}
