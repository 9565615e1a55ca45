package ocrsolve

import (
	"fmt"
	"sort"
)

// Lower maps a parse tree into the kernel without simplifying it, so the
// result still shows every division the input wrote.
func Lower(n Node) Expr {
	switch v := n.(type) {
	case *Literal:
		return NRat(v.Value)
	case *Variable:
		return S(v.Name)
	case *Imaginary:
		return I
	case *UnaryMinus:
		return &Mul{factors: []Expr{N(-1), Lower(v.Operand)}}
	case *Call:
		return &Pow{base: Lower(v.Arg), exp: F(1, 2)}
	case *BinaryOp:
		l, r := Lower(v.Left), Lower(v.Right)
		switch v.Op {
		case '+':
			return &Add{terms: []Expr{l, r}}
		case '-':
			return &Add{terms: []Expr{l, &Mul{factors: []Expr{N(-1), r}}}}
		case '*':
			return &Mul{factors: []Expr{l, r}}
		case '/':
			return &Mul{factors: []Expr{l, &Pow{base: r, exp: N(-1)}}}
		case '^':
			return &Pow{base: l, exp: r}
		}
		panic(fmt.Sprintf("ocrsolve: unknown operator %q", v.Op))
	}
	panic(fmt.Sprintf("ocrsolve: cannot lower %T", n))
}

// ============================================================
// Canonicalization and expansion
// ============================================================

// Canonicalize simplifies, expands products over sums and simplifies
// again. The result is deterministic and Canonicalize(Canonicalize(e))
// equals Canonicalize(e).
func Canonicalize(e Expr) Expr { return Expand(e.Simplify()) }

// Expand distributes products over sums and multiplies out non-negative
// integer powers of sums up to degree 10.
func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		for i, f := range expanded {
			if a, ok := f.(*Add); ok {
				rest := make([]Expr, 0, len(expanded)-1)
				for j, ef := range expanded {
					if j != i {
						rest = append(rest, ef)
					}
				}
				terms := make([]Expr, len(a.terms))
				for k, t := range a.terms {
					terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
				}
				return expandExpr(AddOf(terms...))
			}
		}
		return MulOf(expanded...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.val.Num().IsInt64() {
			exp := n.val.Num().Int64()
			if exp >= 0 && exp <= 10 {
				base := expandExpr(v.base)
				if _, ok := base.(*Add); !ok {
					// (3*sqrt(x+1))^2 folds to 9*(x+1), which still needs
					// distributing; a result that is still a power is final.
					p := PowOf(base, v.exp)
					if _, ok := p.(*Pow); ok {
						return p
					}
					return expandExpr(p)
				}
				// Each step stays an unsimplified product so equal bases are
				// distributed rather than merged back into a power.
				result := Expr(N(1))
				for i := int64(0); i < exp; i++ {
					result = expandExpr(&Mul{factors: []Expr{result, base}})
				}
				return result
			}
		}
		return PowOf(expandExpr(v.base), expandExpr(v.exp))
	}
	return e
}

// multiplyThrough multiplies every term of e by f before simplifying, so
// a factor f^-1 inside a term cancels instead of being expanded away.
func multiplyThrough(e, f Expr) Expr {
	if a, ok := e.(*Add); ok {
		terms := make([]Expr, len(a.terms))
		for i, t := range a.terms {
			terms[i] = MulOf(t, f)
		}
		return Canonicalize(&Add{terms: terms})
	}
	return Canonicalize(MulOf(e, f))
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// SortedSymbols lists the free symbols of e in lexical order.
func SortedSymbols(e Expr) []string {
	set := FreeSymbols(e)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	}
}

func containsSymbol(e Expr, name string) bool {
	_, ok := FreeSymbols(e)[name]
	return ok
}

func containsImag(e Expr) bool {
	switch v := e.(type) {
	case *Imag:
		return true
	case *Add:
		for _, t := range v.terms {
			if containsImag(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if containsImag(f) {
				return true
			}
		}
	case *Pow:
		return containsImag(v.base) || containsImag(v.exp)
	}
	return false
}

// hasZeroDivision reports whether e divides by something that simplifies
// to zero. It inspects the unsimplified tree, since simplification may
// fold 0*(1/0) away.
func hasZeroDivision(e Expr) bool {
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if hasZeroDivision(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasZeroDivision(f) {
				return true
			}
		}
	case *Pow:
		if hasZeroDivision(v.base) || hasZeroDivision(v.exp) {
			return true
		}
		if en, ok := v.exp.Simplify().(*Num); ok && en.IsNegative() {
			return isZero(Canonicalize(v.base))
		}
	}
	return false
}
