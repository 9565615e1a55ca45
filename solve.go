package ocrsolve

import (
	"fmt"
	"math/big"
	"sort"
)

// ============================================================
// Solvers
// ============================================================

// SolveResult holds the exact roots of a polynomial equation. Infinite is
// set when every value is a root; Error names why no roots were produced.
type SolveResult struct {
	Solutions []Expr
	Infinite  bool
	Error     string
}

// SolveLinear solves a*x + b = 0. a may be symbolic, in which case the root
// is returned as a quotient.
func SolveLinear(a, b Expr) SolveResult {
	a, b = a.Simplify(), b.Simplify()
	if isZero(a) {
		if isZero(b) {
			return SolveResult{Infinite: true}
		}
		return SolveResult{Error: ReasonNoSolution}
	}
	root := Canonicalize(MulOf(N(-1), b, PowOf(a, N(-1))))
	return SolveResult{Solutions: []Expr{root}}
}

// SolveQuadratic solves a*x^2 + b*x + c = 0 over exact rationals. Roots use
// reduced square roots and are complex (re ± im*I) for a negative
// discriminant. A double root is returned once.
func SolveQuadratic(a, b, c *big.Rat) SolveResult {
	if a.Sign() == 0 {
		return SolveLinear(NRat(b), NRat(c))
	}
	disc := new(big.Rat).Mul(b, b)
	disc.Sub(disc, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	twoA := new(big.Rat).Mul(big.NewRat(2, 1), a)
	negB := new(big.Rat).Neg(b)
	if disc.Sign() == 0 {
		return SolveResult{Solutions: []Expr{NRat(new(big.Rat).Quo(negB, twoA))}}
	}
	sq := SqrtOf(NRat(disc))
	inv := NRat(new(big.Rat).Inv(twoA))
	r1 := Canonicalize(MulOf(AddOf(NRat(negB), MulOf(N(-1), sq)), inv))
	r2 := Canonicalize(MulOf(AddOf(NRat(negB), sq), inv))
	return SolveResult{Solutions: []Expr{r1, r2}}
}

// MaxDegree is the highest polynomial degree SolvePolynomial attempts.
const MaxDegree = 64

// SolvePolynomial solves the polynomial given by its coefficients. Degree
// 1 accepts symbolic coefficients; higher degrees need rational ones.
// Above degree 2, rational roots are deflated until at most a quadratic
// remains.
func SolvePolynomial(coeffs PolyCoeffsResult) SolveResult {
	deg := coeffs.Degree()
	switch deg {
	case 0:
		if isZero(coeffs.Coeff(0)) {
			return SolveResult{Infinite: true}
		}
		return SolveResult{Error: ReasonNoSolution}
	case 1:
		return SolveLinear(coeffs.Coeff(1), coeffs.Coeff(0))
	}
	if deg > MaxDegree {
		return SolveResult{Error: fmt.Sprintf("cannot solve polynomial of degree %d", deg)}
	}
	c, ok := coeffs.Rationals()
	if !ok {
		return SolveResult{Error: fmt.Sprintf("symbolic coefficients of degree %d are not supported", deg)}
	}
	found, rest := deflate(c)
	var roots []Expr
	for _, r := range found {
		roots = append(roots, NRat(r))
	}
	var tail SolveResult
	switch len(rest) - 1 {
	case 0:
	case 1:
		tail = SolveLinear(NRat(rest[1]), NRat(rest[0]))
	case 2:
		tail = SolveQuadratic(rest[2], rest[1], rest[0])
	default:
		return SolveResult{Error: fmt.Sprintf("cannot solve polynomial of degree %d", deg)}
	}
	roots = append(roots, tail.Solutions...)
	return SolveResult{Solutions: SortRoots(roots)}
}

// SortRoots removes duplicate roots and orders the rest by ascending real
// part, then ascending imaginary part. Roots that cannot be evaluated
// numerically keep their relative order after the numeric ones.
func SortRoots(roots []Expr) []Expr {
	type keyed struct {
		e       Expr
		v       complex128
		numeric bool
		key     string
	}
	seen := map[string]bool{}
	ks := make([]keyed, 0, len(roots))
	for _, r := range roots {
		key := r.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		v, ok := r.Approx()
		ks = append(ks, keyed{e: r, v: v, numeric: ok, key: key})
	}
	sort.SliceStable(ks, func(i, j int) bool {
		a, b := ks[i], ks[j]
		if a.numeric != b.numeric {
			return a.numeric
		}
		if !a.numeric {
			return false
		}
		if real(a.v) != real(b.v) {
			return real(a.v) < real(b.v)
		}
		if imag(a.v) != imag(b.v) {
			return imag(a.v) < imag(b.v)
		}
		return a.key < b.key
	})
	out := make([]Expr, len(ks))
	for i, k := range ks {
		out[i] = k.e
	}
	return out
}
