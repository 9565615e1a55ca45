package ocrsolve

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
)

// ErrNotPolynomial is returned by PolyCoeffs when a term uses the variable
// other than through a non-negative integer power.
var ErrNotPolynomial = errors.New("not polynomial")

// PolyCoeffsResult maps a degree to its coefficient.
type PolyCoeffsResult map[int]Expr

// PolyCoeffs reads the coefficients of an expanded expression as a
// polynomial in varName. Coefficients may contain other variables. Zero
// coefficients are omitted.
func PolyCoeffs(expr Expr, varName string) (PolyCoeffsResult, error) {
	result := PolyCoeffsResult{}
	terms := []Expr{expr}
	if a, ok := expr.(*Add); ok {
		terms = a.terms
	}
	for _, t := range terms {
		deg, coeff, err := monomial(t, varName)
		if err != nil {
			return nil, err
		}
		addCoeff(result, deg, coeff)
	}
	for deg, c := range result {
		if isZero(c) {
			delete(result, deg)
		}
	}
	return result, nil
}

// monomial splits one term into the power of varName and its coefficient.
func monomial(t Expr, varName string) (int, Expr, error) {
	factors := []Expr{t}
	if m, ok := t.(*Mul); ok {
		factors = m.factors
	}
	deg := 0
	coeffFactors := []Expr{}
	for _, f := range factors {
		switch v := f.(type) {
		case *Sym:
			if v.name == varName {
				deg++
				continue
			}
		case *Pow:
			if sym, ok := v.base.(*Sym); ok && sym.name == varName {
				n, ok := v.exp.(*Num)
				if !ok || !n.IsInteger() || n.IsNegative() || !n.val.Num().IsInt64() {
					return 0, nil, fmt.Errorf("%w: %s", ErrNotPolynomial, f)
				}
				deg += int(n.val.Num().Int64())
				continue
			}
		}
		if containsSymbol(f, varName) {
			return 0, nil, fmt.Errorf("%w: %s", ErrNotPolynomial, f)
		}
		coeffFactors = append(coeffFactors, f)
	}
	switch len(coeffFactors) {
	case 0:
		return deg, N(1), nil
	case 1:
		return deg, coeffFactors[0], nil
	}
	return deg, MulOf(coeffFactors...), nil
}

func addCoeff(out PolyCoeffsResult, deg int, val Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = AddOf(existing, val)
	} else {
		out[deg] = val.Simplify()
	}
}

// Degree is the highest degree with a nonzero coefficient, or 0.
func (c PolyCoeffsResult) Degree() int {
	maxDeg := 0
	for deg := range c {
		if deg > maxDeg {
			maxDeg = deg
		}
	}
	return maxDeg
}

// Coeff returns the coefficient of degree deg, zero when absent.
func (c PolyCoeffsResult) Coeff(deg int) Expr {
	if v, ok := c[deg]; ok {
		return v
	}
	return N(0)
}

// Rationals returns the coefficients indexed by degree when all of them are
// rational numbers and the degree is at most MaxDegree.
func (c PolyCoeffsResult) Rationals() ([]*big.Rat, bool) {
	if c.Degree() > MaxDegree {
		return nil, false
	}
	out := make([]*big.Rat, c.Degree()+1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	for deg, v := range c {
		n, ok := v.(*Num)
		if !ok {
			return nil, false
		}
		out[deg] = n.Rat()
	}
	return out, true
}

// Collect rebuilds expr grouped by descending powers of varName. It returns
// expr unchanged when it is not polynomial in varName.
func Collect(expr Expr, varName string) Expr {
	coeffs, err := PolyCoeffs(expr, varName)
	if err != nil {
		return expr
	}
	degs := make([]int, 0, len(coeffs))
	for d := range coeffs {
		degs = append(degs, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degs)))
	terms := make([]Expr, 0, len(degs))
	for _, d := range degs {
		terms = append(terms, MulOf(coeffs[d], PowOf(S(varName), N(int64(d)))))
	}
	return AddOf(terms...)
}

// ============================================================
// Rational polynomials
// ============================================================

// horner evaluates the polynomial with coefficients c (index = degree) at r.
func horner(c []*big.Rat, r *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(c) - 1; i >= 0; i-- {
		acc.Mul(acc, r)
		acc.Add(acc, c[i])
	}
	return acc
}

// syntheticDivide divides c by (x - r), dropping the remainder.
func syntheticDivide(c []*big.Rat, r *big.Rat) []*big.Rat {
	n := len(c) - 1
	out := make([]*big.Rat, n)
	carry := new(big.Rat)
	for i := n; i >= 1; i-- {
		v := new(big.Rat).Mul(carry, r)
		v.Add(v, c[i])
		out[i-1] = v
		carry = v
	}
	return out
}

// maxDivisorSearch bounds the integers whose divisors are enumerated when
// looking for rational roots.
const maxDivisorSearch = 1 << 20

// rationalRoot finds a rational root of c by the rational root theorem.
func rationalRoot(c []*big.Rat) (*big.Rat, bool) {
	if c[0].Sign() == 0 {
		return new(big.Rat), true
	}
	// Scale to integer coefficients.
	lcm := big.NewInt(1)
	for _, v := range c {
		g := new(big.Int).GCD(nil, nil, lcm, v.Denom())
		lcm.Mul(lcm, new(big.Int).Quo(v.Denom(), g))
	}
	scale := new(big.Rat).SetInt(lcm)
	a0 := new(big.Rat).Mul(c[0], scale)
	an := new(big.Rat).Mul(c[len(c)-1], scale)
	ps, ok := divisors(a0.Num())
	if !ok {
		return nil, false
	}
	qs, ok := divisors(an.Num())
	if !ok {
		return nil, false
	}
	for _, p := range ps {
		for _, q := range qs {
			for _, sign := range []int64{1, -1} {
				cand := new(big.Rat).SetFrac(big.NewInt(sign*p), big.NewInt(q))
				if horner(c, cand).Sign() == 0 {
					return cand, true
				}
			}
		}
	}
	return nil, false
}

func divisors(n *big.Int) ([]int64, bool) {
	a := new(big.Int).Abs(n)
	if !a.IsInt64() || a.Int64() > maxDivisorSearch {
		return nil, false
	}
	v := a.Int64()
	var out []int64
	for d := int64(1); d <= v; d++ {
		if v%d == 0 {
			out = append(out, d)
		}
	}
	return out, true
}

// deflate strips rational roots from c while its degree exceeds 2, and
// returns them with the remaining factor.
func deflate(c []*big.Rat) ([]*big.Rat, []*big.Rat) {
	var roots []*big.Rat
	for len(c)-1 > 2 {
		r, ok := rationalRoot(c)
		if !ok {
			break
		}
		roots = append(roots, r)
		c = syntheticDivide(c, r)
	}
	return roots, c
}
