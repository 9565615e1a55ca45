package ocrsolve

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of the symbolic kernel. Values are immutable; the
// constructors ending in Of return simplified expressions.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Approx() (complex128, bool)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// maxExactPower bounds integer exponents folded over rationals, and
// maxPowerBits bounds the size of the folded result.
const (
	maxExactPower = 64
	maxPowerBits  = 1 << 16
)

// ============================================================
// Num — exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("ocrsolve: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) Approx() (complex128, bool) { return complex(n.Float64(), 0), true }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

// numPow raises a to an integer power. a must be nonzero when e < 0.
func numPow(a *Num, e int64) *Num {
	neg := e < 0
	if neg {
		e = -e
	}
	k := big.NewInt(e)
	num := new(big.Int).Exp(a.val.Num(), k, nil)
	den := new(big.Int).Exp(a.val.Denom(), k, nil)
	r := new(big.Rat).SetFrac(num, den)
	if neg {
		r.Inv(r)
	}
	return &Num{val: r}
}

// ============================================================
// Sym — symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Approx() (complex128, bool) {
	return 0, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

// ============================================================
// Imag — the imaginary unit, only produced by square roots of
// negative rationals
// ============================================================

type Imag struct{}

// I is the imaginary unit.
var I = &Imag{}

func (*Imag) Simplify() Expr                { return I }
func (*Imag) String() string                { return "I" }
func (*Imag) LaTeX() string                 { return "i" }
func (*Imag) Sub(string, Expr) Expr         { return I }
func (*Imag) Approx() (complex128, bool)    { return 1i, true }
func (*Imag) Equal(other Expr) bool         { _, ok := other.(*Imag); return ok }
func (*Imag) exprType() string              { return "imag" }
func (*Imag) toJSON() map[string]interface{} { return map[string]interface{}{"type": "imag"} }

// ============================================================
// Add — sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds constants and combines like terms
// (2*x + 3*x is 5*x). Terms come out in canonical order.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	sortTerms(result)
	return &Add{terms: result}
}

// sortTerms orders summands: terms with variables by descending total
// degree, then numeric irrationals, then the rational constant, then
// imaginary terms. Ties break on the rendering without coefficient.
func sortTerms(terms []Expr) {
	type keyed struct {
		e     Expr
		class int
		deg   int
		key   string
	}
	ks := make([]keyed, len(terms))
	for i, t := range terms {
		_, rest := extractCoefficient(t)
		k := keyed{e: t, key: rest.String()}
		switch {
		case isNum(t):
			k.class = 2
		case containsImag(t):
			k.class = 3
		case len(FreeSymbols(t)) > 0:
			k.class = 0
			k.deg = totalDegree(rest)
		default:
			k.class = 1
		}
		ks[i] = k
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].class != ks[j].class {
			return ks[i].class < ks[j].class
		}
		if ks[i].deg != ks[j].deg {
			return ks[i].deg > ks[j].deg
		}
		return ks[i].key < ks[j].key
	})
	for i := range ks {
		terms[i] = ks[i].e
	}
}

// totalDegree sums the integer exponents of the variables in a monomial.
func totalDegree(e Expr) int {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.val.Num().IsInt64() {
				return int(n.val.Num().Int64())
			}
		}
	case *Mul:
		d := 0
		for _, f := range v.factors {
			d += totalDegree(f)
		}
		return d
	}
	return 0
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			b.WriteString(t.String())
			continue
		}
		if neg, ok := negatedTerm(t); ok {
			b.WriteString(" - ")
			b.WriteString(neg.String())
		} else {
			b.WriteString(" + ")
			b.WriteString(t.String())
		}
	}
	return b.String()
}

func (a *Add) LaTeX() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			b.WriteString(t.LaTeX())
			continue
		}
		if neg, ok := negatedTerm(t); ok {
			b.WriteString(" - ")
			b.WriteString(neg.LaTeX())
		} else {
			b.WriteString(" + ")
			b.WriteString(t.LaTeX())
		}
	}
	return b.String()
}

// negatedTerm returns -t when t carries a negative rational coefficient.
func negatedTerm(t Expr) (Expr, bool) {
	if n, ok := t.(*Num); ok {
		if n.IsNegative() {
			return numNeg(n), true
		}
		return nil, false
	}
	coeff, rest := extractCoefficient(t)
	if !coeff.IsNegative() {
		return nil, false
	}
	abs := numNeg(coeff)
	if abs.IsOne() {
		return rest, true
	}
	return MulOf(abs, rest), true
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Approx() (complex128, bool) {
	var acc complex128
	for _, t := range a.terms {
		v, ok := t.Approx()
		if !ok {
			return 0, false
		}
		acc += v
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul — product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the rational coefficient to the
// front and merges factors sharing a base by adding exponents (x*x is x^2,
// x*x^-1 is 1).
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	others := []Expr{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
		} else {
			others = append(others, f)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}

	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	first := map[string]Expr{}
	order := []string{}
	for _, f := range others {
		base, exp := splitPower(f)
		key := base.String()
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			bases[key] = base
			first[key] = f
		}
		exps[key] = append(exps[key], exp)
	}
	merged := make([]Expr, 0, len(order))
	regroup := false
	for _, key := range order {
		p := first[key]
		if len(exps[key]) > 1 {
			p = PowOf(bases[key], AddOf(exps[key]...))
		}
		switch v := p.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			// A merged power produced a new product, e.g. 2^(3/2) = 2*sqrt(2).
			regroup = true
			merged = append(merged, v.factors...)
		default:
			merged = append(merged, p)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if regroup {
		return MulOf(append([]Expr{coeff}, merged...)...)
	}
	if len(merged) == 0 {
		return coeff
	}
	sortFactors(merged)
	if coeff.IsOne() {
		if len(merged) == 1 {
			return merged[0]
		}
		return &Mul{factors: merged}
	}
	return &Mul{factors: append([]Expr{coeff}, merged...)}
}

// sortFactors orders non-numeric factors by the rendering of their base,
// with the imaginary unit last.
func sortFactors(factors []Expr) {
	type keyed struct {
		e    Expr
		imag bool
		key  string
	}
	ks := make([]keyed, len(factors))
	for i, f := range factors {
		base, _ := splitPower(f)
		_, imag := base.(*Imag)
		ks[i] = keyed{e: f, imag: imag, key: base.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].imag != ks[j].imag {
			return !ks[i].imag
		}
		return ks[i].key < ks[j].key
	})
	for i := range ks {
		factors[i] = ks[i].e
	}
}

// splitPower returns base and exponent, treating a bare factor as f^1.
func splitPower(f Expr) (Expr, Expr) {
	if p, ok := f.(*Pow); ok {
		return p.base, p.exp
	}
	return f, N(1)
}

// fraction splits the product into its rational coefficient, the factors
// with non-negative exponents and the reciprocals of the others.
func (m *Mul) fraction() (*Num, []Expr, []Expr) {
	coeff := N(1)
	var numer, denom []Expr
	for _, f := range m.factors {
		if n, ok := f.(*Num); ok {
			coeff = numMul(coeff, n)
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.IsNegative() {
				denom = append(denom, PowOf(p.base, numNeg(e)))
				continue
			}
		}
		numer = append(numer, f)
	}
	return coeff, numer, denom
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	coeff, numer, denom := m.fraction()
	p := new(big.Int).Set(coeff.val.Num())
	q := coeff.val.Denom()

	var b strings.Builder
	if p.Sign() < 0 {
		b.WriteByte('-')
		p.Neg(p)
	}
	parts := make([]string, 0, len(numer)+1)
	if !(p.IsInt64() && p.Int64() == 1 && len(numer) > 0) {
		parts = append(parts, p.String())
	}
	for _, f := range numer {
		parts = append(parts, factorString(f))
	}
	b.WriteString(strings.Join(parts, "*"))

	dparts := make([]string, 0, len(denom)+1)
	if !q.IsInt64() || q.Int64() != 1 {
		dparts = append(dparts, q.String())
	}
	for _, f := range denom {
		dparts = append(dparts, factorString(f))
	}
	switch len(dparts) {
	case 0:
	case 1:
		b.WriteString("/" + dparts[0])
	default:
		b.WriteString("/(" + strings.Join(dparts, "*") + ")")
	}
	return b.String()
}

func factorString(f Expr) string {
	switch f.(type) {
	case *Add, *Mul:
		return "(" + f.String() + ")"
	}
	return f.String()
}

func factorLaTeX(f Expr) string {
	if _, ok := f.(*Add); ok {
		return "\\left(" + f.LaTeX() + "\\right)"
	}
	return f.LaTeX()
}

func (m *Mul) LaTeX() string {
	if len(m.factors) == 0 {
		return "1"
	}
	coeff, numer, denom := m.fraction()
	p := new(big.Int).Set(coeff.val.Num())
	q := new(big.Int).Set(coeff.val.Denom())
	sign := ""
	if p.Sign() < 0 {
		sign = "-"
		p.Neg(p)
	}
	parts := []string{}
	if !(p.IsInt64() && p.Int64() == 1 && len(numer) > 0) {
		parts = append(parts, p.String())
	}
	for _, f := range numer {
		parts = append(parts, factorLaTeX(f))
	}
	dparts := []string{}
	if !q.IsInt64() || q.Int64() != 1 {
		dparts = append(dparts, q.String())
	}
	for _, f := range denom {
		dparts = append(dparts, factorLaTeX(f))
	}
	top := strings.Join(parts, " ")
	if len(dparts) == 0 {
		return sign + top
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, top, strings.Join(dparts, " "))
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Approx() (complex128, bool) {
	acc := complex(1, 0)
	for _, f := range m.factors {
		v, ok := f.Approx()
		if !ok {
			return 0, false
		}
		acc *= v
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return m.factors }

// ============================================================
// Pow — base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// SqrtOf is the principal square root.
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expNum := exp.(*Num)
	if expNum && en.IsZero() {
		return N(1)
	}
	if expNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		switch {
		case bn.IsZero():
			// 0^negative stays unevaluated so callers can report it.
			if expNum && en.IsPositive() {
				return N(0)
			}
			return &Pow{base: base, exp: exp}
		case bn.IsOne():
			return N(1)
		case expNum:
			return numPower(bn, en)
		}
		return &Pow{base: base, exp: exp}
	}
	if !expNum {
		return &Pow{base: base, exp: exp}
	}

	switch b := base.(type) {
	case *Pow:
		// (x^a)^n = x^(a*n) holds for integer n; (x^2)^(1/2) is not x.
		if en.IsInteger() {
			return PowOf(b.base, MulOf(b.exp, en))
		}
	case *Mul:
		if en.IsInteger() {
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
		if c, ok := b.factors[0].(*Num); ok && c.IsPositive() {
			var rest Expr = &Mul{factors: b.factors[1:]}
			if len(b.factors) == 2 {
				rest = b.factors[1]
			}
			return MulOf(PowOf(c, en), PowOf(rest, en))
		}
	case *Imag:
		if en.IsInteger() {
			k := new(big.Int).Mod(en.val.Num(), big.NewInt(4)).Int64()
			return [...]Expr{N(1), I, N(-1), &Mul{factors: []Expr{N(-1), I}}}[k]
		}
	}
	return &Pow{base: base, exp: exp}
}

// numPower folds a rational base b (not 0 or 1) raised to a rational
// exponent e (not 0 or 1). Integer exponents fold exactly; half-integer
// exponents reduce the square root; other roots fold only when exact.
func numPower(b, e *Num) Expr {
	p := e.val.Num()
	q := e.val.Denom()
	if !p.IsInt64() || abs64(p.Int64()) > maxExactPower {
		return &Pow{base: b, exp: e}
	}
	k := p.Int64()
	if int64(b.val.Num().BitLen()+b.val.Denom().BitLen())*abs64(k) > maxPowerBits {
		return &Pow{base: b, exp: e}
	}
	if e.IsInteger() {
		return numPow(b, k)
	}
	if q.IsInt64() && q.Int64() == 2 {
		// b^(k/2) = b^((k-1)/2) * sqrt(b); k is odd so k-1 is even.
		c, radicand, imaginary := sqrtRat(b)
		c = numMul(c, numPow(b, (k-1)/2))
		if c.IsOne() && !imaginary && radicand.Equal(b) {
			return &Pow{base: b, exp: F(1, 2)}
		}
		factors := []Expr{}
		if !c.IsOne() {
			factors = append(factors, c)
		}
		if !radicand.IsOne() {
			factors = append(factors, &Pow{base: radicand, exp: F(1, 2)})
		}
		if imaginary {
			factors = append(factors, I)
		}
		if len(factors) == 1 {
			return factors[0]
		}
		return &Mul{factors: factors}
	}
	if root, ok := exactRoot(b, q); ok {
		return numPow(root, k)
	}
	return &Pow{base: b, exp: e}
}

// sqrtRat writes sqrt(r) as c*sqrt(m) with m a square-free integer, and
// reports whether the result carries a factor of I.
func sqrtRat(r *Num) (*Num, *Num, bool) {
	a := new(big.Int).Set(r.val.Num())
	imaginary := a.Sign() < 0
	a.Abs(a)
	d := r.val.Denom()
	// sqrt(a/d) = sqrt(a*d)/d
	n := new(big.Int).Mul(a, d)
	s, m := squarePart(n)
	c := new(big.Rat).SetFrac(s, d)
	return &Num{val: c}, &Num{val: new(big.Rat).SetInt(m)}, imaginary
}

// squarePart factors n = s^2 * m. Trial division is bounded, so very large
// square factors may stay under the radical.
func squarePart(n *big.Int) (*big.Int, *big.Int) {
	s := big.NewInt(1)
	m := new(big.Int).Set(n)
	if r := new(big.Int).Sqrt(m); new(big.Int).Mul(r, r).Cmp(m) == 0 {
		return r, big.NewInt(1)
	}
	sq := new(big.Int)
	rem := new(big.Int)
	quo := new(big.Int)
	for i := int64(2); i <= 100000; i++ {
		sq.SetInt64(i * i)
		if sq.Cmp(m) > 0 {
			break
		}
		for {
			quo.QuoRem(m, sq, rem)
			if rem.Sign() != 0 {
				break
			}
			m.Set(quo)
			s.Mul(s, big.NewInt(i))
		}
	}
	return s, m
}

// exactRoot returns the q-th root of b when it is rational.
func exactRoot(b *Num, q *big.Int) (*Num, bool) {
	if !q.IsInt64() || q.Int64() > maxExactPower {
		return nil, false
	}
	n := q.Int64()
	if b.IsNegative() && n%2 == 0 {
		return nil, false
	}
	num, ok := intRoot(b.val.Num(), n)
	if !ok {
		return nil, false
	}
	den, ok := intRoot(b.val.Denom(), n)
	if !ok {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFrac(num, den)}, true
}

func intRoot(x *big.Int, n int64) (*big.Int, bool) {
	neg := x.Sign() < 0
	abs := new(big.Int).Abs(x)
	if abs.BitLen() > 60 {
		return nil, false
	}
	guess := int64(math.Round(math.Pow(float64(abs.Int64()), 1/float64(n))))
	exp := big.NewInt(n)
	for _, c := range []int64{guess - 1, guess, guess + 1} {
		if c < 0 {
			continue
		}
		cand := big.NewInt(c)
		if new(big.Int).Exp(cand, exp, nil).Cmp(abs) == 0 {
			if neg {
				cand.Neg(cand)
			}
			return cand, true
		}
	}
	return nil, false
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (p *Pow) String() string {
	if e, ok := p.exp.(*Num); ok {
		if e.val.Cmp(big.NewRat(1, 2)) == 0 {
			return "sqrt(" + p.base.String() + ")"
		}
		if e.IsNegative() {
			return "1/" + factorString(PowOf(p.base, numNeg(e)))
		}
	}
	baseStr := p.base.String()
	if needsParensAsBase(p.base) {
		baseStr = "(" + baseStr + ")"
	}
	expStr := p.exp.String()
	if !isSimpleExponent(p.exp) {
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func needsParensAsBase(e Expr) bool {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return true
	case *Num:
		return v.IsNegative() || !v.IsInteger()
	}
	return false
}

func isSimpleExponent(e Expr) bool {
	switch v := e.(type) {
	case *Sym:
		return true
	case *Num:
		return v.IsInteger() && !v.IsNegative()
	}
	return false
}

func (p *Pow) LaTeX() string {
	if e, ok := p.exp.(*Num); ok {
		if e.val.Cmp(big.NewRat(1, 2)) == 0 {
			return "\\sqrt{" + p.base.LaTeX() + "}"
		}
		if e.IsNegative() {
			return "\\frac{1}{" + PowOf(p.base, numNeg(e)).LaTeX() + "}"
		}
	}
	baseStr := p.base.LaTeX()
	if needsParensAsBase(p.base) {
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Approx() (complex128, bool) {
	b, ok1 := p.base.Approx()
	e, ok2 := p.exp.Approx()
	if !ok1 || !ok2 {
		return 0, false
	}
	v := cmplx.Pow(b, e)
	if cmplx.IsNaN(v) || cmplx.IsInf(v) {
		return 0, false
	}
	return v, true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Equation
// ============================================================

type Equation struct{ LHS, RHS Expr }

func Eq(lhs, rhs Expr) *Equation { return &Equation{LHS: lhs, RHS: rhs} }
func (e *Equation) String() string {
	return e.LHS.String() + " = " + e.RHS.String()
}
func (e *Equation) LaTeX() string { return e.LHS.LaTeX() + " = " + e.RHS.LaTeX() }

// Residual is LHS - RHS, unsimplified.
func (e *Equation) Residual() Expr {
	return &Add{terms: []Expr{e.LHS, &Mul{factors: []Expr{N(-1), e.RHS}}}}
}

// ============================================================
// Helpers
// ============================================================

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

func isNum(e Expr) bool { _, ok := e.(*Num); return ok }

func isZero(e Expr) bool { n, ok := e.(*Num); return ok && n.IsZero() }
