package ocrsolve

import (
	"math/big"
	"strings"
)

// DefaultTarget is the variable solved for when no target is given.
const DefaultTarget = "x"

// Symbols is the fixed set of variable names the parser accepts.
var Symbols = []string{"x", "y", "z"}

// IsSymbol reports whether name is one of Symbols.
func IsSymbol(name string) bool {
	for _, s := range Symbols {
		if s == name {
			return true
		}
	}
	return false
}

// NormalizeTarget trims and lowercases a target name the way WithTarget
// does, so "X" and " x " both name x.
func NormalizeTarget(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateTarget returns an error wrapping ErrUnknownTarget unless name is a
// member of Symbols.
func ValidateTarget(name string) error {
	if IsSymbol(name) {
		return nil
	}
	return &ParseError{Err: ErrUnknownTarget, Pos: -1, Detail: strings.TrimSpace(name)}
}

// Node is a parse tree node.
type Node interface {
	String() string
	node()
}

// Literal is a validated number as written.
type Literal struct {
	Value *big.Rat
	Text  string
}

type Variable struct {
	Name string
}

// Imaginary is the unit I, written back by canonical forms such as 2*I.
type Imaginary struct{}

// BinaryOp is one of + - * / ^.
type BinaryOp struct {
	Op    byte
	Left  Node
	Right Node
}

type UnaryMinus struct {
	Operand Node
}

// Call applies a named function; sqrt is the only one.
type Call struct {
	Name string
	Arg  Node
}

func (*Literal) node()    {}
func (*Variable) node()   {}
func (*Imaginary) node()  {}
func (*BinaryOp) node()   {}
func (*UnaryMinus) node() {}
func (*Call) node()       {}

func (l *Literal) String() string {
	if l.Text != "" {
		return l.Text
	}
	return l.Value.RatString()
}

func (v *Variable) String() string { return v.Name }

func (*Imaginary) String() string { return "I" }

func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}

func (u *UnaryMinus) String() string { return "(-" + u.Operand.String() + ")" }

func (c *Call) String() string { return c.Name + "(" + c.Arg.String() + ")" }

type StatementKind int

const (
	KindExpr StatementKind = iota
	KindEquation
)

func (k StatementKind) String() string {
	if k == KindEquation {
		return "equation"
	}
	return "expr"
}

// Statement is the parser's output: a bare expression or an equation.
type Statement struct {
	Kind StatementKind
	Expr Node
	LHS  Node
	RHS  Node
}

func (s *Statement) String() string {
	if s.Kind == KindEquation {
		return s.LHS.String() + " = " + s.RHS.String()
	}
	return s.Expr.String()
}
