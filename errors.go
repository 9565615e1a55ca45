package ocrsolve

import (
	"errors"
	"fmt"
)

// Parse failures. A *ParseError always wraps exactly one of these, so callers
// can branch with errors.Is.
var (
	ErrNonMath          = errors.New("empty or non-mathematical input")
	ErrUnbalanced       = errors.New("unbalanced parentheses")
	ErrDanglingOperator = errors.New("operator is missing an operand")
	ErrEmptyOperand     = errors.New("empty operand")
	ErrMultipleEquals   = errors.New("multiple equalities")
	ErrBadCall          = errors.New("malformed function call")
	ErrBadNumber        = errors.New("malformed number")
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrUnknownTarget    = errors.New("unknown target variable")
	ErrTooDeep          = errors.New("expression is nested too deeply")
)

// Reasons reported by Unsolvable results.
const (
	ReasonNoSolution     = "no solution"
	ReasonTargetAbsent   = "target variable not present"
	ReasonDivisionByZero = "division by zero"
)

// ParseError locates a parse failure in the cleaned text. Pos is a byte
// offset, or -1 when the failure is not tied to a position.
type ParseError struct {
	Err    error
	Pos    int
	Detail string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Pos >= 0 {
		msg += fmt.Sprintf(" at %d", e.Pos)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(err error, pos int, format string, args ...interface{}) *ParseError {
	return &ParseError{Err: err, Pos: pos, Detail: fmt.Sprintf(format, args...)}
}
