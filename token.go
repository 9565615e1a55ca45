package ocrsolve

import (
	"fmt"
	"math/big"
)

type TokenType int

const (
	TokenEOF    TokenType = iota
	TokenNumber           // 12, 0.5
	TokenIdent            // x, y, z, I
	TokenFunc             // sqrt
	TokenOp               // + - * / ^
	TokenLParen           // (
	TokenRParen           // )
	TokenEquals           // =
)

var tokenNames = [...]string{
	TokenEOF:    "end of input",
	TokenNumber: "number",
	TokenIdent:  "variable",
	TokenFunc:   "function",
	TokenOp:     "operator",
	TokenLParen: "(",
	TokenRParen: ")",
	TokenEquals: "=",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a classified lexical unit. Number tokens carry their validated
// value; Implicit marks a multiplication the lexer inferred from adjacency.
type Token struct {
	Type     TokenType
	Text     string
	Pos      int
	Value    *big.Rat
	Implicit bool
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d)", t.Type, t.Text, t.Pos)
}

// endsOperand reports whether t can close an operand.
func (t Token) endsOperand() bool {
	switch t.Type {
	case TokenNumber, TokenIdent, TokenRParen:
		return true
	}
	return false
}

// startsOperand reports whether t can open an operand.
func (t Token) startsOperand() bool {
	switch t.Type {
	case TokenNumber, TokenIdent, TokenFunc, TokenLParen:
		return true
	}
	return false
}

func (t Token) isOp(op byte) bool {
	return t.Type == TokenOp && len(t.Text) == 1 && t.Text[0] == op
}
