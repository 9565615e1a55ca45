package ocrsolve

import (
	"math/big"
	"strings"
)

// Lex splits cleaned text into tokens and materializes implicit
// multiplication. The returned slice never contains TokenEOF.
func Lex(text string) ([]Token, error) {
	var toks []Token
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case isDigit(c) || c == '.':
			start := i
			for i < len(text) && (isDigit(text[i]) || text[i] == '.') {
				i++
			}
			tok, err := numberToken(text[start:i], start)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case isLetter(c):
			start := i
			for i < len(text) && isLetter(text[i]) {
				i++
			}
			words, err := splitLetters(text[start:i], start)
			if err != nil {
				return nil, err
			}
			toks = append(toks, words...)
		case strings.IndexByte("+-*/^", c) >= 0:
			toks = append(toks, Token{Type: TokenOp, Text: string(c), Pos: i})
			i++
		case c == '(':
			toks = append(toks, Token{Type: TokenLParen, Text: "(", Pos: i})
			i++
		case c == ')':
			toks = append(toks, Token{Type: TokenRParen, Text: ")", Pos: i})
			i++
		case c == '=':
			toks = append(toks, Token{Type: TokenEquals, Text: "=", Pos: i})
			i++
		default:
			return nil, parseErr(ErrUnexpectedToken, i, "character %q", text[i])
		}
	}
	return insertImplicit(toks), nil
}

func numberToken(run string, pos int) (Token, error) {
	if strings.Count(run, ".") > 1 || strings.Trim(run, ".") == "" {
		return Token{}, parseErr(ErrBadNumber, pos, "%q", run)
	}
	lit := run
	if strings.HasPrefix(lit, ".") {
		lit = "0" + lit
	}
	if strings.HasSuffix(lit, ".") {
		lit += "0"
	}
	v, ok := new(big.Rat).SetString(lit)
	if !ok {
		return Token{}, parseErr(ErrBadNumber, pos, "%q", run)
	}
	return Token{Type: TokenNumber, Text: run, Pos: pos, Value: v}, nil
}

// splitLetters breaks a maximal letter run into sqrt, the imaginary unit I
// and single-letter variables, so "xy" is two variables and "xsqrt" is x
// followed by sqrt. Only the capital I is imaginary; "i" stays unknown.
func splitLetters(run string, pos int) ([]Token, error) {
	var toks []Token
	for j := 0; j < len(run); {
		if strings.HasPrefix(run[j:], "sqrt") {
			toks = append(toks, Token{Type: TokenFunc, Text: "sqrt", Pos: pos + j})
			j += 4
			continue
		}
		if run[j] == 'I' {
			toks = append(toks, Token{Type: TokenIdent, Text: "I", Pos: pos + j})
			j++
			continue
		}
		name := strings.ToLower(run[j : j+1])
		if !IsSymbol(name) {
			return nil, parseErr(ErrUnknownSymbol, pos+j, "%q", run[j:j+1])
		}
		toks = append(toks, Token{Type: TokenIdent, Text: name, Pos: pos + j})
		j++
	}
	return toks, nil
}

func insertImplicit(toks []Token) []Token {
	if len(toks) < 2 {
		return toks
	}
	out := make([]Token, 0, len(toks)+len(toks)/2)
	out = append(out, toks[0])
	for _, t := range toks[1:] {
		if out[len(out)-1].endsOperand() && t.startsOperand() {
			out = append(out, Token{Type: TokenOp, Text: "*", Pos: t.Pos, Implicit: true})
		}
		out = append(out, t)
	}
	return out
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
