package ocrsolve

// Parse turns cleaned text into a Statement. Text with no tokens fails with
// ErrNonMath; every other failure is a *ParseError naming the offending
// position.
func Parse(text string) (*Statement, error) {
	toks, err := Lex(text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, &ParseError{Err: ErrNonMath, Pos: -1}
	}

	eq := -1
	for i, t := range toks {
		if t.Type != TokenEquals {
			continue
		}
		if eq >= 0 {
			return nil, parseErr(ErrMultipleEquals, t.Pos, "second '='")
		}
		eq = i
	}

	if eq < 0 {
		expr, err := parseSide(toks, len(text))
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: KindExpr, Expr: expr}, nil
	}

	if eq == 0 {
		return nil, parseErr(ErrEmptyOperand, toks[eq].Pos, "left side of '=' is empty")
	}
	if eq == len(toks)-1 {
		return nil, parseErr(ErrEmptyOperand, toks[eq].Pos, "right side of '=' is empty")
	}
	lhs, err := parseSide(toks[:eq], toks[eq].Pos)
	if err != nil {
		return nil, err
	}
	rhs, err := parseSide(toks[eq+1:], len(text))
	if err != nil {
		return nil, err
	}
	return &Statement{Kind: KindEquation, LHS: lhs, RHS: rhs}, nil
}

// MaxNesting bounds how deeply groups, signs and exponents may nest.
const MaxNesting = 256

// parser is a recursive-descent parser over one side of an equation.
type parser struct {
	toks  []Token
	pos   int
	end   int // byte offset reported for errors at end of input
	depth int // open parentheses
	nest  int // active parseUnary calls
}

func parseSide(toks []Token, end int) (Node, error) {
	p := &parser{toks: toks, end: end}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		t := p.toks[p.pos]
		if t.Type == TokenRParen {
			return nil, parseErr(ErrUnbalanced, t.Pos, "unmatched ')'")
		}
		return nil, parseErr(ErrUnexpectedToken, t.Pos, "%q", t.Text)
	}
	return n, nil
}

func (p *parser) peek() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return Token{Type: TokenEOF, Pos: p.end}
}

func (p *parser) next() Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// parseExpr handles + and -.
func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().isOp('+') || p.peek().isOp('-') {
		op := p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op.Text[0], Left: left, Right: right}
	}
	return left, nil
}

// parseTerm handles * and /, explicit or implicit.
func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().isOp('*') || p.peek().isOp('/') {
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op.Text[0], Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	p.nest++
	defer func() { p.nest-- }()
	if p.nest > MaxNesting {
		return nil, parseErr(ErrTooDeep, p.peek().Pos, "more than %d levels", MaxNesting)
	}
	switch {
	case p.peek().isOp('-'):
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryMinus{Operand: operand}, nil
	case p.peek().isOp('+'):
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

// parsePower is right-associative: 2^3^2 is 2^(3^2), and the exponent may
// carry its own sign as in x^-1.
func (p *parser) parsePower() (Node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !p.peek().isOp('^') {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: '^', Left: base, Right: exp}, nil
}

func (p *parser) parseAtom() (Node, error) {
	t := p.peek()
	switch t.Type {
	case TokenNumber:
		p.next()
		return &Literal{Value: t.Value, Text: t.Text}, nil
	case TokenIdent:
		p.next()
		if t.Text == "I" {
			return &Imaginary{}, nil
		}
		return &Variable{Name: t.Text}, nil
	case TokenFunc:
		p.next()
		if p.peek().Type != TokenLParen {
			return nil, parseErr(ErrBadCall, t.Pos, "%s must be followed by '('", t.Text)
		}
		arg, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return &Call{Name: t.Text, Arg: arg}, nil
	case TokenLParen:
		return p.parseGroup()
	case TokenRParen:
		if p.depth == 0 {
			return nil, parseErr(ErrUnbalanced, t.Pos, "unmatched ')'")
		}
		if p.pos > 0 && p.toks[p.pos-1].Type == TokenLParen {
			return nil, parseErr(ErrEmptyOperand, t.Pos, "empty parentheses")
		}
		return nil, p.dangling()
	case TokenEOF:
		return nil, p.dangling()
	}
	return nil, p.dangling()
}

// parseGroup consumes "(" expr ")".
func (p *parser) parseGroup() (Node, error) {
	open := p.next()
	p.depth++
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.depth--
	closing := p.peek()
	switch closing.Type {
	case TokenRParen:
		p.next()
		return inner, nil
	case TokenEOF:
		return nil, parseErr(ErrUnbalanced, open.Pos, "unclosed '('")
	}
	return nil, parseErr(ErrUnexpectedToken, closing.Pos, "%q", closing.Text)
}

// dangling reports the operator preceding the current position as missing
// its right operand.
func (p *parser) dangling() error {
	t := p.peek()
	if p.pos > 0 {
		prev := p.toks[p.pos-1]
		if prev.Type == TokenOp {
			return parseErr(ErrDanglingOperator, prev.Pos, "%q has no right operand", prev.Text)
		}
	}
	if t.Type == TokenOp {
		return parseErr(ErrDanglingOperator, t.Pos, "%q has no left operand", t.Text)
	}
	return parseErr(ErrUnexpectedToken, t.Pos, "%s", t.Type)
}
