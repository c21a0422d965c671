package expr

import "fmt"

// maxDepth bounds parser recursion for nested parentheses, calls, unary operators and powers.
const maxDepth = 256

// maxOperands bounds the size of the tree. Evaluation recurses through it, so a long flat chain
// such as x+x+...+x is as deep as it is long.
const maxOperands = 4096

// namespace is the optional qualifier in front of library names (`Math.sin`, `Math.PI`).
const namespace = "Math"

type parser struct {
	l     lexer
	cur      token
	depth    int
	operands int
}

func parse(src string) (node, error) {
	p := &parser{l: lexer{s: src}}
	p.next()
	if p.cur.kind == tokEOF {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q", ErrParse, p.cur.text)
	}
	return n, nil
}

func (p *parser) next() { p.cur = p.l.next() }

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return fmt.Errorf("%w: expression nested deeper than %d", ErrParse, maxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) operand() error {
	p.operands++
	if p.operands > maxOperands {
		return fmt.Errorf("%w: more than %d operands", ErrParse, maxOperands)
	}
	return nil
}

func (p *parser) parseExpr() (node, error) {
	return p.parseSum()
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.text[0]
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash || p.cur.kind == tokPercent {
		op := p.cur.text[0]
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

// parseUnary sits below the power operator so that -x^2 reads as -(x^2).
func (p *parser) parseUnary() (node, error) {
	if p.cur.kind != tokPlus && p.cur.kind != tokMinus {
		return p.parsePower()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	op := p.cur.text[0]
	p.next()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if op == '+' {
		return x, nil
	}
	return nodeNeg{x: x}, nil
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokCaret && p.cur.kind != tokStarStar {
		return base, nil
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return nodeBinary{op: '^', left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	if err := p.operand(); err != nil {
		return nil, err
	}
	switch p.cur.kind {
	case tokNumber:
		v := p.cur.num
		p.next()
		return nodeNumber{v: v}, nil
	case tokIdent:
		return p.parseName()
	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.next()
		ex, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')'", ErrParse)
		}
		p.next()
		return ex, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrParse)
	default:
		return nil, fmt.Errorf("%w: unexpected %q", ErrParse, p.cur.text)
	}
}

func (p *parser) parseName() (node, error) {
	name := p.cur.text
	p.next()
	qualified := false
	if name == namespace && p.cur.kind == tokDot {
		p.next()
		if p.cur.kind != tokIdent {
			return nil, fmt.Errorf("%w: expected name after %q", ErrParse, namespace+".")
		}
		name = p.cur.text
		qualified = true
		p.next()
	}

	if p.cur.kind == tokLParen {
		return p.parseCall(name)
	}

	if name == Var && !qualified {
		return nodeVar{}, nil
	}
	if v, ok := constants[name]; ok {
		return nodeNumber{v: v}, nil
	}
	if _, ok := functions[name]; ok {
		return nil, fmt.Errorf("%w: %q is a function", ErrEval, name)
	}
	return nil, fmt.Errorf("%w: %w %q", ErrEval, ErrUnknownIdent, name)
}

func (p *parser) parseCall(name string) (node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.next()
	var args []node
	if p.cur.kind != tokRParen {
		for {
			ex, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, ex)
			if p.cur.kind == tokComma {
				p.next()
				continue
			}
			break
		}
	}
	if p.cur.kind != tokRParen {
		return nil, fmt.Errorf("%w: expected ')'", ErrParse)
	}
	p.next()

	fn, ok := functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrEval, ErrUnknownIdent, name)
	}
	if err := fn.checkArity(name, len(args)); err != nil {
		return nil, err
	}
	return nodeCall{name: name, fn: fn.fn, args: args}, nil
}
