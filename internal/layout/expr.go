package layout

import (
	"strconv"
)

// vars holds the values substituted into an expression.
type vars struct {
	screenW, screenH float64
	w, h             float64
	flex             float64
}

type node interface {
	eval(v *vars) (float64, error)
}

type numNode struct{ val float64 }

type varNode struct{ name byte }

type negNode struct{ x node }

type binNode struct {
	op    byte
	left  node
	right node
	pos   int
}

type callNode struct {
	name string
	args []node
}

func (n numNode) eval(*vars) (float64, error) { return n.val, nil }

func (n varNode) eval(v *vars) (float64, error) {
	switch n.name {
	case 'W':
		return v.screenW, nil
	case 'H':
		return v.screenH, nil
	case 'w':
		return v.w, nil
	case 'h':
		return v.h, nil
	case '?':
		return v.flex, nil
	}
	// p and P
	return 1, nil
}

func (n negNode) eval(v *vars) (float64, error) {
	x, err := n.x.eval(v)
	return -x, err
}

func (n binNode) eval(v *vars) (float64, error) {
	l, err := n.left.eval(v)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(v)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	}
	if r == 0 {
		return 0, errDivZero{pos: n.pos}
	}
	return l / r, nil
}

func (n callNode) eval(v *vars) (float64, error) {
	out, err := n.args[0].eval(v)
	if err != nil {
		return 0, err
	}
	for _, a := range n.args[1:] {
		x, err := a.eval(v)
		if err != nil {
			return 0, err
		}
		if n.name == "max" {
			out = max(out, x)
		} else {
			out = min(out, x)
		}
	}
	return out, nil
}

type errDivZero struct{ pos int }

func (errDivZero) Error() string { return "division by zero" }

// parser is a recursive-descent parser over the expression bytes.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = "-" unary | "+" unary | primary
//	primary = number | name | call | "(" expr ")"
type parser struct {
	src string
	pos int
}

func parseExpr(src string) (node, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, dimErr(src, -1, "empty expression")
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, dimErr(src, p.pos, "unexpected %q", p.src[p.pos])
	}
	return n, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		pos := p.pos
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, left: left, right: right, pos: pos}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		pos := p.pos
		p.pos++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, left: left, right: right, pos: pos}
	}
}

func (p *parser) unary() (node, error) {
	switch p.peek() {
	case '-':
		p.pos++
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return negNode{x: x}, nil
	case '+':
		p.pos++
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	c := p.peek()
	switch {
	case c == 0:
		return nil, dimErr(p.src, p.pos, "unexpected end of expression")
	case c == '(':
		p.pos++
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, dimErr(p.src, p.pos, "missing closing parenthesis")
		}
		p.pos++
		return n, nil
	case c == '?':
		p.pos++
		return varNode{name: '?'}, nil
	case isDigit(c) || c == '.':
		return p.number()
	case isLetter(c):
		return p.name()
	}
	return nil, dimErr(p.src, p.pos, "unexpected %q", c)
}

func (p *parser) number() (node, error) {
	start := p.pos
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	val, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, dimErr(p.src, start, "bad number %q", p.src[start:p.pos])
	}
	return numNode{val: val}, nil
}

func (p *parser) name() (node, error) {
	start := p.pos
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	switch word {
	case "W", "H", "w", "h", "p", "P":
		return varNode{name: word[0]}, nil
	case "max", "min":
		return p.call(word, start)
	}
	return nil, dimErr(p.src, start, "unknown name %q", word)
}

func (p *parser) call(name string, start int) (node, error) {
	if p.peek() != '(' {
		return nil, dimErr(p.src, p.pos, "%s needs an argument list", name)
	}
	p.pos++
	var args []node
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ')':
			p.pos++
			return callNode{name: name, args: args}, nil
		}
		return nil, dimErr(p.src, p.pos, "unterminated call to %s starting at %d", name, start)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
