// Package exprs parses and evaluates the closed-form parametrization curves
// embedded in template settings documents.
//
// The grammar is deliberately closed: one formal variable (the energy E or
// the cosine-zenith cz), float/int literals, the binary operators
// + - * / **, unary minus, parenthesization, and calls to abs, exp and
// log10. Anything else is rejected at parse time. The parser is a small
// recursive-descent parser for exactly this grammar; ** is right-associative
// and binds tighter than unary minus, so -E**2 is -(E**2). Source strings
// stay data, not code.
package exprs

import "strconv"

// Variable names the single formal parameter a curve may reference.
const (
	VarEnergy = "E"
	VarCosZen = "cz"
)

// functions is the closed call vocabulary.
var functions = map[string]struct{}{
	"abs":   {},
	"exp":   {},
	"log10": {},
}

// Compiled is a parsed, vocabulary-checked curve of a single variable.
// A Compiled is immutable and safe for concurrent evaluation.
type Compiled struct {
	src      string
	variable string // "" for constant expressions
	root     node
}

// node is one vertex of a compiled curve's syntax tree.
type node interface{}

type numberNode struct{ value float64 }

type variableNode struct{}

type negateNode struct{ operand node }

type binaryNode struct {
	op    opKind
	left  node
	right node
}

type callNode struct {
	fn  string
	arg node
}

type opKind string

const (
	opAdd opKind = "+"
	opSub opKind = "-"
	opMul opKind = "*"
	opDiv opKind = "/"
	opPow opKind = "**"
)

// Compile parses src against the restricted grammar. It returns a parse
// error for anything outside the vocabulary: statements, conditionals,
// strings, attribute access, unknown functions, or more than one distinct
// variable name.
func Compile(src string) (*Compiled, error) {
	p := &parser{src: src}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, parseErrf(src, "unexpected %q after expression", p.tok.lit)
	}
	return &Compiled{src: src, variable: p.variable, root: root}, nil
}

// MustCompile is like Compile but panics on error. For fixed curves in tests.
func MustCompile(src string) *Compiled {
	c, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return c
}

// Source returns the original expression string.
func (c *Compiled) Source() string {
	return c.src
}

// Var returns the formal variable the curve references ("E" or "cz"),
// or the empty string for a constant expression.
func (c *Compiled) Var() string {
	return c.variable
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPower
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	lit  string
}

type parser struct {
	src      string
	pos      int
	tok      token
	variable string
}

// advance scans the next token into p.tok.
func (p *parser) advance() error {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF}
		return nil
	}

	start := p.pos
	c := p.src[p.pos]
	switch {
	case isDigit(c) || c == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]):
		p.pos++
		for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
			p.pos++
		}
		// An e/E suffix is an exponent only when digits follow; a bare E
		// after a number is left for the parser to reject.
		if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
			q := p.pos + 1
			if q < len(p.src) && (p.src[q] == '+' || p.src[q] == '-') {
				q++
			}
			if q < len(p.src) && isDigit(p.src[q]) {
				p.pos = q + 1
				for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
					p.pos++
				}
			}
		}
		p.tok = token{kind: tokNumber, lit: p.src[start:p.pos]}

	case isIdentStart(c):
		p.pos++
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, lit: p.src[start:p.pos]}

	case c == '+':
		p.pos++
		p.tok = token{kind: tokPlus, lit: "+"}
	case c == '-':
		p.pos++
		p.tok = token{kind: tokMinus, lit: "-"}
	case c == '*':
		p.pos++
		if p.pos < len(p.src) && p.src[p.pos] == '*' {
			p.pos++
			p.tok = token{kind: tokPower, lit: "**"}
		} else {
			p.tok = token{kind: tokStar, lit: "*"}
		}
	case c == '/':
		p.pos++
		p.tok = token{kind: tokSlash, lit: "/"}
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, lit: "("}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, lit: ")"}
	case c == ',':
		p.pos++
		p.tok = token{kind: tokComma, lit: ","}

	default:
		return parseErrf(p.src, "unsupported character %q", string(c))
	}
	return nil
}

// parseSum handles + and -, the loosest binding level.
func (p *parser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := opAdd
		if p.tok.kind == tokMinus {
			op = opSub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

// parseProduct handles * and /.
func (p *parser) parseProduct() (node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := opMul
		if p.tok.kind == tokSlash {
			op = opDiv
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

// parseFactor handles unary sign. A sign binds looser than ** on its left
// and tighter on its right, so -E**2 is -(E**2) and 2**-1 is legal.
func (p *parser) parseFactor() (node, error) {
	switch p.tok.kind {
	case tokMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &negateNode{operand: operand}, nil
	case tokPlus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseFactor()
	}
	return p.parsePower()
}

// parsePower handles the right-associative **.
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPower {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exponent, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: opPow, left: base, right: exponent}, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(p.tok.lit, 64)
		if err != nil {
			return nil, parseErrf(p.src, "unsupported literal %q", p.tok.lit)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &numberNode{value: v}, nil

	case tokIdent:
		name := p.tok.lit
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokLParen {
			return p.parseCall(name)
		}
		if _, ok := functions[name]; ok {
			return nil, parseErrf(p.src, "function %q must be called", name)
		}
		if name != VarEnergy && name != VarCosZen {
			return nil, parseErrf(p.src, "unknown name %q (variables are %s and %s)", name, VarEnergy, VarCosZen)
		}
		if p.variable != "" && p.variable != name {
			return nil, parseErrf(p.src, "expression mixes variables %q and %q", p.variable, name)
		}
		p.variable = name
		return &variableNode{}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, parseErrf(p.src, "missing closing parenthesis")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	case tokEOF:
		return nil, parseErrf(p.src, "unexpected end of expression")

	default:
		return nil, parseErrf(p.src, "unexpected %q", p.tok.lit)
	}
}

// parseCall parses the argument list after name's opening parenthesis.
func (p *parser) parseCall(name string) (node, error) {
	if _, ok := functions[name]; !ok {
		return nil, parseErrf(p.src, "unknown function %q", name)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	arg, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokComma {
		return nil, parseErrf(p.src, "%s takes exactly one argument", name)
	}
	if p.tok.kind != tokRParen {
		return nil, parseErrf(p.src, "missing closing parenthesis")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &callNode{fn: name, arg: arg}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
