package exprgen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads the expression subset the generator emits back into a tree
// of the same shape, explicit ParenthesizedExpr nodes included. It exists
// so the round-trip contract (print, re-parse, compare) can be checked
// without the external evaluator; the evaluator's own AST stays on the
// far side of the text boundary.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.parseBinary(loosestPrecedence)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected trailing input %q", tok.text)
	}
	return expr, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokDouble
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

// Multi-character operators first so "<<" is not lexed as two "<".
var opSpellings = []string{
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+", "-", "*", "/", "%", "&", "|", "^", "<", ">", "!", "~",
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c >= '0' && c <= '9':
			j := i
			isDouble := false
			for j < len(src) {
				d := src[j]
				if d >= '0' && d <= '9' {
					j++
					continue
				}
				if d == '.' || d == 'e' || d == 'E' {
					isDouble = true
					j++
					// Exponent sign belongs to the literal.
					if (d == 'e' || d == 'E') && j < len(src) && (src[j] == '+' || src[j] == '-') {
						j++
					}
					continue
				}
				break
			}
			kind := tokInt
			if isDouble {
				kind = tokDouble
			}
			toks = append(toks, token{kind: kind, text: src[i:j]})
			i = j
		case c == '_' || unicode.IsLetter(rune(c)):
			j := i
			for j < len(src) && (src[j] == '_' || unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j]})
			i = j
		default:
			matched := false
			for _, sp := range opSpellings {
				if strings.HasPrefix(src[i:], sp) {
					toks = append(toks, token{kind: tokOp, text: sp})
					i += len(sp)
					matched = true
					break
				}
			}
			if !matched {
				return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
			}
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// parseBinary parses left-associative binary chains whose operators bind
// no looser than limit (smaller precedence value = tighter).
func (p *parser) parseBinary(limit int) (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp {
			return lhs, nil
		}
		op, ok := binOpForToken(tok.text)
		if !ok || op.Precedence() > limit {
			return lhs, nil
		}
		p.next()
		// Left associativity: the right operand must bind strictly
		// tighter than the operator.
		rhs, err := p.parseBinary(op.Precedence() - 1)
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Lhs: lhs, Op: op, Rhs: rhs}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if tok.kind == tokOp {
		if op, ok := unOpForToken(tok.text); ok {
			p.next()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &UnaryExpr{Op: op, Operand: operand}, nil
		}
		return nil, fmt.Errorf("operator %q is not valid in prefix position", tok.text)
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokInt:
		v, err := strconv.ParseUint(tok.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer literal %q: %w", tok.text, err)
		}
		return &IntegerConstant{Value: v}, nil
	case tokDouble:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad double literal %q: %w", tok.text, err)
		}
		return &DoubleConstant{Value: v}, nil
	case tokIdent:
		return &VariableExpr{Name: tok.text}, nil
	case tokLParen:
		inner, err := p.parseBinary(loosestPrecedence)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("expected ')', got %q", closing.text)
		}
		return &ParenthesizedExpr{Inner: inner}, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of input")
	default:
		return nil, fmt.Errorf("unexpected token %q", tok.text)
	}
}
