package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// node is a parsed condition.
type node interface {
	eval(s scope) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(s scope) (bool, error) {
	ok, err := n.left.eval(s)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(s)
}

type andNode struct{ left, right node }

func (n andNode) eval(s scope) (bool, error) {
	ok, err := n.left.eval(s)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(s)
}

type notNode struct{ inner node }

func (n notNode) eval(s scope) (bool, error) {
	ok, err := n.inner.eval(s)
	return !ok, err
}

type truthyNode struct{ identifier string }

func (n truthyNode) eval(s scope) (bool, error) {
	value, _ := s.lookup(n.identifier)
	return truthy(value), nil
}

type compareNode struct {
	identifier string
	negate     bool
	literal    token
}

func (n compareNode) eval(s scope) (bool, error) {
	value, _ := s.lookup(n.identifier)

	var equal bool
	switch n.literal.kind {
	case tokenNull:
		equal = value == nil
	case tokenBool:
		equal = truthy(value) == (n.literal.raw == "true")
	case tokenNumber:
		want, err := strconv.ParseFloat(n.literal.raw, 64)
		if err != nil {
			return false, fmt.Errorf("expr: invalid number literal %q", n.literal.raw)
		}
		got, ok := number(value)
		equal = ok && got == want
	default:
		equal = text(value) == n.literal.raw
	}
	return equal != n.negate, nil
}

// parse compiles a condition.
func parse(input string) (node, error) {
	tokens, err := tokenize(strings.TrimSpace(input))
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, errors.New("expr: empty expression")
	}
	p := &parser{tokens: tokens}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("expr: unexpected token %q", p.tokens[p.pos].raw)
	}
	return n, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.match(tokenNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.match(tokenLParen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.match(tokenRParen) {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	}

	if p.pos >= len(p.tokens) {
		return nil, errors.New("expr: unexpected end of expression")
	}
	ident := p.tokens[p.pos]
	if ident.kind != tokenIdentifier {
		return nil, fmt.Errorf("expr: expected identifier, got %q", ident.raw)
	}
	p.pos++

	switch {
	case p.match(tokenEq):
		lit, err := p.literal()
		return compareNode{identifier: ident.raw, literal: lit}, err
	case p.match(tokenNeq):
		lit, err := p.literal()
		return compareNode{identifier: ident.raw, negate: true, literal: lit}, err
	}
	return truthyNode{identifier: ident.raw}, nil
}

func (p *parser) literal() (token, error) {
	if p.pos >= len(p.tokens) {
		return token{}, errors.New("expr: missing literal")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokenString, tokenNumber, tokenBool, tokenNull:
		return tok, nil
	case tokenIdentifier:
		// bare words compare as strings: status == Cursando
		return token{kind: tokenString, raw: tok.raw}, nil
	default:
		return token{}, fmt.Errorf("expr: expected literal, got %q", tok.raw)
	}
}

func (p *parser) match(kind tokenKind) bool {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		v = strings.TrimSpace(v)
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
