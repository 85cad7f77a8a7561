package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

// pairs maps the two-character operators to their kinds. The first byte alone
// is only valid for '!'.
var pairs = map[string]tokenKind{
	"==": tokenEq,
	"!=": tokenNeq,
	"&&": tokenAnd,
	"||": tokenOr,
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || strings.IndexByte("()!=&|", c) >= 0
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case strings.IndexByte("!=&|", c) >= 0:
			if i+1 < len(input) {
				if kind, ok := pairs[input[i:i+2]]; ok {
					tokens = append(tokens, token{kind: kind, raw: input[i : i+2]})
					i += 2
					continue
				}
			}
			if c != '!' {
				return nil, fmt.Errorf("expr: unexpected %q at %d; use ==, && or ||", c, i)
			}
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case c == '"' || c == '\'':
			end := closingQuote(input, i)
			if end < 0 {
				return nil, errors.New("expr: unterminated string literal")
			}
			raw := input[i : end+1]
			if c == '\'' {
				raw = `"` + strings.ReplaceAll(raw[1:len(raw)-1], `"`, `\"`) + `"`
			}
			value, err := strconv.Unquote(raw)
			if err != nil {
				return nil, fmt.Errorf("expr: invalid string literal %s: %w", input[i:end+1], err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = end + 1
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			tokens = append(tokens, word(input[start:i]))
		}
	}
	return tokens, nil
}

// closingQuote returns the index of the quote closing the literal opened at
// start, skipping escaped characters.
func closingQuote(input string, start int) int {
	quote := input[start]
	for i := start + 1; i < len(input); i++ {
		switch input[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

func word(raw string) token {
	switch strings.ToLower(raw) {
	case "true", "false":
		return token{kind: tokenBool, raw: strings.ToLower(raw)}
	case "null", "nil":
		return token{kind: tokenNull, raw: "null"}
	}
	if c := raw[0]; (c >= '0' && c <= '9') || c == '-' || c == '+' {
		return token{kind: tokenNumber, raw: raw}
	}
	return token{kind: tokenIdentifier, raw: raw}
}
