package expr

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

const maxDepth = 64

type tokenStream struct {
	tokens []token
	pos    int
	depth  int
}

func parseExpression(tokens []token) (node, error) {
	stream := &tokenStream{tokens: tokens}
	n, err := stream.parseOr()
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return n, nil
}

func (s *tokenStream) parseOr() (node, error) {
	left, err := s.parseAnd()
	if err != nil {
		return nil, err
	}
	for s.match(tokenOr) {
		right, err := s.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (s *tokenStream) parseAnd() (node, error) {
	left, err := s.parseEquality()
	if err != nil {
		return nil, err
	}
	for s.match(tokenAnd) {
		right, err := s.parseEquality()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (s *tokenStream) parseEquality() (node, error) {
	return s.parseBinary(s.parseComparison, tokenEq, tokenNeq, tokenStrictEq, tokenStrictNeq)
}

func (s *tokenStream) parseComparison() (node, error) {
	return s.parseBinary(s.parseAdditive, tokenLt, tokenLte, tokenGt, tokenGte)
}

func (s *tokenStream) parseAdditive() (node, error) {
	return s.parseBinary(s.parseMultiplicative, tokenPlus, tokenMinus)
}

func (s *tokenStream) parseMultiplicative() (node, error) {
	return s.parseBinary(s.parseUnary, tokenStar, tokenSlash, tokenPercent)
}

func (s *tokenStream) parseBinary(next func() (node, error), kinds ...tokenKind) (node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := s.matchAny(kinds...)
		if !ok {
			return left, nil
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
}

func (s *tokenStream) parseUnary() (node, error) {
	s.depth++
	defer func() { s.depth-- }()
	if s.depth > maxDepth {
		return nil, errors.New("expr: expression nested too deeply")
	}

	if s.match(tokenNot) {
		inner, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	if s.match(tokenMinus) {
		inner, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		return negateNode{inner: inner}, nil
	}
	if s.match(tokenPlus) {
		inner, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		return numberNode{inner: inner}, nil
	}
	return s.parsePrimary()
}

func (s *tokenStream) parsePrimary() (node, error) {
	if s.pos >= len(s.tokens) {
		return nil, errors.New("expr: unexpected end of expression")
	}
	tok := s.tokens[s.pos]
	s.pos++

	switch tok.kind {
	case tokenLParen:
		inner, err := s.parseOr()
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	case tokenIdentifier:
		return refNode{path: tok.raw}, nil
	case tokenString:
		return literalNode{value: tok.raw}, nil
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expr: invalid number literal %q", tok.raw)
		}
		return literalNode{value: f}, nil
	case tokenBool:
		return literalNode{value: tok.raw == "true"}, nil
	case tokenNull:
		if tok.raw == "undefined" {
			return literalNode{value: visibility.Undefined}, nil
		}
		return literalNode{value: nil}, nil
	default:
		return nil, fmt.Errorf("expr: unexpected token %q", tok.raw)
	}
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) matchAny(kinds ...tokenKind) (tokenKind, bool) {
	for _, kind := range kinds {
		if s.match(kind) {
			return kind, true
		}
	}
	return 0, false
}
