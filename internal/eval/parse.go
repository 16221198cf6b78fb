// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math"

	"nickandperla.net/formula/internal/expr"
)

// Expr = Operand { binop Operand }
// Operand = num | '(' Expr ')'
//
// There are no unary operators. Precedence, lowest first: + -, * /, ^.
// ^ is right associative; the others are left associative.

type binop struct {
	prec  int
	right bool
	apply func(a, b float64) float64
}

var binops = map[string]binop{
	"+": {1, false, func(a, b float64) float64 { return a + b }},
	"-": {1, false, func(a, b float64) float64 { return a - b }},
	"*": {2, false, func(a, b float64) float64 { return a * b }},
	"/": {2, false, func(a, b float64) float64 { return a / b }},
	"^": {3, true, math.Pow},
}

type parser struct {
	terms []expr.Term
	pos   int
}

// Terms evaluates an infix term sequence.
func Terms(terms []expr.Term) (float64, error) {
	if len(terms) == 0 {
		return 0, &SyntaxError{Pos: -1, Msg: "empty expression"}
	}
	p := &parser{terms: terms}
	v, err := p.expr(1)
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.terms) {
		t := p.terms[p.pos]
		if expr.IsClose(t) {
			return 0, &SyntaxError{Pos: p.pos, Msg: "unmatched ')'"}
		}
		return 0, &SyntaxError{Pos: p.pos, Msg: "unexpected " + quote(t)}
	}
	return v, nil
}

func (p *parser) peek() expr.Term {
	if p.pos >= len(p.terms) {
		return nil
	}
	return p.terms[p.pos]
}

// expr parses operands joined by operators binding at least as tightly as minPrec.
func (p *parser) expr(minPrec int) (float64, error) {
	lhs, err := p.operand()
	if err != nil {
		return 0, err
	}
	for {
		t := p.peek()
		if t == nil {
			return lhs, nil
		}
		op, isOp := t.(expr.Op)
		if !isOp {
			return 0, &SyntaxError{Pos: p.pos, Msg: "missing operator before " + quote(t)}
		}
		b, isBin := binops[op.Symbol]
		if !isBin {
			if op.Symbol == "(" {
				return 0, &SyntaxError{Pos: p.pos, Msg: "missing operator before '('"}
			}
			// ')' ends this subexpression.
			return lhs, nil
		}
		if b.prec < minPrec {
			return lhs, nil
		}
		p.pos++
		next := b.prec + 1
		if b.right {
			next = b.prec
		}
		rhs, err := p.expr(next)
		if err != nil {
			return 0, err
		}
		lhs = b.apply(lhs, rhs)
	}
}

func (p *parser) operand() (float64, error) {
	t := p.peek()
	if t == nil {
		return 0, &SyntaxError{Pos: p.pos, Msg: "expression ends where an operand is expected"}
	}
	switch t := t.(type) {
	case expr.Num:
		p.pos++
		return t.Value, nil
	case expr.Op:
		if t.Symbol != "(" {
			return 0, &SyntaxError{Pos: p.pos, Msg: "expected operand, found " + quote(t)}
		}
		open := p.pos
		p.pos++
		if expr.IsClose(p.peek()) {
			return 0, &SyntaxError{Pos: p.pos, Msg: "empty parentheses"}
		}
		v, err := p.expr(1)
		if err != nil {
			return 0, err
		}
		if !expr.IsClose(p.peek()) {
			return 0, &SyntaxError{Pos: open, Msg: "unmatched '('"}
		}
		p.pos++
		return v, nil
	}
	return 0, &SyntaxError{Pos: p.pos, Msg: "unknown term"}
}

func quote(t expr.Term) string {
	return "'" + t.String() + "'"
}
