// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines the operand and operator terms an arithmetic
// expression is built from.
package expr

import (
	"math"
	"strconv"
	"strings"
)

// Term is one element of an infix expression.
type Term interface {
	// String returns the infix text of the term.
	String() string

	isTerm()
}

// Num is an operand.
type Num struct {
	Value float64
}

func (n Num) String() string { return FormatNumber(n.Value) }
func (Num) isTerm()          {}

// Op is an operator or parenthesis symbol.
type Op struct {
	Symbol string
}

func (o Op) String() string { return o.Symbol }
func (Op) isTerm()          {}

// IsOpen reports whether the term is an opening parenthesis.
func IsOpen(t Term) bool {
	o, ok := t.(Op)
	return ok && o.Symbol == "("
}

// IsClose reports whether the term is a closing parenthesis.
func IsClose(t Term) bool {
	o, ok := t.(Op)
	return ok && o.Symbol == ")"
}

// Join renders terms as a space-separated infix string.
func Join(terms []Term) string {
	var sb strings.Builder
	for i, t := range terms {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}

// FormatNumber formats v the way a browser prints a double: "Infinity",
// "-Infinity" and "NaN" for the special values, plain decimals for ordinary
// magnitudes and exponent form outside [1e-7, 1e21).
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if a := math.Abs(v); a >= 1e21 || a < 1e-7 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// Go pads the exponent to two digits.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
