// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines the formula token variants and their validating constructors.
package token

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a token variant.
type Kind int

const (
	KindNumber Kind = iota
	KindPercentage
	KindOperator
	KindTag
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "NUMBER"
	case KindPercentage:
		return "PERCENTAGE"
	case KindOperator:
		return "OPERATOR"
	case KindTag:
		return "TAG"
	}
	return "UNKNOWN"
}

// Operator symbols.
const (
	SymAdd    = "+"
	SymSub    = "-"
	SymMul    = "*"
	SymDiv    = "/"
	SymPow    = "^"
	SymLParen = "("
	SymRParen = ")"
)

// Operators lists every valid operator payload.
const Operators = "+-*/^()"

// ErrInvalidTokenFormat is returned by constructors given a malformed payload.
var ErrInvalidTokenFormat = errors.New("invalid token format")

var (
	numberPattern     = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	percentagePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?%$`)
)

// IsNumber reports whether s is valid Number text.
func IsNumber(s string) bool { return numberPattern.MatchString(s) }

// IsPercentage reports whether s is valid Percentage text.
func IsPercentage(s string) bool { return percentagePattern.MatchString(s) }

// IsOperator reports whether s is exactly one operator symbol.
func IsOperator(s string) bool {
	return len(s) == 1 && strings.Contains(Operators, s)
}

// Token is one classified unit of a formula.
type Token interface {
	// Kind returns the variant of the token.
	Kind() Kind
	// String returns the display text of the token.
	String() string

	isToken()
}

// Number is a literal numeric operand.
type Number struct {
	Raw string
}

// NewNumber validates raw and returns a Number.
func NewNumber(raw string) (Number, error) {
	if !IsNumber(raw) {
		return Number{}, fmt.Errorf("%w: number %q", ErrInvalidTokenFormat, raw)
	}
	return Number{Raw: raw}, nil
}

func (n Number) Kind() Kind     { return KindNumber }
func (n Number) String() string { return n.Raw }
func (Number) isToken()         {}

// Value returns the parsed value of the literal.
func (n Number) Value() float64 {
	v, _ := strconv.ParseFloat(n.Raw, 64)
	return v
}

// Percentage is a literal operand interpreted as value/100.
type Percentage struct {
	Raw string // includes the trailing '%'
}

// NewPercentage validates raw and returns a Percentage.
func NewPercentage(raw string) (Percentage, error) {
	if !IsPercentage(raw) {
		return Percentage{}, fmt.Errorf("%w: percentage %q", ErrInvalidTokenFormat, raw)
	}
	return Percentage{Raw: raw}, nil
}

func (p Percentage) Kind() Kind     { return KindPercentage }
func (p Percentage) String() string { return p.Raw }
func (Percentage) isToken()         {}

// Value returns the fraction the percentage stands for, e.g. 0.1 for "10%".
func (p Percentage) Value() float64 {
	v, _ := strconv.ParseFloat(strings.TrimSuffix(p.Raw, "%"), 64)
	return v / 100
}

// Operator is an arithmetic operator or a parenthesis.
type Operator struct {
	Symbol string
}

// NewOperator validates sym and returns an Operator.
func NewOperator(sym string) (Operator, error) {
	if !IsOperator(sym) {
		return Operator{}, fmt.Errorf("%w: operator %q", ErrInvalidTokenFormat, sym)
	}
	return Operator{Symbol: sym}, nil
}

func (o Operator) Kind() Kind     { return KindOperator }
func (o Operator) String() string { return o.Symbol }
func (Operator) isToken()         {}

// IsParen reports whether the operator is a grouping symbol.
func (o Operator) IsParen() bool {
	return o.Symbol == SymLParen || o.Symbol == SymRParen
}

// Tag references an externally supplied named quantity.
type Tag struct {
	ID       string
	Name     string
	Category string
	Value    *float64 // nil when unresolved
	Option   string
}

// NewTag returns a Tag. The name must not be empty.
func NewTag(id, name, category string, value *float64) (Tag, error) {
	if strings.TrimSpace(name) == "" {
		return Tag{}, fmt.Errorf("%w: empty tag name", ErrInvalidTokenFormat)
	}
	t := Tag{ID: id, Name: name, Category: category}
	if value != nil {
		v := *value
		t.Value = &v
	}
	return t, nil
}

func (t Tag) Kind() Kind     { return KindTag }
func (t Tag) String() string { return t.Name }
func (Tag) isToken()         {}

// Resolved returns the tag value and whether it is present.
func (t Tag) Resolved() (float64, bool) {
	if t.Value == nil {
		return 0, false
	}
	return *t.Value, true
}

// WithOption returns a copy of t with the option applied.
// A nil value keeps the current value.
func (t Tag) WithOption(option string, value *float64) Tag {
	out := t
	out.Option = option
	if value != nil {
		v := *value
		out.Value = &v
	} else if t.Value != nil {
		v := *t.Value
		out.Value = &v
	}
	return out
}
