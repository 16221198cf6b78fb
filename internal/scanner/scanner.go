// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner tokenizes infix arithmetic text into expression terms.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"nickandperla.net/formula/internal/expr"
	"nickandperla.net/formula/internal/token"
)

// Error reports text the scanner could not read as a term.
type Error struct {
	Col  int // 1-based rune position
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("col %d: unexpected %q", e.Col, e.Text)
}

// Item is a scanned term with its position.
type Item struct {
	Term expr.Term
	Col  int // 1-based rune position where the term started
}

// Scanner reads terms rune by rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	col    int
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err == nil {
		s.col++
	}
	return r, err
}

func (s *Scanner) unread() {
	if err := s.reader.UnreadRune(); err == nil {
		s.col--
	}
}

// Next returns the next item, or nil at end of input.
func (s *Scanner) Next() (*Item, error) {
	var r rune
	var err error
	for {
		r, err = s.read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if !unicode.IsSpace(r) {
			break
		}
	}
	start := s.col

	if token.IsOperator(string(r)) {
		return &Item{Term: expr.Op{Symbol: string(r)}, Col: start}, nil
	}
	if !isDigit(r) {
		return nil, &Error{Col: start, Text: string(r)}
	}

	s.buf.Reset()
	s.buf.WriteRune(r)
	for {
		r, err = s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isDigit(r) || r == '.' || r == '%' {
			s.buf.WriteRune(r)
			continue
		}
		s.unread()
		break
	}

	text := s.buf.String()
	switch {
	case token.IsNumber(text):
		v, _ := strconv.ParseFloat(text, 64)
		return &Item{Term: expr.Num{Value: v}, Col: start}, nil
	case token.IsPercentage(text):
		return &Item{Term: expr.Num{Value: token.Percentage{Raw: text}.Value()}, Col: start}, nil
	}
	return nil, &Error{Col: start, Text: text}
}

// All scans the remaining input.
func (s *Scanner) All() ([]Item, error) {
	var items []Item
	for {
		it, err := s.Next()
		if err != nil {
			return nil, err
		}
		if it == nil {
			return items, nil
		}
		items = append(items, *it)
	}
}

// Terms scans src completely and returns the terms alone.
func Terms(src string) ([]expr.Term, error) {
	items, err := NewFromString(src).All()
	if err != nil {
		return nil, err
	}
	terms := make([]expr.Term, len(items))
	for i, it := range items {
		terms[i] = it.Term
	}
	return terms, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
