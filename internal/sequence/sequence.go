// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package sequence is the ordered, cursor-addressed token store of a formula.
package sequence

import (
	"slices"

	"nickandperla.net/formula/internal/token"
)

// Sequence holds formula tokens in expression order plus the cursor, the
// insertion point in [0, Len()]. The zero value is an empty sequence.
type Sequence struct {
	tokens []token.Token
	cursor int
}

// New creates an empty sequence.
func New() *Sequence {
	return &Sequence{}
}

// Len returns the token count.
func (s *Sequence) Len() int { return len(s.tokens) }

// Cursor returns the insertion point.
func (s *Sequence) Cursor() int { return s.cursor }

// At returns the token at i, or nil when i is out of range.
func (s *Sequence) At(i int) token.Token {
	if i < 0 || i >= len(s.tokens) {
		return nil
	}
	return s.tokens[i]
}

// Tokens returns a copy of the tokens.
func (s *Sequence) Tokens() []token.Token {
	return slices.Clone(s.tokens)
}

func (s *Sequence) clamp(i int) int {
	return max(0, min(i, len(s.tokens)))
}

// Insert places tok at index at, clamped to [0, Len()], and moves the
// cursor just past it.
func (s *Sequence) Insert(tok token.Token, at int) {
	at = s.clamp(at)
	s.tokens = slices.Insert(s.tokens, at, tok)
	s.cursor = at + 1
}

// Append inserts tok at the end.
func (s *Sequence) Append(tok token.Token) {
	s.Insert(tok, len(s.tokens))
}

// InsertAtCursor inserts tok at the cursor.
func (s *Sequence) InsertAtCursor(tok token.Token) {
	s.Insert(tok, s.cursor)
}

// RemoveAt deletes the token at index. Out-of-range indices are a no-op.
// The cursor moves left by one only when the removed token was before it.
func (s *Sequence) RemoveAt(index int) bool {
	if index < 0 || index >= len(s.tokens) {
		return false
	}
	s.tokens = slices.Delete(s.tokens, index, index+1)
	if index < s.cursor {
		s.cursor--
	}
	return true
}

// Backspace deletes the token immediately before the cursor.
func (s *Sequence) Backspace() bool {
	return s.RemoveAt(s.cursor - 1)
}

// ReplaceAt swaps the token at index for tok. Order, length and cursor are
// unchanged. Out-of-range indices are a no-op.
func (s *Sequence) ReplaceAt(index int, tok token.Token) bool {
	if index < 0 || index >= len(s.tokens) {
		return false
	}
	s.tokens[index] = tok
	return true
}

// SetCursor moves the cursor to i, clamped.
func (s *Sequence) SetCursor(i int) {
	s.cursor = s.clamp(i)
}

// SelectToken moves the cursor to just after token i.
func (s *Sequence) SelectToken(i int) {
	s.SetCursor(i + 1)
}

// MoveCursor shifts the cursor by delta, clamped.
func (s *Sequence) MoveCursor(delta int) {
	s.SetCursor(s.cursor + delta)
}

// CursorEnd moves the cursor to the end (append mode).
func (s *Sequence) CursorEnd() {
	s.cursor = len(s.tokens)
}

// Reset empties the sequence.
func (s *Sequence) Reset() {
	s.tokens = nil
	s.cursor = 0
}
