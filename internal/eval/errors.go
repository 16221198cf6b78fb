// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"
)

// ErrInvalidFormula is matched by every evaluation syntax error.
var ErrInvalidFormula = errors.New("invalid formula")

// SyntaxError describes why a term sequence is not a valid expression.
type SyntaxError struct {
	Pos int // index of the offending term; -1 when not tied to one
	Msg string
	Err error // underlying cause, if any
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("invalid formula: %s", e.Msg)
	}
	return fmt.Sprintf("invalid formula at term %d: %s", e.Pos, e.Msg)
}

// Is reports ErrInvalidFormula as a match.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidFormula
}

// Unwrap returns the underlying cause.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}
