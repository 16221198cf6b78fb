// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package classify turns finalized text fragments into formula tokens.
package classify

import (
	"errors"
	"strings"

	"nickandperla.net/formula/internal/provider"
	"nickandperla.net/formula/internal/suggest"
	"nickandperla.net/formula/internal/token"
)

// ErrRejectedFragment marks a fragment that matched no classification rule.
// It is a no-op signal for callers that prefer an error value.
var ErrRejectedFragment = errors.New("rejected fragment")

// Fragment classifies text against snap. Numeric and operator patterns are
// checked before tag names, so a tag called "10" can never shadow the
// number 10. The result is false when nothing matched.
func Fragment(text string, snap *suggest.Snapshot) (token.Token, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	if n, err := token.NewNumber(text); err == nil {
		return n, true
	}
	if p, err := token.NewPercentage(text); err == nil {
		return p, true
	}
	if o, err := token.NewOperator(text); err == nil {
		return o, true
	}

	if s, ok := snap.Lookup(text); ok {
		if tag, err := Suggestion(s); err == nil {
			return tag, true
		}
	}
	return nil, false
}

// Classify is Fragment with the rejection reported as ErrRejectedFragment.
func Classify(text string, snap *suggest.Snapshot) (token.Token, error) {
	tok, ok := Fragment(text, snap)
	if !ok {
		return nil, ErrRejectedFragment
	}
	return tok, nil
}

// Suggestion builds the Tag for a suggestion record. Records without a
// name are rejected with token.ErrInvalidTokenFormat.
func Suggestion(s provider.Suggestion) (token.Tag, error) {
	return token.NewTag(s.ID, s.Name, s.Category, s.Value.Ptr())
}
