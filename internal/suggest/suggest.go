// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package suggest holds the read-only suggestion snapshot used for tag
// matching and the dropdown filter over it.
package suggest

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"nickandperla.net/formula/internal/provider"
)

// Snapshot is an immutable, name-indexed view of a suggestion list.
// A nil *Snapshot is valid and empty.
type Snapshot struct {
	items  []provider.Suggestion
	byName map[string]int
}

// NewSnapshot copies items into a new snapshot. When names repeat, the
// first record wins for lookup; all records are kept for filtering.
func NewSnapshot(items []provider.Suggestion) *Snapshot {
	s := &Snapshot{
		items:  slices.Clone(items),
		byName: make(map[string]int, len(items)),
	}
	for i, it := range s.items {
		if _, ok := s.byName[it.Name]; !ok {
			s.byName[it.Name] = i
		}
	}
	return s
}

// Lookup finds a suggestion by exact, case-sensitive name.
func (s *Snapshot) Lookup(name string) (provider.Suggestion, bool) {
	if s == nil {
		return provider.Suggestion{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return provider.Suggestion{}, false
	}
	return s.items[i], true
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// All returns a copy of the records in source order.
func (s *Snapshot) All() []provider.Suggestion {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// Mode selects how Filter matches a query.
type Mode int

const (
	// ModeSubstring keeps records whose name contains the query, ignoring case.
	ModeSubstring Mode = iota
	// ModeFuzzy keeps records whose name fuzzily matches the query, best first.
	ModeFuzzy
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeSubstring:
		return "substring"
	case ModeFuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return ModeSubstring, nil
	case "fuzzy":
		return ModeFuzzy, nil
	}
	return ModeSubstring, fmt.Errorf("unknown filter mode %q", s)
}

// Filter returns the dropdown candidates for query. An empty query yields
// nothing. limit <= 0 means no limit.
func (s *Snapshot) Filter(query string, mode Mode, limit int) []provider.Suggestion {
	if s.Len() == 0 || query == "" {
		return nil
	}

	var out []provider.Suggestion
	switch mode {
	case ModeFuzzy:
		names := make([]string, len(s.items))
		for i, it := range s.items {
			names[i] = it.Name
		}
		ranks := fuzzy.RankFindFold(query, names)
		slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
			if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
				return c
			}
			return cmp.Compare(a.OriginalIndex, b.OriginalIndex)
		})
		for _, r := range ranks {
			out = append(out, s.items[r.OriginalIndex])
		}
	default:
		q := strings.ToLower(query)
		for _, it := range s.items {
			if strings.Contains(strings.ToLower(it.Name), q) {
				out = append(out, it)
			}
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
