// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package provider

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Multi fetches from several providers at once and merges the results.
// Records are kept in provider order; the first record for a name wins.
// Fetch fails only when every provider fails.
type Multi struct {
	Providers []Provider
}

// NewMulti creates a provider over ps. Nil entries are skipped.
func NewMulti(ps ...Provider) *Multi {
	m := &Multi{}
	for _, p := range ps {
		if p != nil {
			m.Providers = append(m.Providers, p)
		}
	}
	return m
}

// Fetch queries all providers concurrently.
func (m *Multi) Fetch(ctx context.Context) ([]Suggestion, error) {
	results := make([][]Suggestion, len(m.Providers))
	errs := make([]error, len(m.Providers))

	var g errgroup.Group
	for i, p := range m.Providers {
		g.Go(func() error {
			results[i], errs[i] = p.Fetch(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var (
		merged []Suggestion
		seen   = make(map[string]bool)
		failed int
	)
	for i := range m.Providers {
		if errs[i] != nil {
			failed++
			continue
		}
		for _, s := range results[i] {
			if seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			merged = append(merged, s)
		}
	}
	if len(m.Providers) > 0 && failed == len(m.Providers) {
		return nil, errors.Join(errs...)
	}
	return merged, nil
}
