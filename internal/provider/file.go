// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package provider

import (
	"context"
	"fmt"
	"os"
)

// File reads suggestions from a local JSON file.
type File struct {
	Path string
}

// NewFile creates a new file provider.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Fetch reads and decodes the file.
func (f *File) Fetch(ctx context.Context) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read suggestions file: %w", err)
	}
	return Decode(data)
}
