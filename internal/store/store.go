// Package store caches the last fetched suggestion list so a new session
// can match tags before its own fetch completes.
package store

import "nickandperla.net/formula/internal/provider"

// Store is the interface for suggestion caches.
type Store interface {
	// Load returns the cached list. An empty cache returns nil, nil.
	Load() ([]provider.Suggestion, error)
	// Save replaces the cached list.
	Save(items []provider.Suggestion) error
	// Close releases resources.
	Close() error
}
