// Package formula provides the public API for an interactive formula session.
package formula

import (
	"go.uber.org/zap"

	"nickandperla.net/formula/internal/provider"
	"nickandperla.net/formula/internal/store"
	"nickandperla.net/formula/internal/suggest"
)

// Option configures a Session.
type Option func(*Session)

// WithProvider sets the suggestion source.
func WithProvider(p provider.Provider) Option {
	return func(s *Session) {
		s.provider = p
	}
}

// WithCache sets the suggestion cache.
func WithCache(c store.Store) Option {
	return func(s *Session) {
		s.cache = c
	}
}

// WithSQLiteCache opens a SQLite suggestion cache at path. A cache that
// cannot be opened is logged and the session runs without one.
func WithSQLiteCache(path string) Option {
	return func(s *Session) {
		c, err := store.NewSQLite(path)
		if err != nil {
			s.setupErrs = append(s.setupErrs, err)
			return
		}
		s.cache = c
	}
}

// WithMemoryCache configures an in-memory cache (for testing).
func WithMemoryCache(items ...provider.Suggestion) Option {
	return func(s *Session) {
		s.cache = store.NewMemory(items...)
	}
}

// WithMockSuggestions configures a mock provider with a fixed list (for testing).
func WithMockSuggestions(items ...provider.Suggestion) Option {
	return func(s *Session) {
		s.provider = provider.NewMock(items...)
	}
}

// WithUnresolvedValue sets the value used for tags that have none.
func WithUnresolvedValue(v float64) Option {
	return func(s *Session) {
		s.unresolved = v
	}
}

// WithTagOptions sets the option labels a tag may carry. The first label
// is applied to newly inserted tags.
func WithTagOptions(options ...string) Option {
	return func(s *Session) {
		s.tagOptions = append([]string(nil), options...)
	}
}

// WithFilter sets the dropdown mode and result limit (<= 0 for no limit).
func WithFilter(mode suggest.Mode, limit int) Option {
	return func(s *Session) {
		s.filterMode = mode
		s.filterLimit = limit
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers a callback run after every state transition.
func WithObserver(fn Observer) Option {
	return func(s *Session) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}
