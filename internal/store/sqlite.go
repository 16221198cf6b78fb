package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"nickandperla.net/formula/internal/provider"
)

// SchemaVersion is the cache schema written to the metadata table.
const SchemaVersion = "1"

const driverName = "sqlite"

// SQLite is a SQLite-backed suggestion cache.
type SQLite struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) a cache at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS suggestions (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			value REAL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db, now: time.Now}

	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// Load returns the cached suggestions in their original order.
func (s *SQLite) Load() ([]provider.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT id, name, category, value FROM suggestions ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []provider.Suggestion
	for rows.Next() {
		var (
			it    provider.Suggestion
			value sql.NullFloat64
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &value); err != nil {
			return nil, err
		}
		if value.Valid {
			it.Value = provider.NewValue(value.Float64)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Save replaces the cached suggestions and records when it happened.
func (s *SQLite) Save(items []provider.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM suggestions"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO suggestions (position, id, name, category, value) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, it := range items {
		var value sql.NullFloat64
		if v, ok := it.Value.Float(); ok {
			value = sql.NullFloat64{Float64: v, Valid: true}
		}
		if _, err := stmt.Exec(i, it.ID, it.Name, it.Category, value); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO metadata (key, value) VALUES ('fetched_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, s.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// FetchedAt returns when the cache was last saved. The zero time means never.
func (s *SQLite) FetchedAt() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.getMetadataUnlocked("fetched_at")
	if err != nil || v == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata stores a metadata value by key.
func (s *SQLite) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadataUnlocked(key, value)
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
