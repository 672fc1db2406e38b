package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SavedState describes one persisted timer state row.
type SavedState struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SavedStateStore persists MemoryBundles to SQLite so that timer state
// survives process death.  One row in saved_states per bundle; fields
// live in saved_state_fields keyed by (state_id, key).
type SavedStateStore struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// NewSavedStateStore opens (creating if necessary) the SQLite database
// at the given path and ensures the schema exists.
func NewSavedStateStore(path string) (*SavedStateStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal_mode: %w", err)
	}

	s := &SavedStateStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SavedStateStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_states (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS saved_state_fields (
		state_id  TEXT NOT NULL REFERENCES saved_states(id) ON DELETE CASCADE,
		key       TEXT NOT NULL,
		int_value INTEGER,
		str_value TEXT,
		PRIMARY KEY (state_id, key)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Create registers a new named saved state and returns its ID.
func (s *SavedStateStore) Create(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := time.Now().Unix()
	_, err := s.db.Exec(
		"INSERT INTO saved_states (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		id, name, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create saved state: %w", err)
	}
	return id, nil
}

// SaveBundle replaces the stored fields of the given saved state with
// the contents of the bundle.
func (s *SavedStateStore) SaveBundle(id string, b *MemoryBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM saved_state_fields WHERE state_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear fields: %w", err)
	}
	for k, v := range b.intFields() {
		if _, err := tx.Exec(
			"INSERT INTO saved_state_fields (state_id, key, int_value) VALUES (?, ?, ?)",
			id, k, v); err != nil {
			return fmt.Errorf("failed to write field %q: %w", k, err)
		}
	}
	for k, v := range b.stringFields() {
		if _, err := tx.Exec(
			"INSERT INTO saved_state_fields (state_id, key, str_value) VALUES (?, ?, ?)",
			id, k, v); err != nil {
			return fmt.Errorf("failed to write field %q: %w", k, err)
		}
	}
	if _, err := tx.Exec(
		"UPDATE saved_states SET updated_at = ? WHERE id = ?",
		time.Now().Unix(), id); err != nil {
		return fmt.Errorf("failed to touch saved state: %w", err)
	}
	return tx.Commit()
}

// LoadBundle reads the stored fields of a saved state into a fresh
// MemoryBundle.  An ID with no stored fields yields an empty bundle,
// matching the Bundle contract's tolerance of absent fields.
func (s *SavedStateStore) LoadBundle(id string) (*MemoryBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT key, int_value, str_value FROM saved_state_fields WHERE state_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	b := NewMemoryBundle()
	for rows.Next() {
		var key string
		var intVal sql.NullInt64
		var strVal sql.NullString
		if err := rows.Scan(&key, &intVal, &strVal); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		if intVal.Valid {
			b.PutInt64(key, intVal.Int64)
		}
		if strVal.Valid {
			b.PutString(key, strVal.String)
		}
	}
	return b, rows.Err()
}

// List returns all saved states, most recently updated first.
func (s *SavedStateStore) List() ([]SavedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT id, name, created_at, updated_at FROM saved_states ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list saved states: %w", err)
	}
	defer rows.Close()

	var out []SavedState
	for rows.Next() {
		var st SavedState
		var created, updated int64
		if err := rows.Scan(&st.ID, &st.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan saved state: %w", err)
		}
		st.CreatedAt = time.Unix(created, 0)
		st.UpdatedAt = time.Unix(updated, 0)
		out = append(out, st)
	}
	return out, rows.Err()
}

// Delete removes a saved state and its fields.
func (s *SavedStateStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM saved_state_fields WHERE state_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete fields: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM saved_states WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete saved state: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SavedStateStore) Close() error {
	return s.db.Close()
}
