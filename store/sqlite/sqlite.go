/*
Package sqlite provides the durable SQLite-backed ledger store.

PURPOSE:
  Persists the ledger snapshot as key/value rows. Every mutating ledger
  operation writes through the full snapshot; each write replaces the
  row set atomically so every persisted state is independently
  well-formed.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the single writer
  - Better crash recovery

CONCURRENCY:
  A RWMutex serializes access. The ledger is a single logical writer, so
  this only guards against concurrent HTTP readers.

USAGE:
  store, err := sqlite.New("./data/lessons.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  led, err := ledger.Open(ctx, store)

SEE ALSO:
  - ledger/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ledger_state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns all persisted keys.
func (s *Store) Load(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM ledger_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		kv[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return kv, nil
}

// Save replaces the stored snapshot with kv, atomically.
func (s *Store) Save(ctx context.Context, kv map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	// Full replace: stale legacy keys from pre-versioned snapshots are
	// dropped on the first versioned write.
	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_state`); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for key, value := range kv {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_state (key, value, updated_at) VALUES (?, ?, ?)`,
			key, value, now)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}
