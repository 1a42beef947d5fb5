package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const upsert = `INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

// SQLite is a Store backed by a single SQLite table.
type SQLite struct {
	conn   *sql.DB
	mu     sync.Mutex
	closed bool
}

// Compile-time check that SQLite implements Store.
var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at path and initializes the schema.
func OpenSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	db := &SQLite{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// initSchema creates the key-value table if it doesn't exist.
func (db *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get implements Store.
func (db *SQLite) Get(key string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return "", false, ErrClosed
	}

	var value string
	err := db.conn.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Store.
func (db *SQLite) Set(key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}

	_, err := db.conn.Exec(upsert, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Update implements Store. The read and the write share one immediate transaction,
// so other processes using the same file cannot interleave.
func (db *SQLite) Update(key string, fn UpdateFunc) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin update of %s: %w", key, err)
	}
	defer tx.Rollback()

	var old string
	ok := true
	err = tx.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&old)
	if errors.Is(err, sql.ErrNoRows) {
		ok = false
	} else if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	value, write := fn(old, ok)
	if !write {
		return nil
	}
	if _, err := tx.Exec(upsert, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

// Close closes the database. Further operations return ErrClosed.
func (db *SQLite) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true
	return db.conn.Close()
}

// Open returns an SQLite store for path, or an in-memory store when path is empty.
// The returned close function is never nil.
func Open(path string) (Store, func() error, error) {
	if path == "" {
		return NewMemory(), func() error { return nil }, nil
	}
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}
