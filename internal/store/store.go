// Package store provides the SQLite-backed local store: a key-value table
// for opaque blobs such as the serialized ledger, and the pending reminder
// queue used by the local notification center.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// LedgerKey is the kv key holding the serialized ledger.
const LedgerKey = "debtData"

// DB wraps the local SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
// ":memory:" opens a private in-memory database.
func Open(dbPath string) (*DB, error) {
	dsn := ":memory:"
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key, or nil if there is none.
func (s *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// Put replaces the value stored under key.
func (s *DB) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Blob is a single kv entry exposed as a load/save pair.
type Blob struct {
	db  *DB
	key string
}

// Blob returns the entry stored under key.
func (s *DB) Blob(key string) *Blob {
	return &Blob{db: s, key: key}
}

// Load returns the stored bytes, or nil if nothing was saved.
func (b *Blob) Load(ctx context.Context) ([]byte, error) {
	return b.db.Get(ctx, b.key)
}

// Save overwrites the stored bytes.
func (b *Blob) Save(ctx context.Context, data []byte) error {
	return b.db.Put(ctx, b.key, data)
}

// Reminder is a queued reminder waiting to fire.
type Reminder struct {
	ID     string
	FireAt time.Time
	Title  string
	Body   string
}

// PutReminder inserts or replaces a reminder by ID.
func (s *DB) PutReminder(ctx context.Context, r Reminder) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO reminders
		(id, fire_at_ns, title, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.FireAt.UnixNano(), r.Title, r.Body, now)
	if err != nil {
		return fmt.Errorf("saving reminder %s: %w", r.ID, err)
	}
	return nil
}

// Reminders returns all queued reminders ordered by fire time.
func (s *DB) Reminders(ctx context.Context) ([]Reminder, error) {
	return s.queryReminders(ctx, "SELECT id, fire_at_ns, title, body FROM reminders ORDER BY fire_at_ns, id")
}

// DueReminders returns reminders whose fire time is at or before now.
func (s *DB) DueReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	return s.queryReminders(ctx,
		"SELECT id, fire_at_ns, title, body FROM reminders WHERE fire_at_ns <= ? ORDER BY fire_at_ns, id",
		now.UnixNano())
}

func (s *DB) queryReminders(ctx context.Context, query string, args ...any) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Reminder
	for rows.Next() {
		var r Reminder
		var fireNs int64
		if err := rows.Scan(&r.ID, &fireNs, &r.Title, &r.Body); err != nil {
			return nil, err
		}
		r.FireAt = time.Unix(0, fireNs)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteReminders removes the reminders with the given IDs. Unknown IDs are
// ignored.
func (s *DB) DeleteReminders(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("deleting reminders: %w", err)
	}
	return nil
}
