package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// DurableScope holds values that survive across sessions.
const DurableScope = "local"

const sessionScopePrefix = "session:"

// SessionScope returns the storage scope of a session.
func SessionScope(id string) string {
	return sessionScopePrefix + id
}

// SQLiteStore keeps durable and per-session values in one SQLite database.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		scope      TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (scope, key)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// NewSession registers a fresh session and returns its ULID.
func (s *SQLiteStore) NewSession(ctx context.Context) (string, error) {
	s.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
	s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// Durable returns the KV for values that survive sessions.
func (s *SQLiteStore) Durable() KV {
	return scoped{s: s, scope: DurableScope}
}

// Session returns the KV scoped to one session.
func (s *SQLiteStore) Session(id string) KV {
	return scoped{s: s, scope: SessionScope(id)}
}

// ClearSession removes every value stored for a session and returns how many
// were dropped.
func (s *SQLiteStore) ClearSession(ctx context.Context, id string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE scope = ?`, SessionScope(id))
	if err != nil {
		return 0, fmt.Errorf("delete session entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLiteStore) get(ctx context.Context, scope, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE scope = ? AND key = ?`, scope, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s/%s: %w", scope, key, err)
	}
	return v, nil
}

func (s *SQLiteStore) set(ctx context.Context, scope, key, value string) error {
	return upsert(ctx, s.db, scope, key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, scope, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO entries (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scoped struct {
	s     *SQLiteStore
	scope string
}

func (k scoped) Get(ctx context.Context, key string) (string, error) {
	return k.s.get(ctx, k.scope, key)
}

func (k scoped) Set(ctx context.Context, key, value string) error {
	return k.s.set(ctx, k.scope, key, value)
}
