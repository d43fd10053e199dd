package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ExportAll returns stored entries ordered by scope and key. An empty scope
// returns everything.
func (s *SQLiteStore) ExportAll(ctx context.Context, scope string) ([]Entry, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if scope != "" {
		where = append(where, "scope = ?")
		args = append(args, scope)
	}

	query := `SELECT scope, key, value, updated_at FROM entries WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY scope, key`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Scope, &e.Key, &e.Value, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Import stores entries from an export, replacing values already stored
// under the same scope and key. Session scopes are registered as sessions.
// Either every entry is stored or none is.
func (s *SQLiteStore) Import(ctx context.Context, entries []Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	imported := 0
	for _, e := range entries {
		if e.Scope == "" || e.Key == "" {
			return 0, fmt.Errorf("entry %d: scope and key are required", imported)
		}
		if err := upsert(ctx, tx, e.Scope, e.Key, e.Value); err != nil {
			return 0, err
		}
		if id, ok := strings.CutPrefix(e.Scope, sessionScopePrefix); ok {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO sessions (id, created_at) VALUES (?, ?)`, id, now); err != nil {
				return 0, fmt.Errorf("register session %s: %w", id, err)
			}
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
