package store

import (
	"context"
	"fmt"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string       `json:"db_path"`
	DBSizeBytes  int64        `json:"db_size_bytes"`
	TotalEntries int          `json:"total_entries"`
	Sessions     int          `json:"sessions"`
	Scopes       []ScopeStats `json:"scopes"`
}

// ScopeStats holds per-scope counts.
type ScopeStats struct {
	Scope string `json:"scope"`
	Keys  int    `json:"keys"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&st.TotalEntries); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&st.Sessions); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT scope, COUNT(*) AS cnt
		FROM entries
		GROUP BY scope ORDER BY cnt DESC, scope`)
	if err != nil {
		return nil, fmt.Errorf("count scopes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc ScopeStats
		if err := rows.Scan(&sc.Scope, &sc.Keys); err != nil {
			return nil, fmt.Errorf("scan scope: %w", err)
		}
		st.Scopes = append(st.Scopes, sc)
	}

	return st, rows.Err()
}
