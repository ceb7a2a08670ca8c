package journal

import (
	"context"
	"fmt"
)

// Migrations run in order; the applied count is tracked in user_version.
// Append only.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS invocations (
        id          TEXT PRIMARY KEY,
        kind        TEXT NOT NULL,
        isbn        TEXT NOT NULL,
        outcome     TEXT NOT NULL DEFAULT '',
        error       TEXT NOT NULL DEFAULT '',
        started_at  TEXT NOT NULL,
        finished_at TEXT
    )`,
	`CREATE TABLE IF NOT EXISTS transitions (
        seq           INTEGER PRIMARY KEY AUTOINCREMENT,
        invocation_id TEXT NOT NULL REFERENCES invocations(id),
        from_state    TEXT NOT NULL,
        to_state      TEXT NOT NULL,
        note          TEXT NOT NULL DEFAULT '',
        created_at    TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS snapshots (
        seq           INTEGER PRIMARY KEY AUTOINCREMENT,
        invocation_id TEXT NOT NULL REFERENCES invocations(id),
        isbn          TEXT NOT NULL,
        book_exists   INTEGER NOT NULL,
        token_id      TEXT NOT NULL DEFAULT '',
        owner         TEXT NOT NULL DEFAULT '',
        title         TEXT NOT NULL DEFAULT '',
        author        TEXT NOT NULL DEFAULT '',
        minted_at     TEXT NOT NULL DEFAULT '',
        created_at    TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_transitions_invocation ON transitions(invocation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_isbn ON snapshots(isbn)`,
}

func (s *Store) applyMigrations(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for i := version; i < len(migrations); i++ {
		if _, err := s.db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("bump schema version: %w", err)
		}
	}
	return nil
}
