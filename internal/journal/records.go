package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"folio/internal/book"
)

// Invocation summarizes one verify or mint run.
type Invocation struct {
	ID         string
	Kind       string
	ISBN       string
	Outcome    string
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Transition is one recorded workflow state change.
type Transition struct {
	Seq          int64
	InvocationID string
	FromState    string
	ToState      string
	Note         string
	CreatedAt    time.Time
}

// Outcome values for FinishInvocation.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// BeginInvocation records the start of a verify or mint run and returns its
// identifier.
func (s *Store) BeginInvocation(ctx context.Context, kind, isbn string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (id, kind, isbn, started_at) VALUES (?, ?, ?, ?)`,
		id, kind, isbn, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert invocation: %w", err)
	}
	return id, nil
}

// RecordTransition appends a state change for the invocation.
func (s *Store) RecordTransition(ctx context.Context, invocationID, from, to, note string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transitions (invocation_id, from_state, to_state, note, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		invocationID, from, to, note, now,
	)
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// FinishInvocation stamps the terminal outcome for the invocation.
func (s *Store) FinishInvocation(ctx context.Context, invocationID, outcome, errMsg string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE invocations SET outcome = ?, error = ?, finished_at = ? WHERE id = ?`,
		outcome, errMsg, now, invocationID,
	)
	if err != nil {
		return fmt.Errorf("finish invocation: %w", err)
	}
	return nil
}

// RecordSnapshot stores the read snapshot a verification produced.
func (s *Store) RecordSnapshot(ctx context.Context, invocationID string, record book.Record) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	var title, author, mintedAt string
	if record.Metadata != nil {
		title = record.Metadata.Title
		author = record.Metadata.Author
		mintedAt = record.Metadata.MintedAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (invocation_id, isbn, book_exists, token_id, owner, title, author, minted_at, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invocationID, record.ISBN, boolToInt(record.Exists), record.TokenID, record.Owner,
		title, author, mintedAt, now,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetInvocation fetches one invocation by id.
func (s *Store) GetInvocation(ctx context.Context, id string) (*Invocation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, isbn, outcome, error, started_at, finished_at
         FROM invocations WHERE id = ?`, id)
	return scanInvocation(row)
}

// ListInvocations returns the most recent invocations, newest first.
func (s *Store) ListInvocations(ctx context.Context, limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, isbn, outcome, error, started_at, finished_at
         FROM invocations ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list invocations: %w", err)
	}
	defer rows.Close()

	var result []Invocation
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	return result, rows.Err()
}

// Transitions returns the ordered state changes for an invocation.
func (s *Store) Transitions(ctx context.Context, invocationID string) ([]Transition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, invocation_id, from_state, to_state, note, created_at
         FROM transitions WHERE invocation_id = ? ORDER BY seq`, invocationID)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var result []Transition
	for rows.Next() {
		var tr Transition
		var created string
		if err := rows.Scan(&tr.Seq, &tr.InvocationID, &tr.FromState, &tr.ToState, &tr.Note, &created); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		tr.CreatedAt = parseTimestamp(created)
		result = append(result, tr)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvocation(row rowScanner) (*Invocation, error) {
	var inv Invocation
	var started string
	var finished sql.NullString
	if err := row.Scan(&inv.ID, &inv.Kind, &inv.ISBN, &inv.Outcome, &inv.Error, &started, &finished); err != nil {
		return nil, fmt.Errorf("scan invocation: %w", err)
	}
	inv.StartedAt = parseTimestamp(started)
	if finished.Valid && finished.String != "" {
		ts := parseTimestamp(finished.String)
		inv.FinishedAt = &ts
	}
	return &inv, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
