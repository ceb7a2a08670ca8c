package journal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"folio/internal/config"
)

// Store persists workflow history backed by SQLite. A file lock guards the
// database so only one workflow instance writes a given data directory.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the journal database and applies
// migrations. It fails when another process already holds the journal lock.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Workflow.DataDir, "journal.lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire journal lock: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("journal locked: another workflow instance is using %s", cfg.Workflow.DataDir)
	}

	dbPath := filepath.Join(cfg.Workflow.DataDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection and releases the journal lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
		s.db = nil
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
		s.lock = nil
	}
	return err
}

// Path returns the on-disk location backing the journal.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
