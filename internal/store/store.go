package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is stored in PRAGMA user_version. A history file written by a
// newer sortviz is refused rather than read with the wrong columns.
const SchemaVersion = 1

// SchemaVersionError reports a history file with an unsupported schema.
type SchemaVersionError struct {
	Path    string
	Found   int
	Current int
}

func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("%s: history schema version %d is newer than supported version %d", e.Path, e.Found, e.Current)
}

// Store is the run history. It is safe for concurrent use: bench workers
// share one Store, and all writes go through a single connection.
type Store struct {
	db *sql.DB
}

// Open opens the history at path, creating the file and the runs table on
// first use. Reopening an existing history keeps its runs.
func Open(path string) (*Store, error) {
	// WAL lets `history` read while `animate` or `bench` keeps writing;
	// the busy timeout makes a second writer wait instead of failing.
	// Both are applied by the driver to every new connection.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	// One connection serializes concurrent RecordRun calls.
	db.SetMaxOpenConns(1)

	if err := initialize(db, path); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database. Closing a zero Store is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initialize checks the schema version and creates missing tables.
func initialize(db *sql.DB, path string) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("open history %s: read schema version: %w", path, err)
	}
	if version > SchemaVersion {
		return &SchemaVersionError{Path: path, Found: version, Current: SchemaVersion}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("open history %s: create schema: %w", path, err)
	}
	if version < SchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return fmt.Errorf("open history %s: set schema version: %w", path, err)
		}
	}
	return nil
}
