// Package sqlite persists the source-of-truth inventory, sync jobs, and
// sync log entries in a local SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Repository implements the persistence layer over SQLite
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies pending
// migrations. Use ":memory:" for an ephemeral database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
