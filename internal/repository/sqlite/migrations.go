package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// migration is one versioned, idempotent schema change. Each apply func
// must be safe to run against a schema that already matches its target.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

// migrations is the ordered schema history. Append only.
var migrations = []migration{
	{1, "initial", migrateInitial},
	{2, "performance_metrics", migratePerformanceMetrics},
	{3, "alter_synclogentry_textfields", migrateSyncLogTextFields},
}

// Migrate applies all unapplied migrations in order
func (r *Repository) Migrate() error {
	if _, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := r.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("query schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate schema_migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}

		tx, err := r.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %04d: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %04d_%s: %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
			m.version, m.name,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %04d_%s: %w", m.version, m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %04d_%s: %w", m.version, m.name, err)
		}
		log.Printf("Applied migration %04d_%s", m.version, m.name)
	}

	return nil
}

// SchemaVersion returns the highest applied migration version
func (r *Repository) SchemaVersion() (int, error) {
	var v sql.NullInt64
	err := r.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return int(v.Int64), nil
}

func migrateInitial(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		attrs TEXT,
		source TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_records_kind_key ON records(kind, key);
	CREATE INDEX IF NOT EXISTS idx_records_source ON records(source);

	CREATE TABLE IF NOT EXISTS sync_jobs (
		id TEXT PRIMARY KEY,
		integration TEXT NOT NULL,
		dry_run INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		error TEXT,
		created INTEGER NOT NULL DEFAULT 0,
		updated INTEGER NOT NULL DEFAULT 0,
		deleted INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sync_jobs_integration ON sync_jobs(integration);
	CREATE INDEX IF NOT EXISTS idx_sync_jobs_started ON sync_jobs(started_at);

	CREATE TABLE IF NOT EXISTS sync_log_entries (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		status TEXT NOT NULL,
		diff TEXT,
		synced_object_id TEXT,
		object_repr VARCHAR(200) NOT NULL DEFAULT '',
		message VARCHAR(511) NOT NULL DEFAULT '',
		FOREIGN KEY (job_id) REFERENCES sync_jobs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sync_log_entries_job ON sync_log_entries(job_id);
	CREATE INDEX IF NOT EXISTS idx_sync_log_entries_action ON sync_log_entries(action);
	`
	_, err := tx.Exec(schema)
	return err
}

// migratePerformanceMetrics adds per-phase duration columns to sync_jobs
func migratePerformanceMetrics(tx *sql.Tx) error {
	for _, col := range []string{"load_ms", "diff_ms", "apply_ms"} {
		if err := addColumnIfNotExists(tx, "sync_jobs", col, "INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	return nil
}

// migrateSyncLogTextFields widens message and object_repr to unrestricted
// TEXT. SQLite cannot alter a column type in place, so the table is
// rebuilt; a no-op when the columns are already TEXT.
func migrateSyncLogTextFields(tx *sql.Tx) error {
	msgType, err := columnType(tx, "sync_log_entries", "message")
	if err != nil {
		return err
	}
	reprType, err := columnType(tx, "sync_log_entries", "object_repr")
	if err != nil {
		return err
	}
	if strings.EqualFold(msgType, "TEXT") && strings.EqualFold(reprType, "TEXT") {
		return nil
	}

	stmts := []string{
		`CREATE TABLE sync_log_entries_new (
			id TEXT PRIMARY KEY,
			job_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			action TEXT NOT NULL,
			status TEXT NOT NULL,
			diff TEXT,
			synced_object_id TEXT,
			object_repr TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (job_id) REFERENCES sync_jobs(id) ON DELETE CASCADE
		)`,
		`INSERT INTO sync_log_entries_new
			SELECT id, job_id, timestamp, action, status, diff, synced_object_id, object_repr, message
			FROM sync_log_entries`,
		`DROP TABLE sync_log_entries`,
		`ALTER TABLE sync_log_entries_new RENAME TO sync_log_entries`,
		`CREATE INDEX IF NOT EXISTS idx_sync_log_entries_job ON sync_log_entries(job_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_log_entries_action ON sync_log_entries(action)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// columnType returns the declared type of a column, or "" if the column
// does not exist
func columnType(tx *sql.Tx, table, column string) (string, error) {
	rows, err := tx.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return "", fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			typ        string
			notNull    int
			deflt      sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &deflt, &primaryKey); err != nil {
			return "", fmt.Errorf("scan table_info %s: %w", table, err)
		}
		if name == column {
			return typ, nil
		}
	}
	return "", rows.Err()
}

// addColumnIfNotExists adds a column unless the table already has it
func addColumnIfNotExists(tx *sql.Tx, table, column, definition string) error {
	typ, err := columnType(tx, table, column)
	if err != nil {
		return err
	}
	if typ != "" {
		return nil
	}
	_, err = tx.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition))
	return err
}
