package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"verity/internal/domain"
)

// logRow holds all columns from a sync_log_entries query for scanning
type logRow struct {
	ID             string
	JobID          string
	Timestamp      time.Time
	Action         string
	Status         string
	DiffJSON       sql.NullString
	SyncedObjectID sql.NullString
	ObjectRepr     string
	Message        string
}

// logColumns is the SELECT column list for log entry queries.
// Column order must match logRow.scanArgs.
const logColumns = `id, job_id, timestamp, action, status, diff, synced_object_id, object_repr, message`

func (r *logRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.JobID,
		&r.Timestamp,
		&r.Action,
		&r.Status,
		&r.DiffJSON,
		&r.SyncedObjectID,
		&r.ObjectRepr,
		&r.Message,
	}
}

func (r *logRow) toDomain() (*domain.SyncLogEntry, error) {
	entry := &domain.SyncLogEntry{
		ID:             r.ID,
		JobID:          r.JobID,
		Timestamp:      r.Timestamp,
		Action:         domain.LogAction(r.Action),
		Status:         domain.LogStatus(r.Status),
		SyncedObjectID: nullToString(r.SyncedObjectID),
		ObjectRepr:     r.ObjectRepr,
		Message:        r.Message,
	}
	if err := unmarshalJSONField(r.DiffJSON, &entry.Diff); err != nil {
		return nil, fmt.Errorf("unmarshal diff: %w", err)
	}
	return entry, nil
}

// AppendLogEntry persists one sync log entry. Entries are append-only;
// there is no update path.
func (r *Repository) AppendLogEntry(ctx context.Context, entry *domain.SyncLogEntry) error {
	diffJSON, err := marshalToNull(entry.Diff)
	if err != nil {
		return fmt.Errorf("marshal diff: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sync_log_entries
			(id, job_id, timestamp, action, status, diff, synced_object_id, object_repr, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID, entry.JobID, entry.Timestamp,
		string(entry.Action), string(entry.Status),
		diffJSON, stringToNull(entry.SyncedObjectID),
		entry.ObjectRepr, entry.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return nil
}

// LogFilter narrows log entry queries
type LogFilter struct {
	JobID  string
	Action string
	Status string
	Limit  int
}

// ListLogEntries returns log entries newest first, filtered
func (r *Repository) ListLogEntries(ctx context.Context, filter LogFilter) ([]domain.SyncLogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM sync_log_entries WHERE 1=1`
	var args []interface{}
	if filter.JobID != "" {
		query += ` AND job_id = ?`
		args = append(args, filter.JobID)
	}
	if filter.Action != "" {
		query += ` AND action = ?`
		args = append(args, filter.Action)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY timestamp DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query log entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.SyncLogEntry
	for rows.Next() {
		row := &logRow{}
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
