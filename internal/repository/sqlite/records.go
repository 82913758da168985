package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"verity/internal/domain"
)

// recordRow holds all columns from a record query for scanning
type recordRow struct {
	ID        string
	Kind      string
	Key       string
	AttrsJSON sql.NullString
	Source    sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// recordColumns is the SELECT column list for record queries.
// Column order must match recordRow.scanArgs.
const recordColumns = `id, kind, key, attrs, source, created_at, updated_at`

func (r *recordRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Kind,
		&r.Key,
		&r.AttrsJSON,
		&r.Source,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

func (r *recordRow) toDomain() (*domain.Record, error) {
	rec := &domain.Record{
		ID:        r.ID,
		Kind:      domain.RecordKind(r.Kind),
		Key:       r.Key,
		Source:    nullToString(r.Source),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := unmarshalJSONField(r.AttrsJSON, &rec.Attrs); err != nil {
		return nil, fmt.Errorf("unmarshal attrs: %w", err)
	}
	return rec, nil
}

// GetRecord retrieves a single record by ID, nil if absent
func (r *Repository) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	row := &recordRow{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ?`, id,
	).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return row.toDomain()
}

// ListRecords returns records, optionally filtered by kind and source
func (r *Repository) ListRecords(ctx context.Context, kind, source string) ([]domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE 1=1`
	var args []interface{}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	if source != "" {
		query += ` AND source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY kind, key`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		row := &recordRow{}
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// UpsertRecord inserts or updates a record by ID
func (r *Repository) UpsertRecord(ctx context.Context, rec *domain.Record) error {
	attrsJSON, err := marshalToNull(rec.Attrs)
	if err != nil {
		return fmt.Errorf("marshal attrs: %w", err)
	}

	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO records (id, kind, key, attrs, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			key = excluded.key,
			attrs = excluded.attrs,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, rec.ID, string(rec.Kind), rec.Key, attrsJSON, stringToNull(rec.Source), rec.CreatedAt, rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

// DeleteRecord removes a record by ID
func (r *Repository) DeleteRecord(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// CountRecords returns the total number of records
func (r *Repository) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
