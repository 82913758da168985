package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"verity/internal/domain"
)

// jobRow holds all columns from a sync_jobs query for scanning
type jobRow struct {
	ID          string
	Integration string
	DryRun      int
	Status      string
	StartedAt   time.Time
	CompletedAt sql.NullTime
	Error       sql.NullString
	Created     int
	Updated     int
	Deleted     int
	Skipped     int
	Failed      int
	LoadMS      int64
	DiffMS      int64
	ApplyMS     int64
}

// jobColumns is the SELECT column list for job queries.
// Column order must match jobRow.scanArgs.
const jobColumns = `id, integration, dry_run, status, started_at, completed_at, error,
	created, updated, deleted, skipped, failed, load_ms, diff_ms, apply_ms`

func (r *jobRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Integration,
		&r.DryRun,
		&r.Status,
		&r.StartedAt,
		&r.CompletedAt,
		&r.Error,
		&r.Created,
		&r.Updated,
		&r.Deleted,
		&r.Skipped,
		&r.Failed,
		&r.LoadMS,
		&r.DiffMS,
		&r.ApplyMS,
	}
}

func (r *jobRow) toDomain() *domain.SyncJob {
	return &domain.SyncJob{
		ID:          r.ID,
		Integration: r.Integration,
		DryRun:      r.DryRun != 0,
		Status:      domain.JobStatus(r.Status),
		StartedAt:   r.StartedAt,
		CompletedAt: nullToTimePtr(r.CompletedAt),
		Error:       nullToString(r.Error),
		Counts: domain.SyncCounts{
			Created: r.Created,
			Updated: r.Updated,
			Deleted: r.Deleted,
			Skipped: r.Skipped,
			Failed:  r.Failed,
		},
		LoadDuration:  time.Duration(r.LoadMS) * time.Millisecond,
		DiffDuration:  time.Duration(r.DiffMS) * time.Millisecond,
		ApplyDuration: time.Duration(r.ApplyMS) * time.Millisecond,
	}
}

// CreateSyncJob persists a new sync job
func (r *Repository) CreateSyncJob(ctx context.Context, job *domain.SyncJob) error {
	dryRun := 0
	if job.DryRun {
		dryRun = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_jobs (id, integration, dry_run, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, job.ID, job.Integration, dryRun, string(job.Status), job.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create sync job: %w", err)
	}
	return nil
}

// UpdateSyncJob persists job status, counters, and phase durations
func (r *Repository) UpdateSyncJob(ctx context.Context, job *domain.SyncJob) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sync_jobs SET
			status = ?,
			completed_at = ?,
			error = ?,
			created = ?, updated = ?, deleted = ?, skipped = ?, failed = ?,
			load_ms = ?, diff_ms = ?, apply_ms = ?
		WHERE id = ?
	`,
		string(job.Status),
		timePtrToNull(job.CompletedAt),
		stringToNull(job.Error),
		job.Counts.Created, job.Counts.Updated, job.Counts.Deleted,
		job.Counts.Skipped, job.Counts.Failed,
		job.LoadDuration.Milliseconds(),
		job.DiffDuration.Milliseconds(),
		job.ApplyDuration.Milliseconds(),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sync job: %w", err)
	}
	return nil
}

// GetSyncJob retrieves a single job by ID, nil if absent
func (r *Repository) GetSyncJob(ctx context.Context, id string) (*domain.SyncJob, error) {
	row := &jobRow{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM sync_jobs WHERE id = ?`, id,
	).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sync job: %w", err)
	}
	return row.toDomain(), nil
}

// ListSyncJobs returns jobs newest first, optionally filtered by integration
func (r *Repository) ListSyncJobs(ctx context.Context, integration string, limit int) ([]domain.SyncJob, error) {
	query := `SELECT ` + jobColumns + ` FROM sync_jobs WHERE 1=1`
	var args []interface{}
	if integration != "" {
		query += ` AND integration = ?`
		args = append(args, integration)
	}
	query += ` ORDER BY started_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.SyncJob
	for rows.Next() {
		row := &jobRow{}
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan sync job: %w", err)
		}
		jobs = append(jobs, *row.toDomain())
	}
	return jobs, rows.Err()
}
