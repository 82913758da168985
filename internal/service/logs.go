package service

import (
	"context"

	"verity/internal/domain"
	"verity/internal/repository/sqlite"
)

// LogService serves sync job and log entry queries
type LogService struct {
	repo *sqlite.Repository
}

// NewLogService creates a log service
func NewLogService(repo *sqlite.Repository) *LogService {
	return &LogService{repo: repo}
}

// Jobs returns sync jobs newest first, optionally filtered by integration
func (s *LogService) Jobs(ctx context.Context, integration string, limit int) ([]domain.SyncJob, error) {
	return s.repo.ListSyncJobs(ctx, integration, limit)
}

// Job returns one sync job by ID, nil if absent
func (s *LogService) Job(ctx context.Context, id string) (*domain.SyncJob, error) {
	return s.repo.GetSyncJob(ctx, id)
}

// Entries returns log entries matching the filter, newest first
func (s *LogService) Entries(ctx context.Context, filter sqlite.LogFilter) ([]domain.SyncLogEntry, error) {
	return s.repo.ListLogEntries(ctx, filter)
}
