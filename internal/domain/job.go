package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a sync job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// SyncCounts aggregates per-object outcomes of a job
type SyncCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Total returns the number of objects the job touched
func (c SyncCounts) Total() int {
	return c.Created + c.Updated + c.Deleted + c.Skipped + c.Failed
}

// SyncJob records one synchronization run of a single integration
type SyncJob struct {
	ID          string     `json:"id"`
	Integration string     `json:"integration"`
	DryRun      bool       `json:"dry_run"`
	Status      JobStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	Counts      SyncCounts `json:"counts"`

	// Per-phase durations, recorded for every run
	LoadDuration  time.Duration `json:"load_duration"`
	DiffDuration  time.Duration `json:"diff_duration"`
	ApplyDuration time.Duration `json:"apply_duration"`
}

// NewSyncJob creates a pending job for the given integration
func NewSyncJob(integration string, dryRun bool) *SyncJob {
	return &SyncJob{
		ID:          uuid.NewString(),
		Integration: integration,
		DryRun:      dryRun,
		Status:      JobStatusPending,
		StartedAt:   time.Now(),
	}
}

// Complete marks the job finished successfully
func (j *SyncJob) Complete() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
}

// Fail marks the job failed with the given error message
func (j *SyncJob) Fail(msg string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.Error = msg
	j.CompletedAt = &now
}
