package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"verity/internal/adapter"
	"verity/internal/domain"
)

// SyncStore is the persistence surface the sync engine needs
type SyncStore interface {
	ListRecords(ctx context.Context, kind, source string) ([]domain.Record, error)
	UpsertRecord(ctx context.Context, rec *domain.Record) error
	DeleteRecord(ctx context.Context, id string) error
	CreateSyncJob(ctx context.Context, job *domain.SyncJob) error
	UpdateSyncJob(ctx context.Context, job *domain.SyncJob) error
	GetSyncJob(ctx context.Context, id string) (*domain.SyncJob, error)
	ListSyncJobs(ctx context.Context, integration string, limit int) ([]domain.SyncJob, error)
	AppendLogEntry(ctx context.Context, entry *domain.SyncLogEntry) error
}

// AdapterLookup resolves adapters and their configuration by name
type AdapterLookup interface {
	Get(name string) (adapter.Adapter, bool)
	GetConfig(name string) (adapter.Config, bool)
}

// SyncService runs synchronization jobs: pull a snapshot from an
// adapter, diff it against local state, apply the changes, and record
// one log entry per affected object.
type SyncService struct {
	store    SyncStore
	adapters AdapterLookup
	bus      *EventBus
}

// NewSyncService creates a sync service
func NewSyncService(store SyncStore, adapters AdapterLookup, bus *EventBus) *SyncService {
	return &SyncService{store: store, adapters: adapters, bus: bus}
}

// Run executes one sync job for the named integration. The job and its
// log entries are persisted even when the run fails partway. With
// dryRun set, the diff is computed and logged but nothing is written
// to the record store.
func (s *SyncService) Run(ctx context.Context, integration string, dryRun bool) (*domain.SyncJob, error) {
	a, ok := s.adapters.Get(integration)
	if !ok {
		return nil, fmt.Errorf("unknown integration %q", integration)
	}
	config, _ := s.adapters.GetConfig(integration)

	job := domain.NewSyncJob(integration, dryRun)
	job.Status = domain.JobStatusRunning
	if err := s.store.CreateSyncJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.bus.Publish(EventJobStarted, map[string]any{
		"job_id":      job.ID,
		"integration": integration,
		"dry_run":     dryRun,
	})

	// Load phase
	loadStart := time.Now()
	snapshot, err := a.Sync(ctx)
	job.LoadDuration = time.Since(loadStart)
	if err != nil {
		return s.failJob(ctx, job, fmt.Errorf("load: %w", err))
	}

	// Diff phase
	diffStart := time.Now()
	local, err := s.store.ListRecords(ctx, "", integration)
	if err != nil {
		job.DiffDuration = time.Since(diffStart)
		return s.failJob(ctx, job, fmt.Errorf("list local records: %w", err))
	}
	changes := DiffSnapshots(local, snapshot, DiffOptions{
		DeleteOnAbsent: config.DeleteOnSync,
	})
	job.DiffDuration = time.Since(diffStart)

	// Apply phase
	applyStart := time.Now()
	counts := s.apply(ctx, job, changes, dryRun)
	job.ApplyDuration = time.Since(applyStart)

	job.Counts = counts
	job.Complete()
	if err := s.store.UpdateSyncJob(ctx, job); err != nil {
		return job, fmt.Errorf("update job: %w", err)
	}

	s.bus.Publish(EventJobCompleted, map[string]any{
		"job_id":      job.ID,
		"integration": integration,
		"created":     counts.Created,
		"updated":     counts.Updated,
		"deleted":     counts.Deleted,
		"skipped":     counts.Skipped,
		"failed":      counts.Failed,
	})
	log.Printf("Sync %s complete: %d created, %d updated, %d deleted, %d skipped, %d failed (load=%s diff=%s apply=%s)",
		integration, counts.Created, counts.Updated, counts.Deleted, counts.Skipped, counts.Failed,
		job.LoadDuration.Round(time.Millisecond),
		job.DiffDuration.Round(time.Millisecond),
		job.ApplyDuration.Round(time.Millisecond))
	return job, nil
}

// apply executes a change set and writes one log entry per change,
// including no-change entries. A failed object is logged and counted
// but does not abort the rest of the run.
func (s *SyncService) apply(ctx context.Context, job *domain.SyncJob, changes *domain.ChangeSet, dryRun bool) domain.SyncCounts {
	var counts domain.SyncCounts

	for _, change := range changes.Changes {
		entry := domain.NewLogEntry(job.ID, change.Action, domain.LogStatusSuccess, change.Record)
		if change.Diff != nil {
			entry.Diff = make(map[string]any, len(change.Diff))
			for attr, d := range change.Diff {
				entry.Diff[attr] = map[string]any{"before": d.Before, "after": d.After}
			}
		}

		var applyErr error
		if !dryRun {
			switch change.Action {
			case domain.LogActionCreate, domain.LogActionUpdate:
				applyErr = s.store.UpsertRecord(ctx, change.Record)
			case domain.LogActionDelete:
				applyErr = s.store.DeleteRecord(ctx, change.Record.ID)
			}
		}

		if applyErr != nil {
			counts.Failed++
			entry.Status = domain.LogStatusFailure
			entry.Message = applyErr.Error()
			log.Printf("Sync %s: %s %s failed: %v", job.Integration, change.Action, change.Record.ID, applyErr)
		} else {
			switch change.Action {
			case domain.LogActionCreate:
				counts.Created++
				s.publishRecordEvent(EventRecordCreated, change.Record, dryRun)
			case domain.LogActionUpdate:
				counts.Updated++
				s.publishRecordEvent(EventRecordUpdated, change.Record, dryRun)
			case domain.LogActionDelete:
				counts.Deleted++
				s.publishRecordEvent(EventRecordDeleted, change.Record, dryRun)
			case domain.LogActionNoChange:
				counts.Skipped++
			}
			if dryRun && change.Action != domain.LogActionNoChange {
				entry.Message = "dry run: not applied"
			}
		}

		if err := s.store.AppendLogEntry(ctx, entry); err != nil {
			log.Printf("Sync %s: failed to append log entry: %v", job.Integration, err)
		}
	}

	return counts
}

func (s *SyncService) publishRecordEvent(eventType EventType, rec *domain.Record, dryRun bool) {
	if dryRun {
		return
	}
	s.bus.Publish(eventType, map[string]any{
		"id":     rec.ID,
		"kind":   string(rec.Kind),
		"key":    rec.Key,
		"source": rec.Source,
	})
}

// failJob marks the job failed, persists it, and publishes the failure
func (s *SyncService) failJob(ctx context.Context, job *domain.SyncJob, cause error) (*domain.SyncJob, error) {
	job.Fail(cause.Error())
	if err := s.store.UpdateSyncJob(ctx, job); err != nil {
		log.Printf("Failed to persist failed job %s: %v", job.ID, err)
	}

	entry := domain.NewLogEntry(job.ID, domain.LogActionNoChange, domain.LogStatusFailure, nil)
	entry.Message = cause.Error()
	if err := s.store.AppendLogEntry(ctx, entry); err != nil {
		log.Printf("Failed to append failure log entry for job %s: %v", job.ID, err)
	}

	s.bus.Publish(EventJobFailed, map[string]any{
		"job_id":      job.ID,
		"integration": job.Integration,
		"error":       cause.Error(),
	})
	return job, cause
}
