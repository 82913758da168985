package domain

import (
	"time"

	"github.com/google/uuid"
)

// LogAction is the kind of change a sync log entry describes
type LogAction string

const (
	LogActionCreate   LogAction = "create"
	LogActionUpdate   LogAction = "update"
	LogActionDelete   LogAction = "delete"
	LogActionNoChange LogAction = "no-change"
)

// LogStatus is the outcome of the logged action
type LogStatus string

const (
	LogStatusSuccess LogStatus = "success"
	LogStatusFailure LogStatus = "failure"
)

// SyncLogEntry records the outcome of a single synchronization action:
// one row per created/updated/deleted/skipped object during a sync job.
// Entries are append-only; ObjectRepr is captured once at creation and
// never edited afterwards.
type SyncLogEntry struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	Timestamp time.Time `json:"timestamp"`
	Action    LogAction `json:"action"`
	Status    LogStatus `json:"status"`

	// Diff holds the attribute-level changes applied, keyed by attribute
	Diff map[string]any `json:"diff,omitempty"`

	// SyncedObjectID is the record the action targeted, when it exists
	SyncedObjectID string `json:"synced_object_id,omitempty"`

	// ObjectRepr is the string form of the affected object. Free text,
	// unrestricted length, defaults to empty.
	ObjectRepr string `json:"object_repr"`

	// Message is free text describing the outcome. Unrestricted length,
	// defaults to empty.
	Message string `json:"message"`
}

// NewLogEntry creates a log entry for an action against a record.
// rec may be nil for job-level messages.
func NewLogEntry(jobID string, action LogAction, status LogStatus, rec *Record) *SyncLogEntry {
	entry := &SyncLogEntry{
		ID:        uuid.NewString(),
		JobID:     jobID,
		Timestamp: time.Now(),
		Action:    action,
		Status:    status,
	}
	if rec != nil {
		entry.SyncedObjectID = rec.ID
		entry.ObjectRepr = rec.Repr()
	}
	return entry
}
