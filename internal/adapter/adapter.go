// Package adapter defines the integration interface and the registry
// that manages adapter lifecycle and sync scheduling.
package adapter

import (
	"context"

	"verity/internal/domain"
)

// Type defines how an adapter interacts with its data source
type Type string

const (
	// TypePolling - adapter pulls data on a schedule
	TypePolling Type = "polling"
	// TypeOneShot - manual trigger only (e.g., file import)
	TypeOneShot Type = "oneshot"
)

// Config holds configuration for an adapter instance
type Config struct {
	// Enabled determines if the adapter should run
	Enabled bool `json:"enabled"`
	// Priority determines which adapter wins in conflicts (higher = more authoritative)
	Priority int `json:"priority"`
	// PollInterval for polling adapters (e.g., "30s", "5m")
	PollInterval string `json:"poll_interval,omitempty"`
	// DeleteOnSync removes local records absent from the source snapshot
	DeleteOnSync bool `json:"delete_on_sync"`
}

// Adapter defines the interface for data source integrations
type Adapter interface {
	// Name returns the unique identifier for this adapter
	Name() string

	// Type returns how this adapter interacts with its source
	Type() Type

	// Start initializes the adapter (called once on startup)
	Start(ctx context.Context) error

	// Stop gracefully shuts down the adapter
	Stop() error

	// Sync pulls data from the source and returns a record snapshot.
	// Called on schedule for polling adapters, or manually for oneshot.
	Sync(ctx context.Context) (*domain.RecordSet, error)
}
