package models

import "time"

// SyncState is the externally observable state of the sync engine.
type SyncState string

const (
	StateIdle    SyncState = "idle"
	StateSyncing SyncState = "syncing"
	StateOffline SyncState = "offline"
	StateError   SyncState = "error"
)

// TelemetrySnapshot is the last-known sync status summary published to
// observers. QueueSize counts pending (non-terminal) queue rows.
type TelemetrySnapshot struct {
	Status    SyncState  `json:"status"`
	QueueSize int64      `json:"queue_size"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// TelemetryUpdate is a partial snapshot update. Nil fields leave the
// corresponding snapshot field untouched, so observers always see a merged
// view rather than a wholesale replacement.
type TelemetryUpdate struct {
	Status    *SyncState
	QueueSize *int64
	LastSync  *time.Time
	LastError *string
}

// SyncStatus is the persisted outcome of the most recent sync cycle, stored
// as JSON in the metadata table under the sync_status key.
type SyncStatus struct {
	LastSync  *time.Time `json:"last_sync,omitempty"`
	LastPush  *time.Time `json:"last_push,omitempty"`
	Synced    int64      `json:"synced"`
	Failed    int64      `json:"failed"`
	Remaining int64      `json:"remaining"`
	LastError string     `json:"last_error,omitempty"`
}

// SyncReport summarises one completed sync cycle for the manual caller.
type SyncReport struct {
	Pushed    int64 `json:"pushed"`
	Pulled    int64 `json:"pulled"`
	Conflicts int64 `json:"conflicts"`
}
