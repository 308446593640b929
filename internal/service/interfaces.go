// Package service holds the engine's business logic: the mutation queue
// manager above the cipher layer, the decrypted cache reads, and the sync
// orchestrator with its background job.
package service

import (
	"context"
	"time"

	"github.com/workix/fieldsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// QueueService manages the durable mutation queue. It is the only layer that
// sees mutation payloads in the clear: everything below it stores ciphertext.
type QueueService interface {
	// Enqueue validates, encrypts, and persists one mutation. An empty
	// request id is assigned a fresh UUID. Re-enqueueing an existing request
	// id replaces the payload but preserves the accumulated retries and the
	// original created_at, and resets the row to pending.
	Enqueue(ctx context.Context, req models.MutationRequest) (models.QueuedMutation, error)

	// DequeueAll returns every pending mutation in FIFO order with payloads
	// decrypted. Rows whose ciphertext no longer decrypts are quarantined as
	// terminally failed and skipped.
	DequeueAll(ctx context.Context) ([]models.Mutation, error)

	// MarkCompleted removes a remotely confirmed mutation from the queue.
	MarkCompleted(ctx context.Context, requestID string) error

	// MarkFailed records a push failure. Terminal failures park the row in
	// the failed status for review; non-terminal ones return it to pending
	// for the next cycle. Either way retries is incremented.
	MarkFailed(ctx context.Context, requestID string, cause error, terminal bool) error

	// PendingCount returns the number of pending rows.
	PendingCount(ctx context.Context) (int64, error)

	// PendingTargets returns the set of targets that still have a pending
	// mutation. The pull phase uses it to detect locally dirty records.
	PendingTargets(ctx context.Context) (map[string]struct{}, error)
}

// CacheService reads the local entity cache with payloads decrypted, so
// screens can render records while offline.
type CacheService interface {
	// GetCachedEntity returns one decrypted snapshot by id.
	GetCachedEntity(ctx context.Context, id string) (models.EntitySnapshot, error)

	// ListCachedEntities returns every decrypted snapshot of one entity type.
	ListCachedEntities(ctx context.Context, entityType string) ([]models.EntitySnapshot, error)
}

// SyncService runs push/pull cycles against the backend.
type SyncService interface {
	// SyncNow runs one full cycle: push pending mutations FIFO, then pull
	// fresh snapshots per entity type. Returns ErrOffline without starting
	// when the backend is unreachable and ErrSyncInProgress when a cycle is
	// already running.
	SyncNow(ctx context.Context) (models.SyncReport, error)

	// Status returns the persisted outcome of the most recent cycle. A
	// device that has never synced gets a zero value.
	Status(ctx context.Context) (models.SyncStatus, error)
}

// SyncJob schedules background sync cycles on a fixed ticker.
type SyncJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
