package store

import (
	"context"
	"time"

	"github.com/workix/fieldsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// QueueRepository is the low-level store for queued mutations. Payloads
// arrive already encrypted; this layer never sees plaintext.
type QueueRepository interface {
	// UpsertMutation inserts the row or, when the request_id already
	// exists, replaces its method, target, payload, status, and error while
	// preserving the prior retries count and created_at.
	UpsertMutation(ctx context.Context, m models.QueuedMutation) error

	// GetMutation returns a single row by request_id.
	GetMutation(ctx context.Context, requestID string) (models.QueuedMutation, error)

	// ListMutations returns all rows with the given status in ascending
	// created_at order.
	ListMutations(ctx context.Context, status models.MutationStatus) ([]models.QueuedMutation, error)

	// DeleteMutation removes the row. Deleting an absent row is a no-op.
	DeleteMutation(ctx context.Context, requestID string) error

	// MarkMutationFailed increments retries, records the error text, moves
	// the row to failed when terminal (back to pending otherwise), and
	// bumps updated_at.
	MarkMutationFailed(ctx context.Context, requestID, cause string, terminal bool, updatedAt time.Time) error

	// CountPending returns the number of pending rows.
	CountPending(ctx context.Context) (int64, error)
}

// EntityCacheRepository is the local read replica of server-owned records.
type EntityCacheRepository interface {
	// UpsertEntity writes the snapshot. An existing row is only overwritten
	// when the incoming updated_at is strictly newer than the stored one, so
	// the timestamp never moves backwards. Reports whether the row was
	// actually written.
	UpsertEntity(ctx context.Context, e models.CachedEntity) (bool, error)

	// GetEntity returns one cached snapshot by id.
	GetEntity(ctx context.Context, id string) (models.CachedEntity, error)

	// ListEntities returns cached snapshots whose id belongs to the given
	// entity type (e.g. "work-orders" matches "work-orders/42").
	ListEntities(ctx context.Context, entityType string) ([]models.CachedEntity, error)
}

// MetadataRepository is a singleton-per-key record store.
type MetadataRepository interface {
	SetValue(ctx context.Context, key, value string) error
	GetValue(ctx context.Context, key string) (string, error)
}

// Maintenance groups destructive housekeeping shared by the repositories.
type Maintenance interface {
	// ClearOfflineData wipes the queue, the entity cache, and all metadata.
	ClearOfflineData(ctx context.Context) error
}
