package adapter

import (
	"context"
	"time"

	"github.com/workix/fieldsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteTransport is the engine's view of the backend system of record.
// Implementations classify failures into the sentinel errors of this
// package so the orchestrator can decide between terminal and retryable.
type RemoteTransport interface {
	// Execute applies one mutation remotely. The mutation's request id is
	// forwarded so the backend can recognise replays of an already-applied
	// write.
	Execute(ctx context.Context, m models.Mutation) error

	// FetchSnapshots returns the authoritative records of one entity type
	// modified strictly after updatedSince, capped at limit. A zero
	// updatedSince requests the full set.
	FetchSnapshots(ctx context.Context, entityType string, updatedSince time.Time, limit int) ([]models.EntitySnapshot, error)
}
