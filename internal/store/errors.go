package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrStoreUnavailable is returned when the local database cannot be
	// opened or migrated. It is fatal to the whole offline subsystem and is
	// distinct from errors raised during a sync cycle.
	ErrStoreUnavailable = errors.New("local store unavailable")

	// ErrMutationNotFound is returned when a queue operation targets a
	// request_id that has no row.
	ErrMutationNotFound = errors.New("queued mutation not found")

	// ErrEntityNotFound is returned when no cached snapshot exists for the
	// requested entity id.
	ErrEntityNotFound = errors.New("cached entity not found")

	// ErrMetadataNotFound is returned when the metadata table has no row
	// for the requested key.
	ErrMetadataNotFound = errors.New("metadata key not found")
)
