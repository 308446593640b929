package config

import "errors"

// Validation errors returned by [StructuredConfig.validate]. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrNoBaseURL is returned when the backend base URL is missing.
	ErrNoBaseURL = errors.New("backend base URL is required")

	// ErrNoDatabasePath is returned when the local database path is empty.
	ErrNoDatabasePath = errors.New("local database path is required")

	// ErrNoEntities is returned when the cache tracks no entity types,
	// leaving the pull phase with nothing to reconcile.
	ErrNoEntities = errors.New("at least one entity type is required")

	// ErrBadInterval is returned when a configured period is not positive.
	ErrBadInterval = errors.New("interval must be positive")
)
