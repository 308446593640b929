package service

import "errors"

// Sentinel errors of the service layer, matched by callers with [errors.Is].
var (
	// ErrOffline is returned when a sync cycle is requested while the
	// connectivity monitor reports the backend unreachable.
	ErrOffline = errors.New("device is offline")

	// ErrSyncInProgress is returned when a sync cycle is requested while
	// another one is still in flight. Cycles are single-flight; the caller
	// should observe the running cycle through telemetry instead.
	ErrSyncInProgress = errors.New("sync cycle already in flight")

	// ErrInvalidMutation is returned by Enqueue when the request is missing
	// its target or carries an unknown method.
	ErrInvalidMutation = errors.New("invalid mutation request")
)
