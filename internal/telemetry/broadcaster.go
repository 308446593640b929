// Package telemetry fans the engine's sync status out to observers. The
// broadcaster keeps one merged snapshot: publishers send partial updates,
// subscribers always receive the full merged view.
package telemetry

import (
	"sync"

	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/models"
)

// Broadcaster holds the current TelemetrySnapshot and delivers it to
// subscribers. A new subscriber receives the current snapshot immediately,
// then every merged update after that. Delivery happens synchronously on the
// publisher's goroutine; listeners must not block.
type Broadcaster struct {
	logger *logger.Logger

	mu        sync.Mutex
	snapshot  models.TelemetrySnapshot
	nextID    int64
	listeners map[int64]func(models.TelemetrySnapshot)
}

// NewBroadcaster constructs a broadcaster with an idle empty snapshot.
func NewBroadcaster(log *logger.Logger) *Broadcaster {
	return &Broadcaster{
		logger:    log,
		snapshot:  models.TelemetrySnapshot{Status: models.StateIdle},
		listeners: make(map[int64]func(models.TelemetrySnapshot)),
	}
}

// Snapshot returns the current merged snapshot.
func (b *Broadcaster) Snapshot() models.TelemetrySnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot
}

// Subscribe registers a listener and synchronously delivers the current
// snapshot to it before returning. The returned handle removes the listener.
func (b *Broadcaster) Subscribe(listener func(models.TelemetrySnapshot)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = listener
	current := b.snapshot
	b.mu.Unlock()

	listener(current)

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Publish merges the partial update into the snapshot and notifies every
// listener with the merged result. Nil fields of the update leave the
// snapshot untouched.
func (b *Broadcaster) Publish(update models.TelemetryUpdate) {
	b.mu.Lock()
	if update.Status != nil {
		b.snapshot.Status = *update.Status
	}
	if update.QueueSize != nil {
		b.snapshot.QueueSize = *update.QueueSize
	}
	if update.LastSync != nil {
		ts := *update.LastSync
		b.snapshot.LastSync = &ts
	}
	if update.LastError != nil {
		b.snapshot.LastError = *update.LastError
	}

	merged := b.snapshot
	notify := make([]func(models.TelemetrySnapshot), 0, len(b.listeners))
	for _, l := range b.listeners {
		notify = append(notify, l)
	}
	b.mu.Unlock()

	b.logger.Debug().
		Str("status", string(merged.Status)).
		Int64("queue_size", merged.QueueSize).
		Msg("telemetry published")

	for _, l := range notify {
		l(merged)
	}
}

// Helpers for building partial updates without local pointer plumbing at
// every publish site.

// StatusUpdate returns an update that only changes the engine state.
func StatusUpdate(state models.SyncState) models.TelemetryUpdate {
	return models.TelemetryUpdate{Status: &state}
}

// QueueSizeUpdate returns an update that only changes the queue size.
func QueueSizeUpdate(size int64) models.TelemetryUpdate {
	return models.TelemetryUpdate{QueueSize: &size}
}
