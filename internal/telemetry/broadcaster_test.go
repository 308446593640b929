package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/models"
)

func TestBroadcaster_SubscribeDeliversCurrentSnapshot(t *testing.T) {
	b := NewBroadcaster(logger.Nop())
	b.Publish(QueueSizeUpdate(3))

	var got []models.TelemetrySnapshot
	unsubscribe := b.Subscribe(func(s models.TelemetrySnapshot) {
		got = append(got, s)
	})
	defer unsubscribe()

	require.Len(t, got, 1, "subscriber receives snapshot immediately")
	assert.Equal(t, models.StateIdle, got[0].Status)
	assert.EqualValues(t, 3, got[0].QueueSize)
}

func TestBroadcaster_PartialUpdatesMerge(t *testing.T) {
	b := NewBroadcaster(logger.Nop())

	var got []models.TelemetrySnapshot
	unsubscribe := b.Subscribe(func(s models.TelemetrySnapshot) {
		got = append(got, s)
	})
	defer unsubscribe()

	now := time.Now()
	b.Publish(StatusUpdate(models.StateSyncing))
	b.Publish(QueueSizeUpdate(7))
	b.Publish(models.TelemetryUpdate{LastSync: &now})

	require.Len(t, got, 4) // initial + 3 updates
	last := got[3]
	assert.Equal(t, models.StateSyncing, last.Status, "status survives unrelated updates")
	assert.EqualValues(t, 7, last.QueueSize)
	require.NotNil(t, last.LastSync)
	assert.WithinDuration(t, now, *last.LastSync, time.Millisecond)
}

func TestBroadcaster_NilFieldsLeaveSnapshotUntouched(t *testing.T) {
	b := NewBroadcaster(logger.Nop())
	b.Publish(models.TelemetryUpdate{
		Status:    ptr(models.StateError),
		QueueSize: ptr(int64(5)),
		LastError: ptr("sync cycle failed"),
	})

	b.Publish(models.TelemetryUpdate{}) // no-op update

	s := b.Snapshot()
	assert.Equal(t, models.StateError, s.Status)
	assert.EqualValues(t, 5, s.QueueSize)
	assert.Equal(t, "sync cycle failed", s.LastError)
}

func TestBroadcaster_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroadcaster(logger.Nop())

	var calls int
	unsubscribe := b.Subscribe(func(models.TelemetrySnapshot) { calls++ })
	require.Equal(t, 1, calls)

	unsubscribe()
	b.Publish(QueueSizeUpdate(1))
	assert.Equal(t, 1, calls)
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	b := NewBroadcaster(logger.Nop())

	var a, c int64
	defer b.Subscribe(func(s models.TelemetrySnapshot) { a = s.QueueSize })()
	defer b.Subscribe(func(s models.TelemetrySnapshot) { c = s.QueueSize })()

	b.Publish(QueueSizeUpdate(9))
	assert.EqualValues(t, 9, a)
	assert.EqualValues(t, 9, c)
}

func ptr[T any](v T) *T { return &v }
