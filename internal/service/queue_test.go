package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workix/fieldsync/internal/config"
	"github.com/workix/fieldsync/internal/crypto"
	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/internal/store"
	"github.com/workix/fieldsync/internal/telemetry"
	"github.com/workix/fieldsync/models"
)

// queueEnv assembles a queue service on a real SQLite file and a real
// cipher, the way the agent wires it.
type queueEnv struct {
	service   QueueService
	cache     CacheService
	storages  *store.Storages
	broadcast *telemetry.Broadcaster
}

func newQueueEnv(t *testing.T) *queueEnv {
	t.Helper()

	dir := t.TempDir()
	storages, err := store.NewStorages(config.Storage{
		DB:       config.DB{DSN: filepath.Join(dir, "offline.db")},
		StateDir: dir,
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	secrets, err := crypto.NewFileSecretStore(dir)
	require.NoError(t, err)
	provider := crypto.NewKeyProvider(secrets)
	queueCipher := crypto.NewPayloadCipher(provider, "queue")
	cacheCipher := crypto.NewPayloadCipher(provider, "entity-cache")

	broadcast := telemetry.NewBroadcaster(logger.Nop())
	svc := NewQueueService(storages, queueCipher, cacheCipher, broadcast, logger.Nop())

	// Deterministic strictly increasing clock so FIFO assertions do not
	// depend on sub-millisecond timing.
	base := time.Now().Truncate(time.Millisecond)
	var mu sync.Mutex
	var tick int64
	svc.(*queueService).now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}

	return &queueEnv{
		service:   svc,
		cache:     NewCacheService(storages, cacheCipher),
		storages:  storages,
		broadcast: broadcast,
	}
}

func TestQueueService_EnqueueAssignsRequestID(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	stored, err := env.service.Enqueue(ctx, models.MutationRequest{
		Method:  models.MethodCreate,
		Target:  "work-orders",
		Payload: map[string]any{"status": "completed"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, stored.RequestID)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.NotContains(t, stored.Payload, "completed", "payload must be stored encrypted")
	assert.EqualValues(t, 1, env.broadcast.Snapshot().QueueSize)
}

func TestQueueService_EnqueueValidation(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	_, err := env.service.Enqueue(ctx, models.MutationRequest{Method: models.MethodCreate})
	assert.ErrorIs(t, err, ErrInvalidMutation)

	_, err = env.service.Enqueue(ctx, models.MutationRequest{Method: "patch", Target: "work-orders/42"})
	assert.ErrorIs(t, err, ErrInvalidMutation)
}

func TestQueueService_ReEnqueuePreservesRetries(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	first, err := env.service.Enqueue(ctx, models.MutationRequest{
		RequestID: "req-1",
		Method:    models.MethodUpdate,
		Target:    "work-orders/42",
		Payload:   map[string]any{"status": "en_route"},
	})
	require.NoError(t, err)

	require.NoError(t, env.service.MarkFailed(ctx, "req-1", assert.AnError, false))
	require.NoError(t, env.service.MarkFailed(ctx, "req-1", assert.AnError, false))

	second, err := env.service.Enqueue(ctx, models.MutationRequest{
		RequestID: "req-1",
		Method:    models.MethodUpdate,
		Target:    "work-orders/42",
		Payload:   map[string]any{"status": "completed"},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 2, second.Retries, "retries accumulated across re-enqueue")
	assert.Equal(t, models.StatusPending, second.Status)
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "created_at keeps the original enqueue time")

	count, err := env.service.PendingCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "re-enqueue must not duplicate the row")
}

func TestQueueService_DequeueAllIsFIFOAndDecrypted(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	for i, target := range []string{"work-orders/1", "work-orders/2", "assets/3"} {
		_, err := env.service.Enqueue(ctx, models.MutationRequest{
			Method:  models.MethodUpdate,
			Target:  target,
			Payload: map[string]any{"seq": i},
		})
		require.NoError(t, err)
	}

	mutations, err := env.service.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, mutations, 3)

	for i, m := range mutations {
		assert.JSONEq(t, fmt.Sprintf(`{"seq":%d}`, i), string(m.Body))
	}
	assert.Equal(t, "work-orders/1", mutations[0].Target)
	assert.Equal(t, "work-orders/2", mutations[1].Target)
	assert.Equal(t, "assets/3", mutations[2].Target)
}

func TestQueueService_QuarantinesUnreadablePayload(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	_, err := env.service.Enqueue(ctx, models.MutationRequest{
		Method:  models.MethodCreate,
		Target:  "work-orders",
		Payload: map[string]any{"ok": true},
	})
	require.NoError(t, err)

	// A row whose ciphertext was corrupted on disk.
	now := time.Now().Truncate(time.Millisecond)
	require.NoError(t, env.storages.Queue.UpsertMutation(ctx, models.QueuedMutation{
		RequestID: "poisoned",
		Method:    models.MethodUpdate,
		Target:    "work-orders/13",
		Payload:   "not even base64 !!",
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	mutations, err := env.service.DequeueAll(ctx)
	require.NoError(t, err)
	require.Len(t, mutations, 1, "poisoned row is skipped")
	assert.Equal(t, "work-orders", mutations[0].Target)

	row, err := env.storages.Queue.GetMutation(ctx, "poisoned")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, row.Status, "poisoned row is parked terminally")
	assert.NotEmpty(t, row.LastError)

	again, err := env.service.DequeueAll(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 1, "quarantined row never reappears")
}

func TestQueueService_MarkCompletedRemovesRow(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	stored, err := env.service.Enqueue(ctx, models.MutationRequest{
		Method:  models.MethodDelete,
		Target:  "assets/9",
		Payload: nil,
	})
	require.NoError(t, err)

	require.NoError(t, env.service.MarkCompleted(ctx, stored.RequestID))

	count, err := env.service.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, env.broadcast.Snapshot().QueueSize)
}

func TestQueueService_PendingTargets(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	_, err := env.service.Enqueue(ctx, models.MutationRequest{
		Method: models.MethodUpdate, Target: "work-orders/42", Payload: map[string]any{"a": 1},
	})
	require.NoError(t, err)
	_, err = env.service.Enqueue(ctx, models.MutationRequest{
		Method: models.MethodUpdate, Target: "sites/7", Payload: map[string]any{"b": 2},
	})
	require.NoError(t, err)

	targets, err := env.service.PendingTargets(ctx)
	require.NoError(t, err)
	assert.Len(t, targets, 2)
	assert.Contains(t, targets, "work-orders/42")
	assert.Contains(t, targets, "sites/7")
}

func TestQueueService_UpdateWritesThroughCache(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	payload := map[string]any{"status": "completed", "notes": "замена фильтра"}
	_, err := env.service.Enqueue(ctx, models.MutationRequest{
		Method:  models.MethodUpdate,
		Target:  "work-orders/42",
		Payload: payload,
	})
	require.NoError(t, err)

	snapshot, err := env.cache.GetCachedEntity(ctx, "work-orders/42")
	require.NoError(t, err)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(snapshot.Payload), "offline reads see the technician's own edit")
}

func TestCacheService_DecryptFailurePropagates(t *testing.T) {
	env := newQueueEnv(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Millisecond)
	_, err := env.storages.EntityCache.UpsertEntity(ctx, models.CachedEntity{
		ID:        "work-orders/99",
		Payload:   "garbage",
		UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = env.cache.GetCachedEntity(ctx, "work-orders/99")
	require.Error(t, err)
	assert.ErrorIs(t, err, crypto.ErrCipher)
}
