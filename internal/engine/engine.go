// Package engine assembles the offline-first sync subsystem behind a single
// facade: the mutation queue, the encrypted local store, the connectivity
// monitor, the sync orchestrator, and the telemetry broadcaster.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workix/fieldsync/internal/adapter"
	"github.com/workix/fieldsync/internal/config"
	"github.com/workix/fieldsync/internal/crypto"
	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/internal/netmon"
	"github.com/workix/fieldsync/internal/service"
	"github.com/workix/fieldsync/internal/store"
	"github.com/workix/fieldsync/internal/telemetry"
	"github.com/workix/fieldsync/internal/workers"
	"github.com/workix/fieldsync/models"
)

// Cipher labels giving the queue and the entity cache independent subkeys.
const (
	queueCipherLabel = "queue"
	cacheCipherLabel = "entity-cache"
)

// Dependencies are the injected building blocks of an Engine. Everything is
// explicit; the engine keeps no package-level state.
type Dependencies struct {
	Storages  *store.Storages
	Secrets   crypto.SecretStore
	Transport adapter.RemoteTransport
	Source    netmon.Source
	Sync      config.Sync
	Logger    *logger.Logger
}

// Engine is the device-side sync subsystem of the Workix field-service
// platform. Construct with New, start background work with Run, release
// resources with Close.
type Engine struct {
	queue     service.QueueService
	cache     service.CacheService
	sync      service.SyncService
	syncJob   service.SyncJob
	monitor   *netmon.Monitor
	source    netmon.Source
	transport adapter.RemoteTransport
	storages  *store.Storages
	telemetry *telemetry.Broadcaster
	logger    *logger.Logger

	syncInterval time.Duration
	unsubscribe  func()
}

// New wires an Engine from its dependencies.
func New(deps Dependencies) (*Engine, error) {
	switch {
	case deps.Storages == nil:
		return nil, errors.New("engine: storages are required")
	case deps.Secrets == nil:
		return nil, errors.New("engine: secret store is required")
	case deps.Transport == nil:
		return nil, errors.New("engine: remote transport is required")
	case deps.Source == nil:
		return nil, errors.New("engine: connectivity source is required")
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	provider := crypto.NewKeyProvider(deps.Secrets)
	queueCipher := crypto.NewPayloadCipher(provider, queueCipherLabel)
	cacheCipher := crypto.NewPayloadCipher(provider, cacheCipherLabel)

	broadcast := telemetry.NewBroadcaster(log)
	monitor := netmon.NewMonitor(deps.Source, log)
	queue := service.NewQueueService(deps.Storages, queueCipher, cacheCipher, broadcast, log)
	syncSvc := service.NewSyncService(queue, deps.Storages, deps.Transport, cacheCipher, monitor, broadcast, service.SyncConfig{
		Entities:      deps.Sync.Entities,
		PullBatchSize: deps.Sync.PullBatchSize,
	}, log)

	return &Engine{
		queue:        queue,
		cache:        service.NewCacheService(deps.Storages, cacheCipher),
		sync:         syncSvc,
		syncJob:      service.NewSyncJob(syncSvc, log),
		monitor:      monitor,
		source:       deps.Source,
		transport:    deps.Transport,
		storages:     deps.Storages,
		telemetry:    broadcast,
		logger:       log,
		syncInterval: deps.Sync.Interval,
	}, nil
}

// Run starts the background machinery: the connectivity monitor, the
// periodic sync ticker, and (when the source is a runnable worker, like the
// HTTP probe) the source's own poll loop. When the device is online an
// initial sync cycle is kicked off immediately.
func (e *Engine) Run(ctx context.Context) error {
	e.monitor.Start(ctx)
	e.unsubscribe = e.monitor.Subscribe(func(online bool) {
		if !online {
			e.telemetry.Publish(telemetry.StatusUpdate(models.StateOffline))
			return
		}
		go e.backgroundSync("connectivity regained")
	})

	if count, err := e.queue.PendingCount(ctx); err == nil {
		e.telemetry.Publish(telemetry.QueueSizeUpdate(count))
	}

	ws := []workers.Worker{&syncJobWorker{job: e.syncJob, ctx: ctx, interval: e.syncInterval}}
	if runnable, ok := e.source.(workers.Worker); ok {
		ws = append([]workers.Worker{runnable}, ws...)
	}
	workers.New(ws...).Run()

	if e.monitor.IsOnline() {
		go e.backgroundSync("startup")
	} else {
		e.telemetry.Publish(telemetry.StatusUpdate(models.StateOffline))
	}

	return nil
}

// Close stops background work and releases the local store. The engine must
// not be used afterwards.
func (e *Engine) Close() error {
	e.syncJob.Stop()
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.monitor.Stop()
	if stoppable, ok := e.source.(interface{ Stop() }); ok {
		stoppable.Stop()
	}
	return e.storages.Close()
}

// EnqueueMutation records one offline write. When the device is online the
// mutation is first attempted directly against the backend; only transient
// failures fall back to the durable queue. Permanent rejections are returned
// to the caller immediately and nothing is queued.
func (e *Engine) EnqueueMutation(ctx context.Context, req models.MutationRequest) (models.QueuedMutation, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	if e.monitor.IsOnline() {
		applied, err := e.sendDirect(ctx, req)
		if err != nil {
			return models.QueuedMutation{}, err
		}
		if applied.RequestID != "" {
			return applied, nil
		}
		// Transient failure: fall through to the queue.
	}

	return e.queue.Enqueue(ctx, req)
}

// sendDirect tries to apply the mutation without queueing. Returns a
// completed row on success, a zero row when the caller should enqueue
// instead, and an error on permanent rejection.
func (e *Engine) sendDirect(ctx context.Context, req models.MutationRequest) (models.QueuedMutation, error) {
	body, err := json.Marshal(req.Payload)
	if err != nil {
		return models.QueuedMutation{}, fmt.Errorf("serialize mutation payload: %w", err)
	}

	execErr := e.transport.Execute(ctx, models.Mutation{
		RequestID: req.RequestID,
		Method:    req.Method,
		Target:    req.Target,
		Body:      body,
	})
	if execErr == nil {
		now := time.Now()
		return models.QueuedMutation{
			RequestID: req.RequestID,
			Method:    req.Method,
			Target:    req.Target,
			Status:    models.StatusCompleted,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if adapter.IsPermanent(execErr) {
		return models.QueuedMutation{}, fmt.Errorf("mutation rejected: %w", execErr)
	}

	e.logger.Warn().Err(execErr).Str("target", req.Target).Msg("direct send failed, queueing")
	return models.QueuedMutation{}, nil
}

// ForceSyncNow runs one sync cycle immediately and returns its report.
func (e *Engine) ForceSyncNow(ctx context.Context) (models.SyncReport, error) {
	return e.sync.SyncNow(ctx)
}

// GetSyncStatus returns the persisted outcome of the most recent cycle.
func (e *Engine) GetSyncStatus(ctx context.Context) (models.SyncStatus, error) {
	return e.sync.Status(ctx)
}

// SubscribeTelemetry registers a listener for sync telemetry. The current
// snapshot is delivered immediately; the handle removes the listener.
func (e *Engine) SubscribeTelemetry(listener func(models.TelemetrySnapshot)) (unsubscribe func()) {
	return e.telemetry.Subscribe(listener)
}

// GetCachedEntity returns one decrypted cached record for offline reads.
func (e *Engine) GetCachedEntity(ctx context.Context, id string) (models.EntitySnapshot, error) {
	return e.cache.GetCachedEntity(ctx, id)
}

// ListCachedEntities returns the decrypted cached records of one entity type.
func (e *Engine) ListCachedEntities(ctx context.Context, entityType string) ([]models.EntitySnapshot, error) {
	return e.cache.ListCachedEntities(ctx, entityType)
}

// PendingMutations returns the decrypted pending queue, oldest first.
func (e *Engine) PendingMutations(ctx context.Context) ([]models.Mutation, error) {
	return e.queue.DequeueAll(ctx)
}

// ClearOfflineData wipes the queue, the cache, and all sync bookkeeping.
// Used when the device is unenrolled.
func (e *Engine) ClearOfflineData(ctx context.Context) error {
	if err := e.storages.ClearOfflineData(ctx); err != nil {
		return err
	}
	e.telemetry.Publish(telemetry.QueueSizeUpdate(0))
	return nil
}

// backgroundSync runs one cycle on behalf of a trigger that has no caller to
// report to. Outcomes surface through telemetry.
func (e *Engine) backgroundSync(reason string) {
	e.logger.Info().Str("reason", reason).Msg("sync cycle triggered")
	if _, err := e.sync.SyncNow(context.Background()); err != nil {
		if errors.Is(err, service.ErrOffline) || errors.Is(err, service.ErrSyncInProgress) {
			return
		}
		e.logger.Warn().Err(err).Str("reason", reason).Msg("triggered sync cycle failed")
	}
}

// syncJobWorker adapts the sync ticker job to the workers aggregate.
type syncJobWorker struct {
	job      service.SyncJob
	ctx      context.Context
	interval time.Duration
}

func (w *syncJobWorker) Run() {
	w.job.Start(w.ctx, w.interval)
}
