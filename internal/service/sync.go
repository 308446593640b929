package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/workix/fieldsync/internal/adapter"
	"github.com/workix/fieldsync/internal/crypto"
	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/internal/store"
	"github.com/workix/fieldsync/internal/telemetry"
	"github.com/workix/fieldsync/models"
)

// Metadata keys owned by the orchestrator.
const (
	syncStatusKey    = "sync_status"
	pullWatermarkKey = "last_pull:" // + entity type
)

// ConnectivityProbe is the orchestrator's view of the network monitor.
type ConnectivityProbe interface {
	IsOnline() bool
}

// SyncConfig carries the cycle settings from the agent configuration.
type SyncConfig struct {
	// Entities lists the entity types pulled each cycle, in order.
	Entities []string
	// PullBatchSize caps one pull request. Zero falls back to 50.
	PullBatchSize int
}

type syncService struct {
	queue       QueueService
	cache       store.EntityCacheRepository
	metadata    store.MetadataRepository
	transport   adapter.RemoteTransport
	cacheCipher crypto.CipherService
	probe       ConnectivityProbe
	telemetry   *telemetry.Broadcaster
	logger      *logger.Logger
	cfg         SyncConfig
	now         func() time.Time

	inFlight atomic.Bool
}

// NewSyncService wires the sync orchestrator.
func NewSyncService(
	queue QueueService,
	storages *store.Storages,
	transport adapter.RemoteTransport,
	cacheCipher crypto.CipherService,
	probe ConnectivityProbe,
	broadcaster *telemetry.Broadcaster,
	cfg SyncConfig,
	log *logger.Logger,
) SyncService {
	if cfg.PullBatchSize <= 0 {
		cfg.PullBatchSize = 50
	}
	return &syncService{
		queue:       queue,
		cache:       storages.EntityCache,
		metadata:    storages.Metadata,
		transport:   transport,
		cacheCipher: cacheCipher,
		probe:       probe,
		telemetry:   broadcaster,
		logger:      log,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SyncNow implements [SyncService]. One cycle is push then pull; per-item
// and per-entity failures are isolated and recorded, only a wholesale store
// failure aborts the cycle.
func (s *syncService) SyncNow(ctx context.Context) (models.SyncReport, error) {
	if !s.probe.IsOnline() {
		s.telemetry.Publish(telemetry.StatusUpdate(models.StateOffline))
		return models.SyncReport{}, ErrOffline
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return models.SyncReport{}, ErrSyncInProgress
	}
	defer s.inFlight.Store(false)

	s.telemetry.Publish(telemetry.StatusUpdate(models.StateSyncing))
	started := s.now()
	s.logger.Info().Msg("sync cycle started")

	var report models.SyncReport
	var failed int64
	var lastError string

	pushed, pushFailed, pushErr, err := s.push(ctx)
	if err != nil {
		s.finish(ctx, started, report, failed, err.Error(), true)
		return report, err
	}
	report.Pushed = pushed
	failed = pushFailed
	if pushErr != "" {
		lastError = pushErr
	}

	pulled, conflicts, pullErr := s.pull(ctx)
	report.Pulled = pulled
	report.Conflicts = conflicts
	if pullErr != "" {
		lastError = pullErr
	}

	s.finish(ctx, started, report, failed, lastError, false)

	s.logger.Info().
		Int64("pushed", report.Pushed).
		Int64("pulled", report.Pulled).
		Int64("conflicts", report.Conflicts).
		Int64("failed", failed).
		Msg("sync cycle finished")

	return report, nil
}

// Status implements [SyncService].
func (s *syncService) Status(ctx context.Context) (models.SyncStatus, error) {
	raw, err := s.metadata.GetValue(ctx, syncStatusKey)
	if errors.Is(err, store.ErrMetadataNotFound) {
		return models.SyncStatus{}, nil
	}
	if err != nil {
		return models.SyncStatus{}, fmt.Errorf("read sync status: %w", err)
	}

	var status models.SyncStatus
	if err = json.Unmarshal([]byte(raw), &status); err != nil {
		return models.SyncStatus{}, fmt.Errorf("decode sync status: %w", err)
	}
	return status, nil
}

// push drains the pending queue FIFO. Returns the number of confirmed
// mutations, the number of failed attempts this cycle (terminal or not),
// the last recorded error text, and a non-nil error only when the queue
// itself is unreadable.
func (s *syncService) push(ctx context.Context) (pushed, failed int64, lastError string, err error) {
	mutations, err := s.queue.DequeueAll(ctx)
	if err != nil {
		return 0, 0, "", fmt.Errorf("drain queue: %w", err)
	}

	for _, m := range mutations {
		execErr := s.transport.Execute(ctx, m)
		switch {
		case execErr == nil:
			if err := s.queue.MarkCompleted(ctx, m.RequestID); err != nil {
				s.logger.Error().Err(err).Str("request_id", m.RequestID).Msg("confirmed mutation not removed")
				lastError = err.Error()
				continue
			}
			pushed++

		case adapter.IsPermanent(execErr):
			s.logger.Warn().Err(execErr).
				Str("request_id", m.RequestID).
				Str("target", m.Target).
				Msg("mutation rejected permanently")
			if err := s.queue.MarkFailed(ctx, m.RequestID, execErr, true); err != nil {
				s.logger.Error().Err(err).Str("request_id", m.RequestID).Msg("failed to park rejected mutation")
			}
			failed++
			lastError = execErr.Error()

		default:
			// Transient or connectivity failure: the row stays pending for
			// the next cycle with the retry recorded.
			s.logger.Warn().Err(execErr).
				Str("request_id", m.RequestID).
				Str("target", m.Target).
				Msg("mutation push failed, will retry")
			if err := s.queue.MarkFailed(ctx, m.RequestID, execErr, false); err != nil {
				s.logger.Error().Err(err).Str("request_id", m.RequestID).Msg("failed to record push retry")
			}
			failed++
			lastError = execErr.Error()
		}
	}

	return pushed, failed, lastError, nil
}

// pull refreshes the entity cache per configured entity type. Remote wins
// unless the record has a pending local mutation; then the remote snapshot
// is skipped and counted as a conflict.
func (s *syncService) pull(ctx context.Context) (pulled, conflicts int64, lastError string) {
	dirty, err := s.queue.PendingTargets(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("pull skipped, pending targets unreadable")
		return 0, 0, err.Error()
	}

	for _, entityType := range s.cfg.Entities {
		since := s.pullWatermark(ctx, entityType)

		snapshots, err := s.transport.FetchSnapshots(ctx, entityType, since, s.cfg.PullBatchSize)
		if err != nil {
			s.logger.Warn().Err(err).Str("entity", entityType).Msg("pull failed")
			lastError = err.Error()
			continue
		}

		watermark := since
		for _, snapshot := range snapshots {
			if _, pending := dirty[snapshot.ID]; pending {
				conflicts++
				s.logger.Info().Str("id", snapshot.ID).Msg("remote change conflicts with pending local mutation")
				continue
			}

			ciphertext, err := s.cacheCipher.Encrypt(ctx, json.RawMessage(snapshot.Payload))
			if err != nil {
				s.logger.Error().Err(err).Str("id", snapshot.ID).Msg("snapshot not cacheable")
				lastError = err.Error()
				continue
			}
			applied, err := s.cache.UpsertEntity(ctx, models.CachedEntity{
				ID:        snapshot.ID,
				Payload:   ciphertext,
				UpdatedAt: snapshot.UpdatedAt,
			})
			if err != nil {
				s.logger.Error().Err(err).Str("id", snapshot.ID).Msg("snapshot not cached")
				lastError = err.Error()
				continue
			}

			// A snapshot the timestamp guard rejected counts as seen for the
			// watermark but not as pulled.
			if applied {
				pulled++
			}
			if snapshot.UpdatedAt.After(watermark) {
				watermark = snapshot.UpdatedAt
			}
		}

		if watermark.After(since) {
			s.setPullWatermark(ctx, entityType, watermark)
		}
	}

	return pulled, conflicts, lastError
}

// finish persists the cycle outcome and publishes the final telemetry. A
// cycle that ran to completion lands idle even when individual items failed;
// aborted marks the wholesale-failure path, which lands in the error state.
func (s *syncService) finish(ctx context.Context, started time.Time, report models.SyncReport, failed int64, lastError string, aborted bool) {
	remaining, err := s.queue.PendingCount(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("remaining count unavailable")
		remaining = 0
	}

	status := models.SyncStatus{
		LastSync:  &started,
		Synced:    report.Pushed,
		Failed:    failed,
		Remaining: remaining,
		LastError: lastError,
	}
	if report.Pushed > 0 {
		status.LastPush = &started
	}

	if raw, err := json.Marshal(status); err == nil {
		if err = s.metadata.SetValue(ctx, syncStatusKey, string(raw)); err != nil {
			s.logger.Error().Err(err).Msg("sync status not persisted")
		}
	}

	state := models.StateIdle
	if aborted {
		state = models.StateError
	}
	s.telemetry.Publish(models.TelemetryUpdate{
		Status:    &state,
		QueueSize: &remaining,
		LastSync:  &started,
		LastError: &lastError,
	})
}

func (s *syncService) pullWatermark(ctx context.Context, entityType string) time.Time {
	raw, err := s.metadata.GetValue(ctx, pullWatermarkKey+entityType)
	if err != nil {
		if !errors.Is(err, store.ErrMetadataNotFound) {
			s.logger.Warn().Err(err).Str("entity", entityType).Msg("pull watermark unreadable, pulling full set")
		}
		return time.Time{}
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger.Warn().Str("entity", entityType).Str("value", raw).Msg("pull watermark malformed, pulling full set")
		return time.Time{}
	}
	return time.UnixMilli(millis)
}

func (s *syncService) setPullWatermark(ctx context.Context, entityType string, watermark time.Time) {
	value := strconv.FormatInt(watermark.UnixMilli(), 10)
	if err := s.metadata.SetValue(ctx, pullWatermarkKey+entityType, value); err != nil {
		s.logger.Warn().Err(err).Str("entity", entityType).Msg("pull watermark not persisted")
	}
}
