package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workix/fieldsync/internal/crypto"
	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/internal/store"
	"github.com/workix/fieldsync/internal/telemetry"
	"github.com/workix/fieldsync/models"
)

type queueService struct {
	queue       store.QueueRepository
	cache       store.EntityCacheRepository
	queueCipher crypto.CipherService
	cacheCipher crypto.CipherService
	telemetry   *telemetry.Broadcaster
	logger      *logger.Logger
	now         func() time.Time
}

// NewQueueService wires the mutation queue manager. queueCipher seals queue
// payloads, cacheCipher seals the optimistic cache write-through of update
// mutations.
func NewQueueService(storages *store.Storages, queueCipher, cacheCipher crypto.CipherService, broadcaster *telemetry.Broadcaster, log *logger.Logger) QueueService {
	return &queueService{
		queue:       storages.Queue,
		cache:       storages.EntityCache,
		queueCipher: queueCipher,
		cacheCipher: cacheCipher,
		telemetry:   broadcaster,
		logger:      log,
		now:         time.Now,
	}
}

func (s *queueService) Enqueue(ctx context.Context, req models.MutationRequest) (models.QueuedMutation, error) {
	if req.Target == "" {
		return models.QueuedMutation{}, fmt.Errorf("%w: target is required", ErrInvalidMutation)
	}
	if !req.Method.Valid() {
		return models.QueuedMutation{}, fmt.Errorf("%w: unknown method %q", ErrInvalidMutation, req.Method)
	}

	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	}

	ciphertext, err := s.queueCipher.Encrypt(ctx, req.Payload)
	if err != nil {
		return models.QueuedMutation{}, fmt.Errorf("encrypt mutation payload: %w", err)
	}

	now := s.now()
	if err = s.queue.UpsertMutation(ctx, models.QueuedMutation{
		RequestID: id,
		Method:    req.Method,
		Target:    req.Target,
		Payload:   ciphertext,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return models.QueuedMutation{}, fmt.Errorf("enqueue mutation %s: %w", id, err)
	}

	if req.Method == models.MethodUpdate {
		s.writeThroughCache(ctx, req.Target, req.Payload, now)
	}

	s.publishQueueSize(ctx)

	// The upsert preserves retries and created_at of a prior row, so the
	// stored row is re-read rather than echoed back.
	stored, err := s.queue.GetMutation(ctx, id)
	if err != nil {
		return models.QueuedMutation{}, fmt.Errorf("read back mutation %s: %w", id, err)
	}
	return stored, nil
}

func (s *queueService) DequeueAll(ctx context.Context) ([]models.Mutation, error) {
	rows, err := s.queue.ListMutations(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending mutations: %w", err)
	}

	mutations := make([]models.Mutation, 0, len(rows))
	for _, row := range rows {
		var body json.RawMessage
		if err = s.queueCipher.Decrypt(ctx, row.Payload, &body); err != nil {
			if errors.Is(err, crypto.ErrCipher) {
				s.quarantine(ctx, row, err)
				continue
			}
			return nil, fmt.Errorf("decrypt mutation %s: %w", row.RequestID, err)
		}

		mutations = append(mutations, models.Mutation{
			RequestID: row.RequestID,
			Method:    row.Method,
			Target:    row.Target,
			Body:      body,
			Retries:   row.Retries,
			CreatedAt: row.CreatedAt,
		})
	}

	return mutations, nil
}

func (s *queueService) MarkCompleted(ctx context.Context, requestID string) error {
	if err := s.queue.DeleteMutation(ctx, requestID); err != nil {
		return fmt.Errorf("complete mutation %s: %w", requestID, err)
	}
	s.publishQueueSize(ctx)
	return nil
}

func (s *queueService) MarkFailed(ctx context.Context, requestID string, cause error, terminal bool) error {
	text := ""
	if cause != nil {
		text = cause.Error()
	}
	if err := s.queue.MarkMutationFailed(ctx, requestID, text, terminal, s.now()); err != nil {
		return fmt.Errorf("mark mutation %s failed: %w", requestID, err)
	}
	s.publishQueueSize(ctx)
	return nil
}

func (s *queueService) PendingCount(ctx context.Context) (int64, error) {
	return s.queue.CountPending(ctx)
}

func (s *queueService) PendingTargets(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.queue.ListMutations(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending targets: %w", err)
	}
	targets := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		targets[row.Target] = struct{}{}
	}
	return targets, nil
}

// writeThroughCache records the optimistic local view of an updated record
// so offline reads reflect the technician's own edit. Failures are logged
// only: the queue row is the durable artifact, the cache a convenience.
func (s *queueService) writeThroughCache(ctx context.Context, target string, payload any, now time.Time) {
	ciphertext, err := s.cacheCipher.Encrypt(ctx, payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("target", target).Msg("optimistic cache write skipped")
		return
	}
	if _, err = s.cache.UpsertEntity(ctx, models.CachedEntity{
		ID:        target,
		Payload:   ciphertext,
		UpdatedAt: now,
	}); err != nil {
		s.logger.Warn().Err(err).Str("target", target).Msg("optimistic cache write failed")
	}
}

// quarantine parks a row whose ciphertext no longer decrypts. A poisoned
// payload can never be pushed, so the row becomes terminally failed with the
// decryption error recorded.
func (s *queueService) quarantine(ctx context.Context, row models.QueuedMutation, cause error) {
	s.logger.Warn().Err(cause).
		Str("request_id", row.RequestID).
		Msg("queued payload unreadable, quarantining")

	if err := s.queue.MarkMutationFailed(ctx, row.RequestID, cause.Error(), true, s.now()); err != nil {
		s.logger.Error().Err(err).
			Str("request_id", row.RequestID).
			Msg("failed to quarantine unreadable mutation")
	}
}

func (s *queueService) publishQueueSize(ctx context.Context) {
	count, err := s.queue.CountPending(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("queue size telemetry skipped")
		return
	}
	s.telemetry.Publish(telemetry.QueueSizeUpdate(count))
}
