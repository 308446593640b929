package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/models"
)

type queueRepository struct {
	*DB
	logger *logger.Logger
}

// NewQueueRepository constructs the SQLite-backed [QueueRepository].
func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *queueRepository) UpsertMutation(ctx context.Context, m models.QueuedMutation) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, upsertMutation,
		m.RequestID,
		m.Method,
		m.Target,
		m.Payload,
		m.Retries,
		m.Status,
		nullableText(m.LastError),
		m.CreatedAt.UnixMilli(),
		m.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.UpsertMutation").
			Str("request_id", m.RequestID).
			Msg("failed to execute upsert for queued mutation")
		return fmt.Errorf("failed to upsert queued mutation (request_id=%s): %w", m.RequestID, err)
	}

	return nil
}

func (r *queueRepository) GetMutation(ctx context.Context, requestID string) (models.QueuedMutation, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, getMutation, requestID)

	item, err := scanQueuedMutation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QueuedMutation{}, ErrMutationNotFound
		}
		log.Err(err).
			Str("func", "queueRepository.GetMutation").
			Str("request_id", requestID).
			Msg("failed to scan queued mutation row")
		return models.QueuedMutation{}, fmt.Errorf("failed to scan queued mutation row: %w", err)
	}

	return item, nil
}

func (r *queueRepository) ListMutations(ctx context.Context, status models.MutationStatus) ([]models.QueuedMutation, error) {
	log := logger.FromContext(ctx)

	// FIFO by creation time: draining order must preserve the user's
	// causal intent when several edits target the same entity.
	query, args, err := sq.Select(queueColumns...).
		From("queue").
		Where(sq.Eq{"status": status}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build queue list query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.ListMutations").
			Str("status", string(status)).
			Msg("failed to execute query for listing queued mutations")
		return nil, fmt.Errorf("failed to query queued mutations: %w", err)
	}
	defer rows.Close()

	var items []models.QueuedMutation

	for rows.Next() {
		item, scanErr := scanQueuedMutation(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "queueRepository.ListMutations").
				Msg("failed to scan queued mutation row")
			return nil, fmt.Errorf("failed to scan queued mutation row: %w", scanErr)
		}
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "queueRepository.ListMutations").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating queued mutation rows: %w", rowsErr)
	}

	return items, nil
}

func (r *queueRepository) DeleteMutation(ctx context.Context, requestID string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, deleteMutation, requestID)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.DeleteMutation").
			Str("request_id", requestID).
			Msg("failed to execute delete for queued mutation")
		return fmt.Errorf("failed to delete queued mutation (request_id=%s): %w", requestID, err)
	}

	return nil
}

func (r *queueRepository) MarkMutationFailed(ctx context.Context, requestID, cause string, terminal bool, updatedAt time.Time) error {
	log := logger.FromContext(ctx)

	status := models.StatusPending
	if terminal {
		status = models.StatusFailed
	}

	result, err := r.DB.ExecContext(ctx, markMutationFailed,
		status,
		nullableText(cause),
		updatedAt.UnixMilli(),
		requestID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.MarkMutationFailed").
			Str("request_id", requestID).
			Msg("failed to execute failure update for queued mutation")
		return fmt.Errorf("failed to mark queued mutation failed (request_id=%s): %w", requestID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (request_id=%s): %w", requestID, err)
	}
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "queueRepository.MarkMutationFailed").
			Str("request_id", requestID).
			Msg("no rows affected during failure update: record not found")
		return fmt.Errorf("%w (request_id=%s)", ErrMutationNotFound, requestID)
	}

	return nil
}

func (r *queueRepository) CountPending(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("COUNT(*)").
		From("queue").
		Where(sq.Eq{"status": models.StatusPending}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build queue count query: %w", err)
	}

	var count int64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "queueRepository.CountPending").
			Msg("failed to count pending mutations")
		return 0, fmt.Errorf("failed to count pending mutations: %w", err)
	}

	return count, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQueuedMutation(row rowScanner) (models.QueuedMutation, error) {
	var (
		item      models.QueuedMutation
		lastError sql.NullString
		createdAt int64
		updatedAt int64
	)

	err := row.Scan(
		&item.RequestID,
		&item.Method,
		&item.Target,
		&item.Payload,
		&item.Retries,
		&item.Status,
		&lastError,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.QueuedMutation{}, err
	}

	item.LastError = lastError.String
	item.CreatedAt = time.UnixMilli(createdAt)
	item.UpdatedAt = time.UnixMilli(updatedAt)

	return item, nil
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
