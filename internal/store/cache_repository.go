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

type entityCacheRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityCacheRepository constructs the SQLite-backed
// [EntityCacheRepository].
func NewEntityCacheRepository(db *DB, logger *logger.Logger) EntityCacheRepository {
	return &entityCacheRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *entityCacheRepository) UpsertEntity(ctx context.Context, e models.CachedEntity) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, upsertEntity,
		e.ID,
		e.Payload,
		e.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "entityCacheRepository.UpsertEntity").
			Str("id", e.ID).
			Msg("failed to execute upsert for cached entity")
		return false, fmt.Errorf("failed to upsert cached entity (id=%s): %w", e.ID, err)
	}

	// The conflict clause skips writes that would move updated_at backwards;
	// zero affected rows means the stored snapshot won.
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read upsert result (id=%s): %w", e.ID, err)
	}

	return affected > 0, nil
}

func (r *entityCacheRepository) GetEntity(ctx context.Context, id string) (models.CachedEntity, error) {
	log := logger.FromContext(ctx)

	var (
		item      models.CachedEntity
		updatedAt int64
	)
	err := r.DB.QueryRowContext(ctx, getEntity, id).Scan(&item.ID, &item.Payload, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CachedEntity{}, ErrEntityNotFound
		}
		log.Err(err).
			Str("func", "entityCacheRepository.GetEntity").
			Str("id", id).
			Msg("failed to scan cached entity row")
		return models.CachedEntity{}, fmt.Errorf("failed to scan cached entity row: %w", err)
	}

	item.UpdatedAt = time.UnixMilli(updatedAt)
	return item, nil
}

func (r *entityCacheRepository) ListEntities(ctx context.Context, entityType string) ([]models.CachedEntity, error) {
	log := logger.FromContext(ctx)

	// Cache ids are logical resource paths ("work-orders/42"), so an
	// entity type maps to a path prefix.
	query, args, err := sq.Select("id", "payload", "updated_at").
		From("entity_cache").
		Where(sq.Like{"id": entityType + "/%"}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build entity cache list query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityCacheRepository.ListEntities").
			Str("entity_type", entityType).
			Msg("failed to execute query for listing cached entities")
		return nil, fmt.Errorf("failed to query cached entities: %w", err)
	}
	defer rows.Close()

	var items []models.CachedEntity

	for rows.Next() {
		var (
			item      models.CachedEntity
			updatedAt int64
		)
		if scanErr := rows.Scan(&item.ID, &item.Payload, &updatedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "entityCacheRepository.ListEntities").
				Msg("failed to scan cached entity row")
			return nil, fmt.Errorf("failed to scan cached entity row: %w", scanErr)
		}
		item.UpdatedAt = time.UnixMilli(updatedAt)
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "entityCacheRepository.ListEntities").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating cached entity rows: %w", rowsErr)
	}

	return items, nil
}
