package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/workix/fieldsync/internal/logger"
)

type metadataRepository struct {
	*DB
	logger *logger.Logger
}

// NewMetadataRepository constructs the SQLite-backed [MetadataRepository].
func NewMetadataRepository(db *DB, logger *logger.Logger) MetadataRepository {
	return &metadataRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *metadataRepository) SetValue(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, setMetadataValue, key, value)
	if err != nil {
		log.Err(err).
			Str("func", "metadataRepository.SetValue").
			Str("key", key).
			Msg("failed to execute upsert for metadata value")
		return fmt.Errorf("failed to set metadata value (key=%s): %w", key, err)
	}

	return nil
}

func (r *metadataRepository) GetValue(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	var value string
	err := r.DB.QueryRowContext(ctx, getMetadataValue, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMetadataNotFound
		}
		log.Err(err).
			Str("func", "metadataRepository.GetValue").
			Str("key", key).
			Msg("failed to scan metadata row")
		return "", fmt.Errorf("failed to scan metadata row: %w", err)
	}

	return value, nil
}
