package store

import (
	"context"
	"fmt"

	"github.com/workix/fieldsync/internal/config"
	"github.com/workix/fieldsync/internal/logger"
)

// Storages groups all offline-store repositories into a single value that
// can be passed around the service layer.
type Storages struct {
	// Queue is the durable mutation queue.
	Queue QueueRepository
	// EntityCache is the local read replica of server-owned records.
	EntityCache EntityCacheRepository
	// Metadata is the singleton-per-key record store for sync bookkeeping.
	Metadata MetadataRepository

	db *DB
}

// NewStorages initialises the offline storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Storages] value wired to fresh
//     repositories.
//
// Any failure is fatal to the offline subsystem and wraps
// [ErrStoreUnavailable].
func NewStorages(cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating offline storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("%w: migration failed: %w", ErrStoreUnavailable, err)
	}

	return &Storages{
		Queue:       NewQueueRepository(db, logger),
		EntityCache: NewEntityCacheRepository(db, logger),
		Metadata:    NewMetadataRepository(db, logger),
		db:          db,
	}, nil
}

// ClearOfflineData wipes the queue, the entity cache, and all metadata.
// Used when the device is unenrolled or the technician signs out for good.
func (s *Storages) ClearOfflineData(ctx context.Context) error {
	for _, stmt := range []string{
		"DELETE FROM queue;",
		"DELETE FROM entity_cache;",
		"DELETE FROM metadata;",
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear offline data: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}
