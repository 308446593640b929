package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/workix/fieldsync/internal/config"
	"github.com/workix/fieldsync/internal/logger"
)

// NewConnectSQLite opens (creating if needed) the SQLite database backing
// the offline store and switches it to WAL journal mode so readers are not
// blocked during sync writes. Any failure here means the offline capability
// is unavailable; errors wrap [ErrStoreUnavailable].
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if cfg.DSN != ":memory:" {
		if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
			return nil, fmt.Errorf("%w: create database file: %w", ErrStoreUnavailable, err)
		}
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("%w: open connection: %w", ErrStoreUnavailable, err)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("%w: ping: %w", ErrStoreUnavailable, err)
	}

	if _, err = conn.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error enabling WAL mode")
		return nil, fmt.Errorf("%w: enable WAL: %w", ErrStoreUnavailable, err)
	}

	log.Debug().Str("func", "NewConnectSQLite").Str("dsn", cfg.DSN).Msg("connected to database successfully")

	return &DB{DB: conn, logger: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
