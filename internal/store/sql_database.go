package store

import (
	"database/sql"

	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/migrations"
)

// DB wraps the raw connection so repositories share one handle and the
// migration entry point.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate applies pending schema migrations to the local database.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
