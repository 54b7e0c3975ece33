// Package storage opens the snapshot repository selected by configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fbm-tools-backend/internal/config"
	"fbm-tools-backend/internal/logger"
	"fbm-tools-backend/internal/repository"
	"fbm-tools-backend/internal/repository/filestore"
	"fbm-tools-backend/internal/repository/sqlstore"
)

// Backend is an opened snapshot repository together with the resources it
// holds.
type Backend struct {
	Type string
	Repo repository.SnapshotRepository
	db   *sql.DB
}

// Open connects to the configured storage backend. SQL backends are
// migrated before use.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Type {
	case config.StorageFile:
		logger.Info("Using file storage", "data_dir", cfg.Storage.DataDir)
		return &Backend{Type: cfg.Storage.Type, Repo: filestore.New(cfg.Storage.DataDir)}, nil

	case config.StoragePostgres:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sqlstore.OpenPostgres(ctx, cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return migrated(ctx, cfg.Storage.Type, db, sqlstore.Postgres)

	case config.StorageSQLite:
		logger.Info("Opening SQLite database", "path", cfg.Storage.SQLitePath)
		db, err := sqlstore.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return migrated(ctx, cfg.Storage.Type, db, sqlstore.SQLite)
	}
	return nil, fmt.Errorf("unsupported storage type: %q", cfg.Storage.Type)
}

func migrated(ctx context.Context, typ string, db *sql.DB, dialect sqlstore.Dialect) (*Backend, error) {
	store := sqlstore.New(db, dialect)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s schema: %w", dialect.Name, err)
	}
	logger.Info("Database connection established", "dialect", dialect.Name)
	return &Backend{Type: typ, Repo: store, db: db}, nil
}

// Close releases the database connection, if any.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
