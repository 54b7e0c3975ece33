// Package sqlstore keeps the ledger snapshot as a single JSON document row
// in PostgreSQL or SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
	"fbm-tools-backend/internal/repository"
)

const (
	snapshotTable = "ledger_snapshots"
	snapshotRowID = 1
)

// Dialect captures the differences between the supported databases.
type Dialect struct {
	Name        string
	Placeholder sq.PlaceholderFormat
	Schema      string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: sq.Dollar,
		Schema: `CREATE TABLE IF NOT EXISTS ledger_snapshots (
  id INTEGER PRIMARY KEY,
  document JSONB NOT NULL,
  updated_on TIMESTAMPTZ NOT NULL
)`,
	}
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: sq.Question,
		Schema: `CREATE TABLE IF NOT EXISTS ledger_snapshots (
  id INTEGER PRIMARY KEY,
  document TEXT NOT NULL,
  updated_on TIMESTAMP NOT NULL
)`,
	}
)

type Store struct {
	db      *sql.DB
	dialect Dialect
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ repository.SnapshotRepository = (*Store)(nil)

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
		now:     time.Now,
	}
}

// OpenPostgres connects with lib/pq and checks the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// OpenSQLite opens the database file with WAL journaling. SQLite allows one
// writer, so the pool is limited to a single connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate creates the snapshot table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	logger.DatabaseCall("migrate", s.dialect.Schema, "dialect", s.dialect.Name)
	_, err := s.db.ExecContext(ctx, s.dialect.Schema)
	logger.DatabaseResult("migrate", 0, err, "dialect", s.dialect.Name)
	if err != nil {
		return fmt.Errorf("create %s: %w", snapshotTable, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	logger.EnterMethod("sqlstore.Load", "dialect", s.dialect.Name)

	query, args, err := s.builder.Select("document").
		From(snapshotTable).
		Where(sq.Eq{"id": snapshotRowID}).
		ToSql()
	if err != nil {
		logger.ExitMethodWithError("sqlstore.Load", err)
		return nil, fmt.Errorf("build load query: %w", err)
	}

	logger.DatabaseCall("select", query)
	var document []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("select", 0, nil)
		snap := &domain.Snapshot{}
		snap.Normalize()
		logger.ExitMethod("sqlstore.Load", "empty", true)
		return snap, nil
	}
	logger.DatabaseResult("select", 1, err)
	if err != nil {
		logger.ExitMethodWithError("sqlstore.Load", err)
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	snap := &domain.Snapshot{}
	if err := json.Unmarshal(document, snap); err != nil {
		logger.ExitMethodWithError("sqlstore.Load", err)
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()

	logger.ExitMethod("sqlstore.Load", "tools", len(snap.Tools), "rentals", len(snap.Rentals))
	return snap, nil
}

// Save upserts the snapshot row.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	logger.EnterMethod("sqlstore.Save", "dialect", s.dialect.Name)

	snap := snapshot.Clone()
	snap.Normalize()
	document, err := json.Marshal(snap)
	if err != nil {
		logger.ExitMethodWithError("sqlstore.Save", err)
		return fmt.Errorf("encode snapshot: %w", err)
	}

	query, args, err := s.builder.Insert(snapshotTable).
		Columns("id", "document", "updated_on").
		Values(snapshotRowID, string(document), s.now().UTC()).
		Suffix("ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_on = EXCLUDED.updated_on").
		ToSql()
	if err != nil {
		logger.ExitMethodWithError("sqlstore.Save", err)
		return fmt.Errorf("build save query: %w", err)
	}

	logger.DatabaseCall("upsert", query)
	res, err := s.db.ExecContext(ctx, query, args...)
	var rows int64
	if err == nil {
		rows, _ = res.RowsAffected()
	}
	logger.DatabaseResult("upsert", rows, err)
	if err != nil {
		logger.ExitMethodWithError("sqlstore.Save", err)
		return fmt.Errorf("save snapshot: %w", err)
	}

	logger.ExitMethod("sqlstore.Save", "bytes", len(document))
	return nil
}
