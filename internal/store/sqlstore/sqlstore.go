// Package sqlstore implements the store.Store interface backed by PostgreSQL
// or SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/alfredjeanlab/eventlog/internal/model"
	"github.com/alfredjeanlab/eventlog/internal/store"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// sqliteParams are appended to every SQLite DSN. Times are written in
// SQLite's own format so they sort and compare as text.
const sqliteParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

// SQLStore implements store.Store over a database/sql pool.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// Compile-time check that SQLStore implements store.Store.
var _ store.Store = (*SQLStore)(nil)

// New opens the database at databaseURL, configures the connection pool and
// runs any pending migrations. postgres:// (or postgresql://) URLs select
// PostgreSQL; sqlite://path selects SQLite, with sqlite://:memory: for an
// in-memory database.
func New(databaseURL string) (*SQLStore, error) {
	dialect, driver, dsn, err := parseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	switch dialect {
	case Postgres:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	case SQLite:
		// One connection serialises writers and keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLStore{db: db, dialect: dialect}, nil
}

// NewWithDB wraps an already migrated pool.
func NewWithDB(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func parseURL(databaseURL string) (Dialect, string, string, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return Postgres, "postgres", databaseURL, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		if path == "" {
			return 0, "", "", fmt.Errorf("sqlite database URL has no path")
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return SQLite, "sqlite", path + sep + sqliteParams, nil
	}
	return 0, "", "", fmt.Errorf("unsupported database URL %q", databaseURL)
}

func runMigrations(db *sql.DB, dialect Dialect) error {
	sub, err := fs.Sub(migrationsFS, "migrations/"+dialect.String())
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	var dbDriver database.Driver
	switch dialect {
	case Postgres:
		dbDriver, err = postgres.WithInstance(db, &postgres.Config{})
	case SQLite:
		dbDriver, err = sqlite.WithInstance(db, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, dialect.String(), dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Dialect returns the SQL flavour of the store.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// DB exposes the underlying pool.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) conn() conn {
	return conn{db: s.db, dialect: s.dialect}
}

func (s *SQLStore) SyncTypes(ctx context.Context, types []*model.EventType) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.SyncTypes(ctx, types)
	})
}

func (s *SQLStore) InsertEvent(ctx context.Context, rec *model.Record) (int64, error) {
	return queryInsertEvent(ctx, s.conn(), rec)
}

func (s *SQLStore) GetEvent(ctx context.Context, id int64) (*model.Row, error) {
	return getEvent(ctx, s.conn(), id)
}

func (s *SQLStore) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Row, error) {
	return queryListEvents(ctx, s.conn(), filter)
}

func (s *SQLStore) CountEvents(ctx context.Context, filter model.EventFilter) (int, error) {
	return queryCountEvents(ctx, s.conn(), filter)
}

func (s *SQLStore) DeleteEvent(ctx context.Context, id int64) error {
	return deleteEvent(ctx, s.conn(), id)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *SQLStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{c: conn{db: tx, dialect: s.dialect}}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func getEvent(ctx context.Context, c conn, id int64) (*model.Row, error) {
	r, err := queryGetEvent(ctx, c, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return r, err
}

func deleteEvent(ctx context.Context, c conn, id int64) error {
	err := queryDeleteEvent(ctx, c, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotDeleted
	}
	return err
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	c conn
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) SyncTypes(ctx context.Context, types []*model.EventType) error {
	return querySyncTypes(ctx, s.c, types)
}

func (s *txStore) InsertEvent(ctx context.Context, rec *model.Record) (int64, error) {
	return queryInsertEvent(ctx, s.c, rec)
}

func (s *txStore) GetEvent(ctx context.Context, id int64) (*model.Row, error) {
	return getEvent(ctx, s.c, id)
}

func (s *txStore) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Row, error) {
	return queryListEvents(ctx, s.c, filter)
}

func (s *txStore) CountEvents(ctx context.Context, filter model.EventFilter) (int, error) {
	return queryCountEvents(ctx, s.c, filter)
}

func (s *txStore) DeleteEvent(ctx context.Context, id int64) error {
	return deleteEvent(ctx, s.c, id)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Ping is a no-op inside a transaction.
func (s *txStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
