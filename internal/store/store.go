// Package store persists all durable Hallboard state (admin accounts,
// leaderboard entries, creator profiles) in a relational database accessed
// through sqlx. The store is the sole arbiter of consistency; there is no
// in-process caching and no application-level locking.
package store

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds the database connection parameters.
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfig returns a Config with an in-process SQLite database, suitable
// for development. Production deployments point Driver/DSN at MySQL or
// Postgres via configuration.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "hallboard.db?_journal_mode=WAL&_busy_timeout=5000",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: time.Minute,
	}
}

// Store is the injectable database handle passed to every component at
// construction time. Individual connections are acquired and released per
// operation by the underlying pool.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database described by cfg, applies pool settings, and
// runs migrations.
func Open(cfg Config) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	sqlDriver := driver
	if driver == DriverPostgres {
		sqlDriver = "pgx"
	}

	db, err := sqlx.Connect(sqlDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't support concurrent writers.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
		if cfg.ConnMaxIdleTime > 0 {
			db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
		}
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory SQLite store. Used by tests and available
// for local development with no setup.
func OpenMemory() (*Store, error) {
	cfg := DefaultConfig()
	cfg.DSN = ":memory:"
	return Open(cfg)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the configured driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Ping issues a trivial query against the database. The keep-alive pinger
// uses this to stop idle connections from being evicted by the store or its
// network path.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowxContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// insertID executes an INSERT and returns the generated row id. Postgres has
// no LastInsertId, so the query gets a RETURNING clause there instead.
func (s *Store) insertID(ctx context.Context, ext sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	if s.driver == DriverPostgres {
		var id int64
		if err := ext.QueryRowxContext(ctx, ext.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := ext.ExecContext(ctx, ext.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// nullIfEmpty maps an empty string to NULL for optional text columns.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
