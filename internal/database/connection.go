package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"golden-palette/internal/config"
	"golden-palette/internal/logger"
)

const maxConnectAttempts = 5

// DB wraps the PostgreSQL connection pool
type DB struct {
	Pool   *pgxpool.Pool
	logger *logger.Logger
}

// New creates a new database connection
func New(cfg *config.Config, log *logger.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse database config")
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	var pool *pgxpool.Pool
	err = withRetries(log, "db_connection_failed", "database", func() error {
		pool, err = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DB{
		Pool:   pool,
		logger: log,
	}, nil
}

// withRetries calls connect up to maxConnectAttempts times with a growing pause
func withRetries(log *logger.Logger, action, target string, connect func() error) error {
	var err error
	for i := 0; i < maxConnectAttempts; i++ {
		if err = connect(); err == nil {
			return nil
		}

		if i < maxConnectAttempts-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			log.Error(action,
				fmt.Sprintf("Failed to connect to %s, retrying in %v", target, waitTime),
				"startup", err, nil)
			time.Sleep(waitTime)
		}
	}
	return errors.Wrapf(err, "failed to connect to %s after %d attempts", target, maxConnectAttempts)
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping tests the database connection
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Exec executes a query without returning any rows
func (db *DB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return db.Pool.Exec(ctx, sql, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return db.Pool.Query(ctx, sql, args...)
}

// QueryRow executes a query that is expected to return at most one row
func (db *DB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return db.Pool.QueryRow(ctx, sql, args...)
}
