// Package sqlite stores the scheduling journal in SQLite through the pure-Go
// modernc driver.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
)

// Storage implements persistence.SubmissionRepository on SQLite.
type Storage struct {
	pool   *ConnectionPool
	logger *slog.Logger
}

// Open connects to dsn with DefaultOptions.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	return OpenWithOptions(ctx, dsn, DefaultOptions(), logger)
}

// OpenWithOptions connects to dsn with explicit pool options.
func OpenWithOptions(ctx context.Context, dsn string, opts Options, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := NewConnectionPool(ctx, dsn, opts)
	if err != nil {
		return nil, err
	}
	return &Storage{pool: pool, logger: logger.With("component", "sqlite")}, nil
}

// Migrate applies pending schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	if err := migrate(ctx, s.pool, migrationFiles, s.logger); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	return s.pool.Close()
}
