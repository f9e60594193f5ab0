// Package sqlite provides the SQLite-backed settings store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maxviazov/settings-service/internal/config"
	"github.com/maxviazov/settings-service/internal/repository"
	"github.com/maxviazov/settings-service/internal/repository/sqlite/migrations"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const defaultMaxConns = 5

// Store persists settings documents in a single SQLite table.
// The *sql.DB pool is the only shared state it holds.
type Store struct {
	db     *sql.DB
	path   string
	now    func() time.Time
	tracer *queryTracer
	log    zerolog.Logger
}

// Option customizes a Store at construction time.
type Option func(*Store)

// WithClock replaces the wall clock used to stamp modification times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates the database directory if needed, opens a bounded connection
// pool and applies the embedded migrations. Safe to call on every startup.
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger, opts ...Option) (*Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	busyTimeout := cfg.BusyTimeoutMS
	if busyTimeout <= 0 {
		busyTimeout = 5000
	}
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cleanPath, busyTimeout)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// callers queue on an exhausted pool rather than failing fast
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	l := logger.With().Str("module", "repository").Str("component", "sqlite").Logger()
	s := &Store{
		db:     db,
		path:   cleanPath,
		now:    time.Now,
		tracer: newQueryTracer(l),
		log:    l,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	l.Info().
		Str("path", cleanPath).
		Int("max_conns", maxConns).
		Msg("settings store opened")
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		s.log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("took", r.Duration).
			Msg("migration applied")
	}
	return nil
}

// Path returns the cleaned database file path.
func (s *Store) Path() string { return s.path }

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return repository.StorageError("ping", err)
	}
	return nil
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return repository.StorageError("check store", errors.New("sqlite db is nil"))
	}
	return nil
}

var (
	_ repository.SettingsRepository = (*Store)(nil)
	_ repository.Pinger             = (*Store)(nil)
)
