package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/database/migrations"
	apperrors "github.com/PaulDelamare/FoudViseur/internal/errors"
	"github.com/glebarez/sqlite"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

// Store owns the single SQLite connection of the process. It is opened
// lazily by the first caller of Init or DB.
type Store struct {
	path   string
	logger *slog.Logger
	ladder *migrations.Ladder
	open   func(path string, logger *slog.Logger) (*gorm.DB, error)

	group singleflight.Group
	mu    sync.RWMutex
	db    *gorm.DB
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store and its gorm session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithLadder replaces the default migration ladder.
func WithLadder(ladder *migrations.Ladder) Option {
	return func(s *Store) { s.ladder = ladder }
}

// NewStore returns an unopened store for the SQLite file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default(),
		open:   openSQLite,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ladder == nil {
		s.ladder = migrations.Default().WithLogger(s.logger)
	}
	return s
}

func (s *Store) handle() *gorm.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Init opens the database and brings its schema up to date. Concurrent
// callers share one attempt. A failed attempt leaves the store closed so the
// next call tries again. The attempt survives the cancellation of ctx; only
// the waiting does not.
func (s *Store) Init(ctx context.Context) error {
	if s.handle() != nil {
		return nil
	}

	ch := s.group.DoChan("init", func() (interface{}, error) {
		if s.handle() != nil {
			return nil, nil
		}
		return nil, s.initialize(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (s *Store) initialize(ctx context.Context) error {
	start := time.Now()

	db, err := s.open(s.path, s.logger)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to open meal store", "path", s.path, "error", err)
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "STORE_INIT", "failed to open meal store")
	}

	if err := s.prepare(ctx, db); err != nil {
		closeDB(db)
		s.logger.ErrorContext(ctx, "Failed to prepare meal store", "path", s.path, "error", err)
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "STORE_INIT", "failed to prepare meal store")
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Meal store ready", "path", s.path, "duration", time.Since(start))
	return nil
}

func (s *Store) prepare(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	// One connection serializes statements and keeps :memory: databases alive.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return err
	}
	if _, err := s.ladder.Run(ctx, db); err != nil {
		return err
	}
	return nil
}

// DB returns the ready handle, initializing the store first if needed.
func (s *Store) DB(ctx context.Context) (*gorm.DB, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	db := s.handle()
	if db == nil {
		return nil, apperrors.ErrStoreInit
	}
	return db.WithContext(ctx), nil
}

// Close releases the connection. A later Init opens it again.
func (s *Store) Close() error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()

	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func openSQLite(path string, logger *slog.Logger) (*gorm.DB, error) {
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// NewGormLogger routes gorm's slow query and error reports to logger.
func NewGormLogger(logger *slog.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger: logger.With("component", "gorm")}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type gormWriter struct {
	logger *slog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn(fmt.Sprintf(format, args...))
}
