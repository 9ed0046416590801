// Package store persists thresholds and monthly income history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// SQLiteStore implements thresholds.AdminStore and the income history on SQLite
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Option configures a SQLiteStore
type Option func(*SQLiteStore)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *SQLiteStore) {
		s.logger = logger
	}
}

// NewSQLiteStore opens the database at path, creating its directory.
// Call Migrate before use.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: database path is required", ErrInvalidInput)
	}

	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Open opens and migrates the database at path
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s, err := NewSQLiteStore(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database path
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
