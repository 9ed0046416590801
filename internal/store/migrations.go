package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ExpectedSchemaVersion is the schema version this build writes and reads
const ExpectedSchemaVersion = 2

// Migration is one forward-only schema step
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Threshold table",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS fuyou_thresholds (
					year INTEGER NOT NULL,
					key TEXT NOT NULL,
					kind TEXT NOT NULL CHECK (kind IN ('tax', 'social')),
					yen INTEGER NOT NULL CHECK (yen >= 0),
					label TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					is_active INTEGER NOT NULL DEFAULT 1,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (year, key)
				)`,
				`CREATE INDEX idx_fuyou_thresholds_active ON fuyou_thresholds(year, is_active)`,
			}
			return execAll(tx, queries)
		},
	},
	{
		Version:     2,
		Description: "Monthly income history",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS monthly_income (
					year INTEGER NOT NULL,
					month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
					income INTEGER NOT NULL CHECK (income >= 0),
					is_estimated INTEGER NOT NULL DEFAULT 0,
					input_method TEXT NOT NULL DEFAULT 'manual',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (year, month)
				)`,
			}
			return execAll(tx, queries)
		},
	},
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies every migration newer than the database's user_version
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		s.logger.Info("applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}
	return nil
}

// SchemaVersion reports the database's user_version
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}
