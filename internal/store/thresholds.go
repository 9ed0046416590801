package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// FetchActiveThresholds returns the active thresholds stored for year.
// A year with no active rows yields an empty map and no error.
func (s *SQLiteStore) FetchActiveThresholds(ctx context.Context, year int) (domain.ThresholdMap, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, kind, yen, label, description
		FROM fuyou_thresholds
		WHERE year = ? AND is_active = 1`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query thresholds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(domain.ThresholdMap)
	for rows.Next() {
		t, err := scanThreshold(rows)
		if err != nil {
			return nil, err
		}
		out[t.Key] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate thresholds: %w", err)
	}
	return out, nil
}

// GetThreshold returns one stored threshold regardless of its active flag
func (s *SQLiteStore) GetThreshold(ctx context.Context, year int, key domain.ThresholdKey) (domain.Threshold, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, kind, yen, label, description, is_active
		FROM fuyou_thresholds
		WHERE year = ? AND key = ?`, year, string(key))

	var (
		t      domain.Threshold
		name   string
		kind   string
		yen    int64
		active bool
	)
	err := row.Scan(&name, &kind, &yen, &t.Label, &t.Description, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Threshold{}, false, fmt.Errorf("threshold %s for %d: %w", key, year, ErrNotFound)
	}
	if err != nil {
		return domain.Threshold{}, false, fmt.Errorf("failed to get threshold: %w", err)
	}
	t.Key = domain.ThresholdKey(name)
	t.Kind = domain.ThresholdKind(kind)
	t.Yen = domain.Yen(yen)
	return t, active, nil
}

// UpsertThreshold writes one threshold for year and marks it active
func (s *SQLiteStore) UpsertThreshold(ctx context.Context, year int, t domain.Threshold) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fuyou_thresholds (year, key, kind, yen, label, description, is_active)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(year, key) DO UPDATE SET
			kind = excluded.kind,
			yen = excluded.yen,
			label = excluded.label,
			description = excluded.description,
			is_active = 1,
			updated_at = CURRENT_TIMESTAMP`,
		year, string(t.Key), string(t.Kind), int64(t.Yen), t.Label, t.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert threshold %s: %w", t.Key, err)
	}
	return nil
}

// SeedThresholds upserts every threshold of m for year in one transaction
func (s *SQLiteStore) SeedThresholds(ctx context.Context, year int, m domain.ThresholdMap) (int, error) {
	for _, t := range m {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fuyou_thresholds (year, key, kind, yen, label, description, is_active)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(year, key) DO UPDATE SET
			kind = excluded.kind,
			yen = excluded.yen,
			label = excluded.label,
			description = excluded.description,
			is_active = 1,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range m.Sorted() {
		if _, err := stmt.ExecContext(ctx, year, string(t.Key), string(t.Kind), int64(t.Yen), t.Label, t.Description); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("failed to seed threshold %s: %w", t.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return len(m), nil
}

// ActivateThresholds makes exactly keys active for year. It returns how
// many stored rows became active; keys with no stored row are ignored.
func (s *SQLiteStore) ActivateThresholds(ctx context.Context, year int, keys []domain.ThresholdKey) (int, error) {
	if len(keys) == 0 {
		return 0, fmt.Errorf("%w: at least one key is required", ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE fuyou_thresholds SET is_active = 0 WHERE year = ?`, year); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to deactivate thresholds: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys)+1)
	args = append(args, year)
	for _, k := range keys {
		args = append(args, string(k))
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE fuyou_thresholds SET is_active = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE year = ? AND key IN (`+placeholders+`)`, args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to activate thresholds: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to count activated thresholds: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit activation: %w", err)
	}
	return int(n), nil
}

// ListYears returns the years with at least one stored threshold, ascending
func (s *SQLiteStore) ListYears(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT year FROM fuyou_thresholds ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("failed to query years: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanThreshold(row scanner) (domain.Threshold, error) {
	var (
		t    domain.Threshold
		key  string
		kind string
		yen  int64
	)
	if err := row.Scan(&key, &kind, &yen, &t.Label, &t.Description); err != nil {
		return domain.Threshold{}, fmt.Errorf("failed to scan threshold: %w", err)
	}
	t.Key = domain.ThresholdKey(key)
	t.Kind = domain.ThresholdKind(kind)
	t.Yen = domain.Yen(yen)
	return t, nil
}
