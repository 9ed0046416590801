package store

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// IncomeHistory records monthly income per year
type IncomeHistory interface {
	SaveMonthlyIncome(ctx context.Context, year int, in domain.MonthlyIncome) error
	MonthlyIncome(ctx context.Context, year int) ([]domain.MonthlyIncome, error)
}

func validateIncome(in domain.MonthlyIncome) error {
	if in.Month < 1 || in.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidInput, in.Month)
	}
	if in.Income < 0 {
		return fmt.Errorf("%w: income cannot be negative", ErrInvalidInput)
	}
	return nil
}

// SaveMonthlyIncome records one month of income, replacing any earlier figure
func (s *SQLiteStore) SaveMonthlyIncome(ctx context.Context, year int, in domain.MonthlyIncome) error {
	if err := validateIncome(in); err != nil {
		return err
	}
	method := in.InputMethod
	if method == "" {
		method = domain.InputManual
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_income (year, month, income, is_estimated, input_method)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET
			income = excluded.income,
			is_estimated = excluded.is_estimated,
			input_method = excluded.input_method,
			updated_at = CURRENT_TIMESTAMP`,
		year, in.Month, int64(in.Income), in.IsEstimated, string(method))
	if err != nil {
		return fmt.Errorf("failed to save income for %d-%02d: %w", year, in.Month, err)
	}
	return nil
}

// MonthlyIncome returns the recorded months of year in month order
func (s *SQLiteStore) MonthlyIncome(ctx context.Context, year int) ([]domain.MonthlyIncome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT month, income, is_estimated, input_method
		FROM monthly_income
		WHERE year = ?
		ORDER BY month`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query income: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.MonthlyIncome
	for rows.Next() {
		var (
			in     domain.MonthlyIncome
			income int64
			method string
		)
		if err := rows.Scan(&in.Month, &income, &in.IsEstimated, &method); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		in.Income = domain.Yen(income)
		in.InputMethod = domain.InputMethod(method)
		out = append(out, in)
	}
	return out, rows.Err()
}

// DeleteMonthlyIncome removes one recorded month
func (s *SQLiteStore) DeleteMonthlyIncome(ctx context.Context, year, month int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM monthly_income WHERE year = ? AND month = ?`, year, month)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted income: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("income for %d-%02d: %w", year, month, ErrNotFound)
	}
	return nil
}
