package eligibility

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// DangerLevel is the coarse three-band reading used by the breakdown view
type DangerLevel string

const (
	DangerSafe   DangerLevel = "safe"
	DangerWarn   DangerLevel = "warn"
	DangerDanger DangerLevel = "danger"
)

// Breakdown explains the wall in force against an income figure
type Breakdown struct {
	Threshold                domain.Yen      `json:"threshold" yaml:"threshold"`
	ThresholdType            domain.WallType `json:"thresholdType" yaml:"threshold_type"`
	DisplayName              string          `json:"displayName" yaml:"display_name"`
	CurrentIncome            domain.Yen      `json:"currentIncome" yaml:"current_income"`
	RemainingAllowance       domain.Yen      `json:"remainingAllowance" yaml:"remaining_allowance"`
	DangerLevel              DangerLevel     `json:"dangerLevel" yaml:"danger_level"`
	Percentage               float64         `json:"percentage" yaml:"percentage"`
	RecommendedMonthlyIncome domain.Yen      `json:"recommendedMonthlyIncome" yaml:"recommended_monthly_income"`
	RemainingMonths          int             `json:"remainingMonths" yaml:"remaining_months"`
}

// percentOf returns income as a percentage of limit; a zero limit reads as full
func percentOf(income, limit domain.Yen) decimal.Decimal {
	if limit <= 0 {
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromInt(int64(income)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(limit)))
}

// CalculateDangerLevel is safe below 90%, warn from 90% and danger from 100%
func CalculateDangerLevel(income, limit domain.Yen) DangerLevel {
	p := percentOf(income, limit)
	switch {
	case p.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return DangerDanger
	case p.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return DangerWarn
	default:
		return DangerSafe
	}
}

// RemainingMonths counts the months left in the year including the current one
func RemainingMonths(at time.Time) int {
	return 13 - int(at.Month())
}

// RecommendedMonthlyIncome spreads the allowance over the remaining months, floored to whole yen
func RecommendedMonthlyIncome(remaining domain.Yen, at time.Time) domain.Yen {
	months := RemainingMonths(at)
	if months <= 0 || remaining <= 0 {
		return 0
	}
	return remaining / domain.Yen(months)
}

// GetBreakdown explains result against income at the given date. The
// percentage here is capped at 100 for display.
func GetBreakdown(income domain.Yen, result domain.EligibilityResult, at time.Time) Breakdown {
	if income < 0 {
		income = 0
	}
	remaining := result.CurrentWall - income
	if remaining < 0 {
		remaining = 0
	}
	pct := percentOf(income, result.CurrentWall)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		pct = decimal.NewFromInt(100)
	}
	return Breakdown{
		Threshold:                result.CurrentWall,
		ThresholdType:            result.CurrentWallType,
		DisplayName:              DisplayName(result.CurrentWallType),
		CurrentIncome:            income,
		RemainingAllowance:       remaining,
		DangerLevel:              CalculateDangerLevel(income, result.CurrentWall),
		Percentage:               pct.Round(2).InexactFloat64(),
		RecommendedMonthlyIncome: RecommendedMonthlyIncome(remaining, at),
		RemainingMonths:          RemainingMonths(at),
	}
}
