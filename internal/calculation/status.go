// Package calculation turns income history and thresholds into per-wall status, impact and preview results.
package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/thresholds"
)

// Alert bands as a percentage of the limit
var (
	dangerPercent  = decimal.NewFromInt(90)
	warningPercent = decimal.NewFromInt(80)
	infoPercent    = decimal.NewFromInt(70)
	hundred        = decimal.NewFromInt(100)
)

// ClampMonth forces month into 1..12
func ClampMonth(month int) int {
	switch {
	case month < 1:
		return 1
	case month > 12:
		return 12
	default:
		return month
	}
}

// CalculateThresholdStatus computes the position of income against one wall.
//
// The limit comes from yen when it carries key, otherwise from the
// compiled-in constant. A key found in neither yields a zero-effect status:
// limit 0, safe, not over the limit, flagged Unknown. The label follows the
// same order, ending at the key itself.
//
// Negative income is read as zero and month is clamped to 1..12. The
// function is total: every output is finite for any input.
func CalculateThresholdStatus(key domain.ThresholdKey, income domain.Yen, month int, yen thresholds.YenMap, labels thresholds.LabelMap) domain.ThresholdStatus {
	if income < 0 {
		income = 0
	}
	month = ClampMonth(month)

	label, ok := labels[key]
	if !ok || label == "" {
		label = thresholds.FallbackLabel(key)
	}

	limit, ok := yen[key]
	if !ok {
		limit, ok = thresholds.FallbackYen(key)
	}
	if !ok {
		return domain.ThresholdStatus{
			Threshold:     key,
			Label:         label,
			CurrentIncome: income,
			AlertLevel:    domain.AlertSafe,
			Message:       fmt.Sprintf("%sは未登録の閾値です", label),
			Unknown:       true,
		}
	}
	if limit < 0 {
		limit = 0
	}

	remaining := limit - income
	if remaining < 0 {
		remaining = 0
	}
	isOverLimit := income >= limit
	pct := percentage(income, limit)

	status := domain.ThresholdStatus{
		Threshold:        key,
		Label:            label,
		Limit:            limit,
		CurrentIncome:    income,
		Remaining:        remaining,
		Percentage:       pct.InexactFloat64(),
		IsOverLimit:      isOverLimit,
		MonthlyAllowance: monthlyAllowance(remaining, month),
	}
	status.AlertLevel, status.Message = classify(label, isOverLimit, pct, remaining)
	return status
}

// StatusFromThresholds is CalculateThresholdStatus over a rich threshold map
func StatusFromThresholds(key domain.ThresholdKey, income domain.Yen, month int, m domain.ThresholdMap) domain.ThresholdStatus {
	return CalculateThresholdStatus(key, income, month, thresholds.ConvertToLegacyFormat(m), thresholds.CreateLabelsMap(m))
}

// percentage is income/limit*100 with exact 0 and 100 at the boundaries.
// A zero limit is already reached, so it reads as 100.
func percentage(income, limit domain.Yen) decimal.Decimal {
	switch {
	case limit == 0:
		return hundred
	case income == 0:
		return decimal.Zero
	case income == limit:
		return hundred
	}
	return decimal.NewFromInt(int64(income)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(limit)))
}

// monthlyAllowance spreads remaining over the months after month; December counts as one
func monthlyAllowance(remaining domain.Yen, month int) domain.Yen {
	monthsLeft := 12 - month
	if monthsLeft < 1 {
		monthsLeft = 1
	}
	return domain.Yen(decimal.NewFromInt(int64(remaining)).
		Div(decimal.NewFromInt(int64(monthsLeft))).
		Floor().
		IntPart())
}

func classify(label string, isOverLimit bool, pct decimal.Decimal, remaining domain.Yen) (domain.AlertLevel, string) {
	rounded := pct.Round(0).String()
	switch {
	case isOverLimit:
		return domain.AlertDanger, fmt.Sprintf("%sを超過しています", label)
	case pct.GreaterThanOrEqual(dangerPercent):
		return domain.AlertDanger, fmt.Sprintf("%sまであと%sです", label, formatSen(remaining))
	case pct.GreaterThanOrEqual(warningPercent):
		return domain.AlertWarning, fmt.Sprintf("%sの%s%%に達しました", label, rounded)
	case pct.GreaterThanOrEqual(infoPercent):
		return domain.AlertInfo, fmt.Sprintf("%sの%s%%です", label, rounded)
	default:
		return domain.AlertSafe, fmt.Sprintf("%sまで余裕があります", label)
	}
}
