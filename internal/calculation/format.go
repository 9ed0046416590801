package calculation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

var manUnit = decimal.NewFromInt(10_000)

// FormatMan renders an amount in 万円 once it reaches ten thousand yen,
// with one decimal place when it is not a whole number of 万:
//
//	1030000 → 103万円
//	1035000 → 103.5万円
//	9800    → 9,800円
func FormatMan(amount domain.Yen) string {
	if amount < 0 {
		return "-" + FormatMan(-amount)
	}
	if amount >= 10_000 {
		man := decimal.NewFromInt(int64(amount)).Div(manUnit)
		if man.IsInteger() {
			return man.String() + "万円"
		}
		return man.StringFixed(1) + "万円"
	}
	return FormatYen(amount) + "円"
}

// FormatYen groups digits by thousands
func FormatYen(amount domain.Yen) string {
	s := strconv.FormatInt(int64(amount), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// formatSen renders an amount in thousands of yen, rounded
func formatSen(amount domain.Yen) string {
	return decimal.NewFromInt(int64(amount)).Div(decimal.NewFromInt(1000)).Round(0).String() + "千円"
}
