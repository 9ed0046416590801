package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

func TestAnalyzeThresholdImpact(t *testing.T) {
	tests := []struct {
		name       string
		income     domain.Yen
		oldYen     domain.Yen
		newYen     domain.Yen
		wantType   domain.ImpactType
		wantAmount domain.Yen
		wantWords  []string
	}{
		{
			name:       "unchanged",
			income:     500_000,
			oldYen:     1_030_000,
			newYen:     1_030_000,
			wantType:   domain.ImpactNeutral,
			wantAmount: 0,
			wantWords:  []string{"変更はありません"},
		},
		{
			name:       "raised",
			income:     500_000,
			oldYen:     1_030_000,
			newYen:     1_230_000,
			wantType:   domain.ImpactPositive,
			wantAmount: 200_000,
			wantWords:  []string{"引き上げ", "20万円", "より多く稼げます"},
		},
		{
			name:       "raised back under the wall",
			income:     1_100_000,
			oldYen:     1_030_000,
			newYen:     1_230_000,
			wantType:   domain.ImpactPositive,
			wantAmount: 200_000,
			wantWords:  []string{"引き上げ", "扶養範囲内に戻ります"},
		},
		{
			name:       "lowered",
			income:     500_000,
			oldYen:     1_300_000,
			newYen:     1_060_000,
			wantType:   domain.ImpactNegative,
			wantAmount: 240_000,
			wantWords:  []string{"引き下げ", "24万円"},
		},
		{
			name:       "lowered past the income",
			income:     1_100_000,
			oldYen:     1_300_000,
			newYen:     1_060_000,
			wantType:   domain.ImpactNegative,
			wantAmount: 240_000,
			wantWords:  []string{"引き下げ", "扶養を超過します"},
		},
		{
			name:       "income never flips the type",
			income:     10_000_000,
			oldYen:     1_030_000,
			newYen:     1_035_000,
			wantType:   domain.ImpactPositive,
			wantAmount: 5_000,
			wantWords:  []string{"引き上げ", "5,000円"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeThresholdImpact(tt.income, tt.oldYen, tt.newYen)
			assert.Equal(t, tt.wantType, got.ImpactType)
			assert.Equal(t, tt.wantAmount, got.ImpactAmount)
			for _, w := range tt.wantWords {
				assert.Contains(t, got.ImpactDescription, w)
			}
		})
	}
}

type staticSource map[int]domain.ThresholdMap

func (s staticSource) ActiveThresholds(_ context.Context, year int) domain.ThresholdMap {
	return s[year].Clone()
}

func threshold(key domain.ThresholdKey, yen domain.Yen) domain.Threshold {
	return domain.Threshold{Key: key, Kind: domain.KindTax, Yen: yen, Label: string(key)}
}

func TestPreviewYear(t *testing.T) {
	src := staticSource{
		2024: {
			domain.IncomeTax103:   threshold(domain.IncomeTax103, 1_030_000),
			domain.ResidentTax110: threshold(domain.ResidentTax110, 1_000_000),
		},
		2025: {
			domain.IncomeTax103:   threshold(domain.IncomeTax103, 1_230_000),
			domain.ResidentTax110: threshold(domain.ResidentTax110, 1_000_000),
			domain.IncomeTax123:   threshold(domain.IncomeTax123, 1_230_000),
		},
		2027: {
			domain.IncomeTax103: threshold(domain.IncomeTax103, 1_300_000),
		},
	}
	now := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	p := PreviewYear(context.Background(), src, 2025, now)
	assert.Equal(t, 2024, p.BaselineYear)
	assert.Len(t, p.Thresholds, 3)
	require.Len(t, p.Changes, 1)
	assert.Equal(t, domain.ThresholdChange{
		Key:         domain.IncomeTax103,
		Label:       string(domain.IncomeTax103),
		PreviousYen: 1_030_000,
		NewYen:      1_230_000,
		Difference:  200_000,
	}, p.Changes[0])

	future := PreviewYear(context.Background(), src, 2027, now)
	assert.Equal(t, 2025, future.BaselineYear, "future years compare against the current year")
	require.Len(t, future.Changes, 1)
	assert.Equal(t, domain.Yen(70_000), future.Changes[0].Difference)
}

func TestDiffThresholdsSorted(t *testing.T) {
	prev := domain.ThresholdMap{
		"B": threshold("B", 2),
		"A": threshold("A", 1),
	}
	cur := domain.ThresholdMap{
		"B": threshold("B", 1),
		"A": threshold("A", 3),
	}
	changes := DiffThresholds(prev, cur)
	require.Len(t, changes, 2)
	assert.Equal(t, domain.ThresholdKey("A"), changes[0].Key)
	assert.Equal(t, domain.Yen(-1), changes[1].Difference)

	assert.Empty(t, DiffThresholds(cur, cur))
}

func TestFormatMan(t *testing.T) {
	tests := []struct {
		in   domain.Yen
		want string
	}{
		{1_030_000, "103万円"},
		{1_035_000, "103.5万円"},
		{10_000, "1万円"},
		{12_345, "1.2万円"},
		{9_800, "9,800円"},
		{0, "0円"},
		{-20_000, "-2万円"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMan(tt.in))
	}
}

func TestFormatYen(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatYen(1_234_567))
	assert.Equal(t, "999", FormatYen(999))
	assert.Equal(t, "-1,000", FormatYen(-1_000))
}
