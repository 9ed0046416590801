package calculation

import (
	"context"
	"sort"
	"time"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// ThresholdSource resolves the active thresholds of a year
type ThresholdSource interface {
	ActiveThresholds(ctx context.Context, year int) domain.ThresholdMap
}

// YearPreview is a year's thresholds and how they moved from the baseline year
type YearPreview struct {
	Year         int                      `json:"year" yaml:"year"`
	BaselineYear int                      `json:"baselineYear" yaml:"baseline_year"`
	Thresholds   domain.ThresholdMap      `json:"thresholds" yaml:"thresholds"`
	Changes      []domain.ThresholdChange `json:"changes" yaml:"changes"`
}

// PreviewYear compares year against the previous year, or against the
// current year when year lies in the future. Keys that are new or unchanged
// are omitted from Changes.
func PreviewYear(ctx context.Context, src ThresholdSource, year int, now time.Time) YearPreview {
	baseline := year - 1
	if year > now.Year() {
		baseline = now.Year()
	}

	current := src.ActiveThresholds(ctx, year)
	previous := src.ActiveThresholds(ctx, baseline)

	return YearPreview{
		Year:         year,
		BaselineYear: baseline,
		Thresholds:   current,
		Changes:      DiffThresholds(previous, current),
	}
}

// DiffThresholds lists the keys present in both maps whose yen differ, sorted by key
func DiffThresholds(previous, current domain.ThresholdMap) []domain.ThresholdChange {
	changes := []domain.ThresholdChange{}
	for key, t := range current {
		prev, ok := previous[key]
		if !ok || prev.Yen == t.Yen {
			continue
		}
		changes = append(changes, domain.ThresholdChange{
			Key:         key,
			Label:       t.Label,
			PreviousYen: prev.Yen,
			NewYen:      t.Yen,
			Difference:  t.Yen - prev.Yen,
		})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
	return changes
}
