package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

type memoryRow struct {
	threshold domain.Threshold
	active    bool
}

// MemoryStore is a process-local threshold and income store
type MemoryStore struct {
	mu         sync.RWMutex
	thresholds map[int]map[domain.ThresholdKey]memoryRow
	income     map[int]map[int]domain.MonthlyIncome
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		thresholds: make(map[int]map[domain.ThresholdKey]memoryRow),
		income:     make(map[int]map[int]domain.MonthlyIncome),
	}
}

// FetchActiveThresholds returns the active thresholds of year
func (m *MemoryStore) FetchActiveThresholds(ctx context.Context, year int) (domain.ThresholdMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(domain.ThresholdMap)
	for key, row := range m.thresholds[year] {
		if row.active {
			out[key] = row.threshold
		}
	}
	return out, nil
}

// UpsertThreshold writes one threshold for year and marks it active
func (m *MemoryStore) UpsertThreshold(ctx context.Context, year int, t domain.Threshold) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.thresholds[year] == nil {
		m.thresholds[year] = make(map[domain.ThresholdKey]memoryRow)
	}
	m.thresholds[year][t.Key] = memoryRow{threshold: t, active: true}
	return nil
}

// ActivateThresholds makes exactly keys active for year
func (m *MemoryStore) ActivateThresholds(ctx context.Context, year int, keys []domain.ThresholdKey) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, fmt.Errorf("%w: at least one key is required", ErrInvalidInput)
	}
	want := make(map[domain.ThresholdKey]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key, row := range m.thresholds[year] {
		row.active = want[key]
		if row.active {
			n++
		}
		m.thresholds[year][key] = row
	}
	return n, nil
}

// SaveMonthlyIncome records one month of income
func (m *MemoryStore) SaveMonthlyIncome(ctx context.Context, year int, in domain.MonthlyIncome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateIncome(in); err != nil {
		return err
	}
	if in.InputMethod == "" {
		in.InputMethod = domain.InputManual
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.income[year] == nil {
		m.income[year] = make(map[int]domain.MonthlyIncome)
	}
	m.income[year][in.Month] = in
	return nil
}

// MonthlyIncome returns the recorded months of year in month order
func (m *MemoryStore) MonthlyIncome(ctx context.Context, year int) ([]domain.MonthlyIncome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.MonthlyIncome
	for _, in := range m.income[year] {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
