// Package domain holds the threshold, status, eligibility and onboarding types shared across packages.
package domain

import (
	"fmt"
	"sort"
)

// Yen is a whole yen amount
type Yen int64

// ThresholdKey identifies one statutory income wall
type ThresholdKey string

// Known threshold keys. Keys outside this set may still arrive from the
// threshold store when an administrator introduces a new wall; see IsKnown.
const (
	IncomeTax103        ThresholdKey = "INCOME_TAX_103"
	SocialInsurance106  ThresholdKey = "SOCIAL_INSURANCE_106"
	SocialInsurance130  ThresholdKey = "SOCIAL_INSURANCE_130"
	SpouseDeduction150  ThresholdKey = "SPOUSE_DEDUCTION_150"
	ResidentTax110      ThresholdKey = "RESIDENT_TAX_110"
	IncomeTax123        ThresholdKey = "INCOME_TAX_123"
	StudentDependent150 ThresholdKey = "STUDENT_DEPENDENT_150"
)

var knownKeys = []ThresholdKey{
	IncomeTax103,
	SocialInsurance106,
	SocialInsurance130,
	SpouseDeduction150,
	ResidentTax110,
	IncomeTax123,
	StudentDependent150,
}

// KnownThresholdKeys returns every key this build recognizes, in declaration order
func KnownThresholdKeys() []ThresholdKey {
	return append([]ThresholdKey(nil), knownKeys...)
}

// IsKnown reports whether the key belongs to the closed set compiled into this build
func (k ThresholdKey) IsKnown() bool {
	for _, known := range knownKeys {
		if k == known {
			return true
		}
	}
	return false
}

func (k ThresholdKey) String() string { return string(k) }

// ThresholdKind separates tax walls from social-insurance walls
type ThresholdKind string

const (
	KindTax    ThresholdKind = "tax"
	KindSocial ThresholdKind = "social"
)

// Valid reports whether the kind is one of the two defined kinds
func (k ThresholdKind) Valid() bool {
	return k == KindTax || k == KindSocial
}

// Threshold is one named income wall. Values are immutable once built;
// a changed wall is a new Threshold.
type Threshold struct {
	Key         ThresholdKey  `yaml:"key" json:"key"`
	Kind        ThresholdKind `yaml:"kind" json:"kind"`
	Yen         Yen           `yaml:"yen" json:"yen"`
	Label       string        `yaml:"label" json:"label"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
}

// Validate checks the invariants a stored or configured threshold must hold
func (t Threshold) Validate() error {
	if t.Key == "" {
		return fmt.Errorf("threshold key is required")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("threshold %s: kind must be %q or %q, got %q", t.Key, KindTax, KindSocial, t.Kind)
	}
	if t.Yen < 0 {
		return fmt.Errorf("threshold %s: yen cannot be negative", t.Key)
	}
	if t.Label == "" {
		return fmt.Errorf("threshold %s: label is required", t.Key)
	}
	return nil
}

// ThresholdMap maps a key to its threshold for one year
type ThresholdMap map[ThresholdKey]Threshold

// Clone returns a shallow copy; Threshold values are immutable so this is a full copy
func (m ThresholdMap) Clone() ThresholdMap {
	if m == nil {
		return nil
	}
	out := make(ThresholdMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Keys returns the keys sorted by yen ascending, then by key
func (m ThresholdMap) Keys() []ThresholdKey {
	keys := make([]ThresholdKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m[keys[i]], m[keys[j]]
		if a.Yen != b.Yen {
			return a.Yen < b.Yen
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Sorted returns the thresholds in the order of Keys
func (m ThresholdMap) Sorted() []Threshold {
	keys := m.Keys()
	out := make([]Threshold, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
