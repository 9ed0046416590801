package thresholds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

func TestFallbackThresholdsAreCopies(t *testing.T) {
	a := FallbackThresholds()
	delete(a, domain.IncomeTax103)

	b := FallbackThresholds()
	assert.Len(t, b, len(domain.KnownThresholdKeys()))
	for _, key := range domain.KnownThresholdKeys() {
		th, ok := b[key]
		require.True(t, ok, key)
		assert.NoError(t, th.Validate())
	}
}

func TestFallbackLookups(t *testing.T) {
	yen, ok := FallbackYen(domain.ResidentTax110)
	assert.True(t, ok)
	assert.Equal(t, domain.Yen(1_100_000), yen)

	_, ok = FallbackYen("UNKNOWN")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", FallbackLabel("UNKNOWN"))
	assert.Contains(t, FallbackLabel(domain.IncomeTax103), "103万円")
}

func TestConvertToLegacyFormat(t *testing.T) {
	m := FallbackThresholds()
	m["CUSTOM_WALL"] = domain.Threshold{Key: "CUSTOM_WALL", Kind: domain.KindSocial, Yen: 900_000, Label: "custom"}

	yen := ConvertToLegacyFormat(m)
	labels := CreateLabelsMap(m)

	assert.Len(t, yen, len(m))
	assert.Len(t, labels, len(m))
	for key, th := range m {
		assert.Equal(t, th.Yen, yen[key])
		assert.Equal(t, th.Label, labels[key])
	}

	assert.Empty(t, ConvertToLegacyFormat(domain.ThresholdMap{}))
	assert.Empty(t, CreateLabelsMap(nil))
}

func TestFromLegacyFormat(t *testing.T) {
	m := FromLegacyFormat(
		YenMap{domain.SocialInsurance106: 1_000_000, "NEW_WALL": 50},
		LabelMap{"NEW_WALL": "新しい壁"},
	)

	require.Len(t, m, 2)
	assert.Equal(t, domain.KindSocial, m[domain.SocialInsurance106].Kind)
	assert.Equal(t, domain.Yen(1_000_000), m[domain.SocialInsurance106].Yen)
	assert.Equal(t, FallbackLabel(domain.SocialInsurance106), m[domain.SocialInsurance106].Label)
	assert.Equal(t, domain.KindTax, m["NEW_WALL"].Kind)
	assert.Equal(t, "新しい壁", m["NEW_WALL"].Label)
}

func TestParseFallbackJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[domain.ThresholdKey]domain.Yen
		wantErr bool
	}{
		{
			name: "empty",
			raw:  "  ",
			want: nil,
		},
		{
			name: "bare yen values",
			raw:  `{"INCOME_TAX_103": 1230000, "SOCIAL_INSURANCE_130": 1300000}`,
			want: map[domain.ThresholdKey]domain.Yen{domain.IncomeTax103: 1_230_000, domain.SocialInsurance130: 1_300_000},
		},
		{
			name: "object entries",
			raw:  `{"RESIDENT_TAX_110": {"yen": 1200000, "label": "住民税"}}`,
			want: map[domain.ThresholdKey]domain.Yen{domain.ResidentTax110: 1_200_000},
		},
		{
			name: "unknown key as bare value",
			raw:  `{"LOCAL_WALL": 800000}`,
			want: map[domain.ThresholdKey]domain.Yen{"LOCAL_WALL": 800_000},
		},
		{
			name:    "malformed",
			raw:     `{"INCOME_TAX_103":`,
			wantErr: true,
		},
		{
			name:    "negative yen",
			raw:     `{"INCOME_TAX_103": -1}`,
			wantErr: true,
		},
		{
			name:    "mismatched key",
			raw:     `{"INCOME_TAX_103": {"key": "INCOME_TAX_123", "yen": 1}}`,
			wantErr: true,
		},
		{
			name:    "bad kind",
			raw:     `{"INCOME_TAX_103": {"kind": "pension", "yen": 1}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFallbackJSON(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.Len(t, got, len(tt.want))
			for key, yen := range tt.want {
				assert.Equal(t, yen, got[key].Yen, key)
				assert.Equal(t, key, got[key].Key)
				assert.NotEmpty(t, got[key].Label)
			}
		})
	}
}

func TestParseFallbackJSONFillsFromConstants(t *testing.T) {
	got, err := ParseFallbackJSON(`{"SOCIAL_INSURANCE_106": {"yen": 1000000}}`)
	require.NoError(t, err)
	th := got[domain.SocialInsurance106]
	assert.Equal(t, domain.KindSocial, th.Kind)
	assert.Equal(t, FallbackLabel(domain.SocialInsurance106), th.Label)
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv(EnvFallbackVar, `{"INCOME_TAX_103": 1100000}`)
	m, err := LoadEnvFallback()
	require.NoError(t, err)
	assert.Equal(t, domain.Yen(1_100_000), m[domain.IncomeTax103].Yen)

	t.Setenv(EnvFallbackVar, `not json`)
	_, err = LoadEnvFallback()
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache(clock.Now)

	_, ok := c.Get(2025)
	assert.False(t, ok)

	gen := c.Generation()
	e, stored := c.Put(gen, 2025, FallbackThresholds(), SourceFallback, time.Minute)
	assert.True(t, stored)
	assert.Equal(t, clock.now.Add(time.Minute), e.ExpiresAt)

	got, ok := c.Get(2025)
	require.True(t, ok)
	assert.Equal(t, SourceFallback, got.Source)

	clock.Advance(time.Minute)
	_, ok = c.Get(2025)
	assert.False(t, ok, "entry is dead at its expiry instant")
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, stored = c.Put(gen, 2025, FallbackThresholds(), SourceFallback, time.Minute)
	assert.False(t, stored, "stale generation is dropped")

	_, stored = c.Put(c.Generation(), 2025, FallbackThresholds(), SourceFallback, 0)
	assert.False(t, stored)
}
