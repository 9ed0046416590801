package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

const validStatusYAML = `
year: 2025
as_of: 2025-08-15
profile:
  name: 花子
  birth_date: 2004-05-10
  is_student: true
  insurance_status: parent
  employment: none
  support: full
income:
  - month: 1
    income: 80000
  - month: 2
    income: 95000
    input_method: bank_api
  - month: 3
    income: 70000
    is_estimated: true
    input_method: estimated
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	parser := NewInputParser()
	in, err := parser.LoadFromFile(writeFile(t, "status.yaml", validStatusYAML))
	require.NoError(t, err)

	assert.Equal(t, 2025, in.Year)
	require.NotNil(t, in.AsOf)
	assert.Equal(t, time.August, in.AsOf.Month())
	assert.Equal(t, "花子", in.Profile.Name)
	require.NotNil(t, in.Profile.BirthDate)
	assert.Equal(t, 2004, in.Profile.BirthDate.Year())
	assert.True(t, in.Profile.IsStudent)
	assert.Equal(t, domain.InsuranceParent, in.Profile.InsuranceStatus)
	assert.True(t, in.Profile.HasEligibilityInputs())

	require.Len(t, in.Income, 3)
	assert.Equal(t, domain.InputManual, in.Income[0].InputMethod, "input method defaults to manual")
	assert.Equal(t, domain.InputBankAPI, in.Income[1].InputMethod)
	assert.True(t, in.Income[2].IsEstimated)
	assert.Equal(t, domain.Yen(95_000), in.Income[1].Income)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input file")
}

func TestParseStatusInputValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "year: [",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing year",
			yaml:    "profile: {name: a}",
			wantErr: "year must be between",
		},
		{
			name:    "bad insurance status",
			yaml:    "year: 2025\nprofile: {insurance_status: spouse}",
			wantErr: "insurance_status",
		},
		{
			name:    "bad support",
			yaml:    "year: 2025\nprofile: {support: some}",
			wantErr: "unknown support",
		},
		{
			name:    "bad employment",
			yaml:    "year: 2025\nprofile: {employment: contractor}",
			wantErr: "unknown employment",
		},
		{
			name:    "future self insurance before birth",
			yaml:    "year: 2025\nprofile: {birth_date: 2004-05-10, future_self_insurance_date: 2003-01-01}",
			wantErr: "cannot precede birth_date",
		},
		{
			name:    "month out of range",
			yaml:    "year: 2025\nincome: [{month: 13, income: 1}]",
			wantErr: "income[0]: invalid configuration: month must be between 1 and 12",
		},
		{
			name:    "negative income",
			yaml:    "year: 2025\nincome: [{month: 1, income: -5}]",
			wantErr: "income cannot be negative",
		},
		{
			name:    "duplicate month",
			yaml:    "year: 2025\nincome: [{month: 4, income: 1}, {month: 4, income: 2}]",
			wantErr: "month 4 is listed twice",
		},
		{
			name:    "unknown input method",
			yaml:    "year: 2025\nincome: [{month: 4, income: 1, input_method: guess}]",
			wantErr: "unknown input_method",
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseStatusInput([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.name != "malformed yaml" {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestParseStatusInputMinimal(t *testing.T) {
	in, err := NewInputParser().ParseStatusInput([]byte("year: 2025\n"))
	require.NoError(t, err)
	assert.Empty(t, in.Income)
	assert.False(t, in.Profile.HasEligibilityInputs())
	assert.Nil(t, in.AsOf)
}

const validSeedYAML = `
year: 2026
thresholds:
  - key: INCOME_TAX_123
    kind: tax
    yen: 1230000
    label: 所得税の壁（123万円）
  - key: SOCIAL_INSURANCE_130
    kind: social
    yen: 1300000
    label: 社会保険の壁（130万円）
    description: 被扶養者認定の収入要件
`

func TestLoadSeedFile(t *testing.T) {
	seed, err := NewInputParser().LoadSeedFile(writeFile(t, "seed.yaml", validSeedYAML))
	require.NoError(t, err)

	assert.Equal(t, 2026, seed.Year)
	m := seed.ThresholdMap()
	require.Len(t, m, 2)
	assert.Equal(t, domain.KindSocial, m[domain.SocialInsurance130].Kind)
	assert.Equal(t, domain.Yen(1_230_000), m[domain.IncomeTax123].Yen)
	assert.NotEmpty(t, m[domain.SocialInsurance130].Description)
}

func TestParseSeedFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no thresholds", "year: 2026\n", "at least one threshold"},
		{"bad year", "year: 12\nthresholds: [{key: A, kind: tax, yen: 1, label: a}]", "year must be between"},
		{"bad kind", "year: 2026\nthresholds: [{key: A, kind: pension, yen: 1, label: a}]", "kind must be"},
		{"negative yen", "year: 2026\nthresholds: [{key: A, kind: tax, yen: -1, label: a}]", "cannot be negative"},
		{"missing label", "year: 2026\nthresholds: [{key: A, kind: tax, yen: 1}]", "label is required"},
		{"duplicate key", "year: 2026\nthresholds: [{key: A, kind: tax, yen: 1, label: a}, {key: A, kind: tax, yen: 2, label: b}]", "duplicate key A"},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseSeedFile([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
