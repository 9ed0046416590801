package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// ErrInvalidConfig is wrapped by every validation failure in this package
var ErrInvalidConfig = errors.New("invalid configuration")

// StatusInput is a profile plus the monthly income recorded for one year
type StatusInput struct {
	Year    int                    `yaml:"year"`
	AsOf    *time.Time             `yaml:"as_of,omitempty"`
	Profile domain.UserProfile     `yaml:"profile"`
	Income  []domain.MonthlyIncome `yaml:"income"`
}

// SeedFile lists the thresholds to load into the store for one year
type SeedFile struct {
	Year       int                `yaml:"year"`
	Thresholds []domain.Threshold `yaml:"thresholds"`
}

// ThresholdMap returns the seed entries keyed by threshold key
func (s *SeedFile) ThresholdMap() domain.ThresholdMap {
	m := make(domain.ThresholdMap, len(s.Thresholds))
	for _, t := range s.Thresholds {
		m[t.Key] = t
	}
	return m
}

// InputParser handles parsing and validation of YAML input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates a status input file
func (ip *InputParser) LoadFromFile(filename string) (*StatusInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return ip.ParseStatusInput(data)
}

// ParseStatusInput decodes and validates a status input document
func (ip *InputParser) ParseStatusInput(data []byte) (*StatusInput, error) {
	var in StatusInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i := range in.Income {
		if in.Income[i].InputMethod == "" {
			in.Income[i].InputMethod = domain.InputManual
		}
	}
	if err := ip.ValidateStatusInput(&in); err != nil {
		return nil, fmt.Errorf("invalid status input: %w", err)
	}
	return &in, nil
}

// LoadSeedFile loads and validates a threshold seed file
func (ip *InputParser) LoadSeedFile(filename string) (*SeedFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ip.ParseSeedFile(data)
}

// ParseSeedFile decodes and validates a threshold seed document
func (ip *InputParser) ParseSeedFile(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateSeedFile(&seed); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &seed, nil
}

// ValidateStatusInput performs comprehensive validation of a status input
func (ip *InputParser) ValidateStatusInput(in *StatusInput) error {
	if err := validateYear(in.Year); err != nil {
		return err
	}
	if err := ip.validateProfile(&in.Profile); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	seen := make(map[int]bool, len(in.Income))
	for i, m := range in.Income {
		if err := validateMonthlyIncome(m); err != nil {
			return fmt.Errorf("income[%d]: %w", i, err)
		}
		if seen[m.Month] {
			return fmt.Errorf("%w: income[%d]: month %d is listed twice", ErrInvalidConfig, i, m.Month)
		}
		seen[m.Month] = true
	}
	return nil
}

// ValidateSeedFile checks the seed year and every threshold entry
func (ip *InputParser) ValidateSeedFile(seed *SeedFile) error {
	if err := validateYear(seed.Year); err != nil {
		return err
	}
	if len(seed.Thresholds) == 0 {
		return fmt.Errorf("%w: at least one threshold is required", ErrInvalidConfig)
	}
	seen := make(map[domain.ThresholdKey]bool, len(seed.Thresholds))
	for i, t := range seed.Thresholds {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: thresholds[%d]: %v", ErrInvalidConfig, i, err)
		}
		if seen[t.Key] {
			return fmt.Errorf("%w: thresholds[%d]: duplicate key %s", ErrInvalidConfig, i, t.Key)
		}
		seen[t.Key] = true
	}
	return nil
}

func validateYear(year int) error {
	if year < 1989 || year > 2100 {
		return fmt.Errorf("%w: year must be between 1989 and 2100, got %d", ErrInvalidConfig, year)
	}
	return nil
}

func (ip *InputParser) validateProfile(p *domain.UserProfile) error {
	if p.InsuranceStatus != "" && !p.InsuranceStatus.Valid() {
		return fmt.Errorf("%w: insurance_status must be %q or %q, got %q",
			ErrInvalidConfig, domain.InsuranceParent, domain.InsuranceSelf, p.InsuranceStatus)
	}
	switch p.Employment {
	case "", domain.EmploymentNone, domain.EmploymentEmployee:
	default:
		return fmt.Errorf("%w: unknown employment %q", ErrInvalidConfig, p.Employment)
	}
	switch p.Support {
	case "", domain.SupportFull, domain.SupportPartial, domain.SupportNone:
	default:
		return fmt.Errorf("%w: unknown support %q", ErrInvalidConfig, p.Support)
	}
	if p.BirthDate != nil && p.BirthDate.After(time.Now()) {
		return fmt.Errorf("%w: birth_date cannot be in the future", ErrInvalidConfig)
	}
	if p.FutureSelfInsuranceDate != nil && p.BirthDate != nil && p.FutureSelfInsuranceDate.Before(*p.BirthDate) {
		return fmt.Errorf("%w: future_self_insurance_date cannot precede birth_date", ErrInvalidConfig)
	}
	return nil
}

func validateMonthlyIncome(m domain.MonthlyIncome) error {
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidConfig, m.Month)
	}
	if m.Income < 0 {
		return fmt.Errorf("%w: income cannot be negative", ErrInvalidConfig)
	}
	switch m.InputMethod {
	case domain.InputManual, domain.InputBankAPI, domain.InputEstimated:
	default:
		return fmt.Errorf("%w: unknown input_method %q", ErrInvalidConfig, m.InputMethod)
	}
	return nil
}
