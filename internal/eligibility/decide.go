// Package eligibility decides which income wall currently governs a
// person's dependency status.
package eligibility

import (
	"time"

	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/thresholds"
)

// Walls carries the yen value of each wall type
type Walls struct {
	Resident        domain.Yen `yaml:"resident" json:"resident"`
	IncomeGeneral   domain.Yen `yaml:"income_general" json:"incomeGeneral"`
	IncomeStudent   domain.Yen `yaml:"income_student" json:"incomeStudent"`
	SocialInsurance domain.Yen `yaml:"social_insurance" json:"socialInsurance"`
}

// Of returns the value of one wall type; unknown types are zero
func (w Walls) Of(t domain.WallType) domain.Yen {
	switch t {
	case domain.WallResident:
		return w.Resident
	case domain.WallIncomeGeneral:
		return w.IncomeGeneral
	case domain.WallIncomeStudent:
		return w.IncomeStudent
	case domain.WallSocialInsurance:
		return w.SocialInsurance
	default:
		return 0
	}
}

// DefaultWalls returns the compiled-in wall values
func DefaultWalls() Walls {
	return WallsFromThresholds(nil)
}

// WallsFromThresholds reads each wall from m, falling back to the
// compiled-in threshold for any key m does not carry
func WallsFromThresholds(m domain.ThresholdMap) Walls {
	value := func(t domain.WallType) domain.Yen {
		key := t.ThresholdKey()
		if th, ok := m[key]; ok {
			return th.Yen
		}
		yen, _ := thresholds.FallbackYen(key)
		return yen
	}
	return Walls{
		Resident:        value(domain.WallResident),
		IncomeGeneral:   value(domain.WallIncomeGeneral),
		IncomeStudent:   value(domain.WallIncomeStudent),
		SocialInsurance: value(domain.WallSocialInsurance),
	}
}

// Params are the inputs of the threshold decision
type Params struct {
	BirthDate               time.Time
	Student                 bool
	InsuranceStatus         domain.InsuranceStatus
	FutureSelfInsuranceDate *time.Time
	// EvaluationDate defaults to the current time when zero
	EvaluationDate time.Time
}

// ParamsFromProfile builds decision inputs from a profile. ok is false when
// the profile lacks a birth date or insurance status.
func ParamsFromProfile(p domain.UserProfile, at time.Time) (Params, bool) {
	if !p.HasEligibilityInputs() {
		return Params{}, false
	}
	return Params{
		BirthDate:               *p.BirthDate,
		Student:                 p.IsStudent,
		InsuranceStatus:         p.InsuranceStatus,
		FutureSelfInsuranceDate: p.FutureSelfInsuranceDate,
		EvaluationDate:          at,
	}, true
}

// DecideThreshold selects the wall in force using the compiled-in values
func DecideThreshold(p Params) domain.EligibilityResult {
	return Decide(p, DefaultWalls())
}

// Decide selects the wall in force:
//   - self insured, or past the future self-insurance date: social insurance
//   - student aged 19 to 22: specific dependent
//   - otherwise: general dependent
//
// The resident-tax wall is always reported alongside.
func Decide(p Params, walls Walls) domain.EligibilityResult {
	at := p.EvaluationDate
	if at.IsZero() {
		at = time.Now()
	}

	independent := domain.IsIndependent(p.InsuranceStatus, p.FutureSelfInsuranceDate, at)

	var wallType domain.WallType
	switch {
	case independent:
		wallType = domain.WallSocialInsurance
	case p.Student && domain.InStudentAgeBand(domain.Age(p.BirthDate, at)):
		wallType = domain.WallIncomeStudent
	default:
		wallType = domain.WallIncomeGeneral
	}

	return domain.EligibilityResult{
		CurrentWall:       walls.Of(wallType),
		CurrentWallType:   wallType,
		ResidentWall:      walls.Resident,
		IsIndependentMode: independent,
	}
}

// DisplayName returns the Japanese name of a wall type
func DisplayName(t domain.WallType) string {
	switch t {
	case domain.WallResident:
		return "住民税非課税限度額"
	case domain.WallIncomeGeneral:
		return "所得税扶養控除限度額"
	case domain.WallIncomeStudent:
		return "特定扶養控除限度額"
	case domain.WallSocialInsurance:
		return "社会保険扶養限度額"
	default:
		return string(t)
	}
}
