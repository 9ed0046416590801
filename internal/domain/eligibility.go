package domain

import "time"

// WallType names the wall that governs a person's dependency status
type WallType string

const (
	WallResident        WallType = "resident"
	WallIncomeGeneral   WallType = "incomeGeneral"
	WallIncomeStudent   WallType = "incomeStudent"
	WallSocialInsurance WallType = "socialInsurance"
)

// ThresholdKey maps a wall type onto the registry key that carries its value
func (w WallType) ThresholdKey() ThresholdKey {
	switch w {
	case WallResident:
		return ResidentTax110
	case WallIncomeGeneral:
		return IncomeTax123
	case WallIncomeStudent:
		return StudentDependent150
	case WallSocialInsurance:
		return SocialInsurance130
	default:
		return ""
	}
}

// InsuranceStatus says whose health insurance covers the person
type InsuranceStatus string

const (
	InsuranceParent InsuranceStatus = "parent"
	InsuranceSelf   InsuranceStatus = "self"
)

// Valid reports whether the status is one of the two defined values
func (s InsuranceStatus) Valid() bool {
	return s == InsuranceParent || s == InsuranceSelf
}

// EligibilityResult is the outcome of the threshold decision
type EligibilityResult struct {
	CurrentWall       Yen      `json:"currentWall" yaml:"current_wall"`
	CurrentWallType   WallType `json:"currentWallType" yaml:"current_wall_type"`
	ResidentWall      Yen      `json:"residentWall" yaml:"resident_wall"`
	IsIndependentMode bool     `json:"isIndependentMode" yaml:"is_independent_mode"`
}

// Student dependent age band, inclusive on both ends
const (
	StudentMinAge = 19
	StudentMaxAge = 22
)

// Age returns whole elapsed years between dob and at, never negative
func Age(dob, at time.Time) int {
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// InStudentAgeBand reports whether age falls in the specific-dependent band
func InStudentAgeBand(age int) bool {
	return age >= StudentMinAge && age <= StudentMaxAge
}

// IsIndependent reports whether the person is (or has become) self-insured at the given date
func IsIndependent(status InsuranceStatus, futureSelfInsurance *time.Time, at time.Time) bool {
	if status == InsuranceSelf {
		return true
	}
	return futureSelfInsurance != nil && !at.Before(*futureSelfInsurance)
}
