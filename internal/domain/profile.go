package domain

import "time"

// EmploymentInsurance describes the worker's own insurance enrolment at work
type EmploymentInsurance string

const (
	EmploymentNone     EmploymentInsurance = "none"
	EmploymentEmployee EmploymentInsurance = "employee"
)

// SupportType describes how much the family supports the worker
type SupportType string

const (
	SupportFull    SupportType = "full"
	SupportPartial SupportType = "partial"
	SupportNone    SupportType = "none"
)

// UserProfile is the persisted profile a status is computed for
type UserProfile struct {
	Name                    string              `yaml:"name" json:"name"`
	BirthDate               *time.Time          `yaml:"birth_date,omitempty" json:"birthDate,omitempty"`
	IsStudent               bool                `yaml:"is_student" json:"isStudent"`
	InsuranceStatus         InsuranceStatus     `yaml:"insurance_status,omitempty" json:"insuranceStatus,omitempty"`
	FutureSelfInsuranceDate *time.Time          `yaml:"future_self_insurance_date,omitempty" json:"futureSelfInsuranceDate,omitempty"`
	Employment              EmploymentInsurance `yaml:"employment,omitempty" json:"employment,omitempty"`
	LargeCompany            bool                `yaml:"large_company" json:"largeCompany"`
	Support                 SupportType         `yaml:"support,omitempty" json:"support,omitempty"`
}

// HasEligibilityInputs reports whether the profile carries enough to run the threshold decision
func (p *UserProfile) HasEligibilityInputs() bool {
	return p != nil && p.BirthDate != nil && p.InsuranceStatus.Valid()
}
