package domain

import "time"

// ConnectionStatus is the state of a linked bank account
type ConnectionStatus string

const (
	ConnectionPending ConnectionStatus = "pending"
	ConnectionActive  ConnectionStatus = "active"
	ConnectionFailed  ConnectionStatus = "failed"
)

// Job is one employer the worker receives pay from
type Job struct {
	ID            string `yaml:"id,omitempty" json:"id,omitempty"`
	CompanyName   string `yaml:"company_name" json:"companyName"`
	HourlyWage    *Yen   `yaml:"hourly_wage,omitempty" json:"hourlyWage,omitempty"`
	MonthlySalary *Yen   `yaml:"monthly_salary,omitempty" json:"monthlySalary,omitempty"`
	IsPrimary     bool   `yaml:"is_primary" json:"isPrimary"`
}

// BankConnection is one linked account used to track pay deposits
type BankConnection struct {
	ID               string           `yaml:"id,omitempty" json:"id,omitempty"`
	BankName         string           `yaml:"bank_name" json:"bankName"`
	AccountID        string           `yaml:"account_id" json:"accountId"`
	ConnectionStatus ConnectionStatus `yaml:"connection_status" json:"connectionStatus"`
}

// OnboardingAnswers accumulates answers across the intake flow. A nil
// pointer means the question has not been answered yet.
type OnboardingAnswers struct {
	BirthDate               *time.Time       `yaml:"birth_date,omitempty" json:"birthDate,omitempty"`
	Student                 *bool            `yaml:"student,omitempty" json:"student,omitempty"`
	InsuranceStatus         InsuranceStatus  `yaml:"insurance_status,omitempty" json:"insuranceStatus,omitempty"`
	OtherIncome             *bool            `yaml:"other_income,omitempty" json:"otherIncome,omitempty"`
	MultiPay                *bool            `yaml:"multi_pay,omitempty" json:"multiPay,omitempty"`
	FutureSelfInsuranceDate *time.Time       `yaml:"future_self_insurance_date,omitempty" json:"futureSelfInsuranceDate,omitempty"`
	Jobs                    []Job            `yaml:"jobs,omitempty" json:"jobs,omitempty"`
	BankConnections         []BankConnection `yaml:"bank_connections,omitempty" json:"bankConnections,omitempty"`
}

// Profile converts finished answers into the profile shape used for status calculation
func (a OnboardingAnswers) Profile(name string) UserProfile {
	p := UserProfile{
		Name:                    name,
		BirthDate:               a.BirthDate,
		InsuranceStatus:         a.InsuranceStatus,
		FutureSelfInsuranceDate: a.FutureSelfInsuranceDate,
		Support:                 SupportFull,
	}
	if a.Student != nil {
		p.IsStudent = *a.Student
	}
	if a.InsuranceStatus == InsuranceSelf {
		p.Employment = EmploymentEmployee
		p.Support = SupportNone
	}
	return p
}
