package domain

// AlertLevel is a four-band severity classification
type AlertLevel string

const (
	AlertSafe    AlertLevel = "safe"
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertDanger  AlertLevel = "danger"
)

// Severity orders alert levels: safe < info < warning < danger.
// Unrecognized levels rank below safe.
func (a AlertLevel) Severity() int {
	switch a {
	case AlertSafe:
		return 0
	case AlertInfo:
		return 1
	case AlertWarning:
		return 2
	case AlertDanger:
		return 3
	default:
		return -1
	}
}

// MaxAlert returns the more severe of two levels
func MaxAlert(a, b AlertLevel) AlertLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// ThresholdStatus is the derived position of one income total against one wall
type ThresholdStatus struct {
	Threshold        ThresholdKey `json:"threshold" yaml:"threshold"`
	Label            string       `json:"label" yaml:"label"`
	Limit            Yen          `json:"limit" yaml:"limit"`
	CurrentIncome    Yen          `json:"currentIncome" yaml:"current_income"`
	Remaining        Yen          `json:"remaining" yaml:"remaining"`
	Percentage       float64      `json:"percentage" yaml:"percentage"`
	AlertLevel       AlertLevel   `json:"alertLevel" yaml:"alert_level"`
	Message          string       `json:"message" yaml:"message"`
	IsOverLimit      bool         `json:"isOverLimit" yaml:"is_over_limit"`
	MonthlyAllowance Yen          `json:"monthlyAllowance" yaml:"monthly_allowance"`
	Unknown          bool         `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// InputMethod records how a month's income figure was obtained
type InputMethod string

const (
	InputManual    InputMethod = "manual"
	InputBankAPI   InputMethod = "bank_api"
	InputEstimated InputMethod = "estimated"
)

// MonthlyIncome is one month of recorded or estimated income
type MonthlyIncome struct {
	Month       int         `yaml:"month" json:"month"`
	Income      Yen         `yaml:"income" json:"income"`
	IsEstimated bool        `yaml:"is_estimated" json:"isEstimated"`
	InputMethod InputMethod `yaml:"input_method" json:"inputMethod"`
}

// MonthlyProgress is one row of the month-by-month running total
type MonthlyProgress struct {
	Month            int         `json:"month" yaml:"month"`
	Income           Yen         `json:"income" yaml:"income"`
	CumulativeIncome Yen         `json:"cumulativeIncome" yaml:"cumulative_income"`
	IsEstimated      bool        `json:"isEstimated" yaml:"is_estimated"`
	InputMethod      InputMethod `json:"inputMethod" yaml:"input_method"`
}

// AnnualStats summarizes a year of monthly income
type AnnualStats struct {
	TotalIncome     Yen `json:"totalIncome" yaml:"total_income"`
	MonthlyAverage  Yen `json:"monthlyAverage" yaml:"monthly_average"`
	ProjectedAnnual Yen `json:"projectedAnnual" yaml:"projected_annual"`
	CurrentMonth    int `json:"currentMonth" yaml:"current_month"`
}

// FuyouStatus combines every threshold status into one user-facing view
type FuyouStatus struct {
	Year                 int                              `json:"year" yaml:"year"`
	Thresholds           map[ThresholdKey]ThresholdStatus `json:"thresholds" yaml:"thresholds"`
	ApplicableThresholds []ThresholdKey                   `json:"applicableThresholds" yaml:"applicable_thresholds"`
	PrimaryThreshold     ThresholdKey                     `json:"primaryThreshold" yaml:"primary_threshold"`
	TotalIncome          Yen                              `json:"totalIncome" yaml:"total_income"`
	CurrentMonth         int                              `json:"currentMonth" yaml:"current_month"`
	Stats                AnnualStats                      `json:"stats" yaml:"stats"`
	MonthlyData          []MonthlyProgress                `json:"monthlyData" yaml:"monthly_data"`
	OverallAlert         AlertLevel                       `json:"overallAlert" yaml:"overall_alert"`
	Recommendations      []string                         `json:"recommendations" yaml:"recommendations"`
	Eligibility          *EligibilityResult               `json:"eligibility,omitempty" yaml:"eligibility,omitempty"`
}

// Primary returns the status of the primary threshold
func (s *FuyouStatus) Primary() (ThresholdStatus, bool) {
	st, ok := s.Thresholds[s.PrimaryThreshold]
	return st, ok
}

// ImpactType classifies the direction of a threshold change
type ImpactType string

const (
	ImpactPositive ImpactType = "positive"
	ImpactNegative ImpactType = "negative"
	ImpactNeutral  ImpactType = "neutral"
)

// ThresholdImpact describes what moving a wall means for the user
type ThresholdImpact struct {
	ImpactAmount      Yen        `json:"impactAmount" yaml:"impact_amount"`
	ImpactType        ImpactType `json:"impactType" yaml:"impact_type"`
	ImpactDescription string     `json:"impactDescription" yaml:"impact_description"`
}

// ThresholdChange is one key whose yen value differs between two years
type ThresholdChange struct {
	Key         ThresholdKey `json:"key" yaml:"key"`
	Label       string       `json:"label" yaml:"label"`
	PreviousYen Yen          `json:"previousYen" yaml:"previous_yen"`
	NewYen      Yen          `json:"newYen" yaml:"new_yen"`
	Difference  Yen          `json:"difference" yaml:"difference"`
}
