package onboarding

import (
	"time"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// Navigator evaluates the flow as of a fixed date. The zero value is not
// useful; construct with New.
type Navigator struct {
	at time.Time
}

// New returns a navigator evaluating age and insurance dates at at
func New(at time.Time) Navigator {
	return Navigator{at: at}
}

// At returns the evaluation date
func (n Navigator) At() time.Time {
	return n.at
}

func (n Navigator) askStudent(a domain.OnboardingAnswers) bool {
	return a.BirthDate != nil && domain.InStudentAgeBand(domain.Age(*a.BirthDate, n.at))
}

// futureInsuranceReached reports a supplied self-insurance date on or before the evaluation date
func (n Navigator) futureInsuranceReached(a domain.OnboardingAnswers) bool {
	return a.FutureSelfInsuranceDate != nil && !n.at.Before(*a.FutureSelfInsuranceDate)
}

// IsIndependentMode reports whether the answers put the person in independent mode
func (n Navigator) IsIndependentMode(a domain.OnboardingAnswers) bool {
	return domain.IsIndependent(a.InsuranceStatus, a.FutureSelfInsuranceDate, n.at)
}

// Next returns the step after current. Complete and undefined steps lead to Complete.
func (n Navigator) Next(current Step, a domain.OnboardingAnswers) Step {
	switch current {
	case StepDOB:
		if n.askStudent(a) {
			return StepStudent
		}
		return StepInsurance
	case StepStudent:
		return StepInsurance
	case StepInsurance:
		if a.InsuranceStatus == domain.InsuranceSelf {
			return StepComplete
		}
		return StepOtherInc
	case StepOtherInc:
		return StepMultiPay
	case StepMultiPay:
		return StepFutureIns
	case StepFutureIns:
		if n.futureInsuranceReached(a) {
			return StepComplete
		}
		return StepJobs
	case StepJobs:
		return StepBankLink
	default:
		return StepComplete
	}
}

// Previous returns the step before current, or false at the first step.
// Complete steps back to whichever step led into it.
func (n Navigator) Previous(current Step, a domain.OnboardingAnswers) (Step, bool) {
	switch current {
	case StepStudent:
		return StepDOB, true
	case StepInsurance:
		if n.askStudent(a) {
			return StepStudent, true
		}
		return StepDOB, true
	case StepOtherInc:
		return StepInsurance, true
	case StepMultiPay:
		return StepOtherInc, true
	case StepFutureIns:
		return StepMultiPay, true
	case StepJobs:
		return StepFutureIns, true
	case StepBankLink:
		return StepJobs, true
	case StepComplete:
		switch {
		case a.InsuranceStatus != domain.InsuranceParent:
			return StepInsurance, true
		case n.futureInsuranceReached(a):
			return StepFutureIns, true
		default:
			return StepBankLink, true
		}
	default:
		return "", false
	}
}

// ShouldShow reports whether step belongs to the flow for these answers.
// The parent-insurance steps are absent until insurance is answered, and
// the job and bank steps drop out once a self-insurance date has passed.
func (n Navigator) ShouldShow(step Step, a domain.OnboardingAnswers) bool {
	switch step {
	case StepDOB, StepInsurance, StepComplete:
		return true
	case StepStudent:
		return n.askStudent(a)
	case StepOtherInc, StepMultiPay, StepFutureIns:
		return a.InsuranceStatus == domain.InsuranceParent
	case StepJobs, StepBankLink:
		return a.InsuranceStatus == domain.InsuranceParent && !n.futureInsuranceReached(a)
	default:
		return false
	}
}

// AvailableSteps returns the applicable steps in flow order
func (n Navigator) AvailableSteps(a domain.OnboardingAnswers) []Step {
	var steps []Step
	for _, s := range allSteps {
		if n.ShouldShow(s, a) {
			steps = append(steps, s)
		}
	}
	return steps
}

// Progress is the position of current within the applicable steps as a
// rounded 0–100 percentage; a step outside the sequence reads as 0
func (n Navigator) Progress(current Step, a domain.OnboardingAnswers) int {
	steps := n.AvailableSteps(a)
	idx := -1
	for i, s := range steps {
		if s == current {
			idx = i
			break
		}
	}
	if idx < 0 || len(steps) < 2 {
		return 0
	}
	// round half up on integers
	return (idx*200 + len(steps) - 1) / (2 * (len(steps) - 1))
}

// ValidateStepAnswers reports whether step has what it needs to proceed.
// The future-insurance, job and bank steps are optional.
func ValidateStepAnswers(step Step, a domain.OnboardingAnswers) bool {
	switch step {
	case StepDOB:
		return a.BirthDate != nil
	case StepStudent:
		return a.Student != nil
	case StepInsurance:
		return a.InsuranceStatus.Valid()
	case StepOtherInc:
		return a.OtherIncome != nil
	case StepMultiPay:
		return a.MultiPay != nil
	default:
		return true
	}
}

// Transition advances from current when its answers validate. A step that
// cannot proceed is returned unchanged with ok false.
func (n Navigator) Transition(current Step, a domain.OnboardingAnswers) (next Step, ok bool) {
	if current == StepComplete || !ValidateStepAnswers(current, a) {
		return current, false
	}
	return n.Next(current, a), true
}

// Path walks the flow from the first step to Complete for fully answered input
func (n Navigator) Path(a domain.OnboardingAnswers) []Step {
	path := []Step{StepDOB}
	for step := StepDOB; step != StepComplete; {
		step = n.Next(step, a)
		path = append(path, step)
	}
	return path
}

// CompletionMessage is the closing text for the finished flow
func (n Navigator) CompletionMessage(a domain.OnboardingAnswers) string {
	if n.IsIndependentMode(a) {
		return "社会保険加入中のため、Independent Modeでご利用いただけます。"
	}
	return "オンボーディングが完了しました！扶養控除の管理を開始します。"
}
