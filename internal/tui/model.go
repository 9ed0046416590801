// Package tui is the interactive onboarding wizard. The flow itself lives in
// internal/onboarding; this package only collects answers and renders steps.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/onboarding"
	"github.com/rgehrsitz/fuyou/internal/tui/components"
)

const dateLayout = "2006-01-02"

// Model is the wizard state
type Model struct {
	nav     onboarding.Navigator
	step    onboarding.Step
	answers domain.OnboardingAnswers

	input   textinput.Model
	choices *components.ChoiceList
	keys    keyMap
	help    help.Model

	newID func() string

	err       error
	width     int
	height    int
	done      bool
	cancelled bool
}

// Option configures the Model
type Option func(*Model)

// WithIDGenerator sets the generator for job and bank connection IDs
func WithIDGenerator(f func() string) Option {
	return func(m *Model) {
		m.newID = f
	}
}

// WithAnswers resumes the flow from previously saved answers
func WithAnswers(a domain.OnboardingAnswers) Option {
	return func(m *Model) {
		m.answers = a
	}
}

// NewModel creates a wizard evaluated at the given date
func NewModel(at time.Time, opts ...Option) Model {
	m := Model{
		nav:    onboarding.New(at),
		step:   onboarding.StepDOB,
		keys:   defaultKeyMap(),
		help:   help.New(),
		newID:  uuid.NewString,
		width:  80,
		height: 24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.prepareStep()
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Step is the step currently shown
func (m Model) Step() onboarding.Step { return m.step }

// Answers returns the answers collected so far
func (m Model) Answers() domain.OnboardingAnswers { return m.answers }

// Done reports whether the user confirmed the completion screen
func (m Model) Done() bool { return m.done }

// Cancelled reports whether the user aborted the flow
func (m Model) Cancelled() bool { return m.cancelled }

// Err is the validation error shown on the current step, if any
func (m Model) Err() error { return m.err }

// Progress is the completion percentage of the current step
func (m Model) Progress() int {
	return m.nav.Progress(m.step, m.answers)
}

// prepareStep resets the input widgets for the current step
func (m *Model) prepareStep() {
	m.choices = nil
	m.input = textinput.New()
	m.input.CharLimit = 64

	switch m.step {
	case onboarding.StepDOB:
		m.input.Placeholder = "2004-05-10"
		if m.answers.BirthDate != nil {
			m.input.SetValue(m.answers.BirthDate.Format(dateLayout))
		}
	case onboarding.StepStudent:
		m.choices = yesNo(m.answers.Student)
	case onboarding.StepOtherInc:
		m.choices = yesNo(m.answers.OtherIncome)
	case onboarding.StepMultiPay:
		m.choices = yesNo(m.answers.MultiPay)
	case onboarding.StepInsurance:
		m.choices = components.NewChoiceList(
			components.Option{Label: "親の扶養に入っている", Value: string(domain.InsuranceParent)},
			components.Option{Label: "自分で社会保険に加入している", Value: string(domain.InsuranceSelf)},
		)
		m.choices.Select(string(m.answers.InsuranceStatus))
	case onboarding.StepFutureIns:
		m.input.Placeholder = "2026-04-01（予定がなければ空欄）"
		if m.answers.FutureSelfInsuranceDate != nil {
			m.input.SetValue(m.answers.FutureSelfInsuranceDate.Format(dateLayout))
		}
	case onboarding.StepJobs:
		m.input.Placeholder = "勤務先名,時給（空欄で次へ）"
	case onboarding.StepBankLink:
		m.input.Placeholder = "銀行名（空欄で次へ）"
	}
	if m.choices == nil && m.step != onboarding.StepComplete {
		m.input.Focus()
	}
}

func yesNo(current *bool) *components.ChoiceList {
	c := components.NewChoiceList(
		components.Option{Label: "はい", Value: "yes"},
		components.Option{Label: "いいえ", Value: "no"},
	)
	if current != nil && !*current {
		c.Select("no")
	}
	return c
}
