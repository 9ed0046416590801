package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/onboarding"
)

var evalDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestModel(opts ...Option) Model {
	n := 0
	ids := WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	return NewModel(evalDate, append([]Option{ids}, opts...)...)
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(s string) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestWizardStudentParentFlow(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, onboarding.StepDOB, m.Step())
	assert.Equal(t, 0, m.Progress())

	m = send(t, m, typeText("2005-01-15"), enter)
	require.NoError(t, m.Err())
	assert.Equal(t, onboarding.StepStudent, m.Step(), "a 20-year-old is asked about school")

	m = send(t, m, enter) // はい
	require.NotNil(t, m.Answers().Student)
	assert.True(t, *m.Answers().Student)
	assert.Equal(t, onboarding.StepInsurance, m.Step())

	m = send(t, m, enter) // parent
	assert.Equal(t, domain.InsuranceParent, m.Answers().InsuranceStatus)
	assert.Equal(t, onboarding.StepOtherInc, m.Step())

	m = send(t, m, down, enter) // いいえ
	assert.False(t, *m.Answers().OtherIncome)
	m = send(t, m, enter) // はい
	assert.True(t, *m.Answers().MultiPay)
	assert.Equal(t, onboarding.StepFutureIns, m.Step())

	m = send(t, m, enter) // skip
	assert.Nil(t, m.Answers().FutureSelfInsuranceDate)
	assert.Equal(t, onboarding.StepJobs, m.Step())

	m = send(t, m, typeText("カフェ,1,200"), enter, typeText("塾"), enter)
	assert.Equal(t, onboarding.StepJobs, m.Step(), "jobs keep collecting until an empty entry")
	jobs := m.Answers().Jobs
	require.Len(t, jobs, 2)
	assert.Equal(t, "id-1", jobs[0].ID)
	assert.True(t, jobs[0].IsPrimary)
	require.NotNil(t, jobs[0].HourlyWage)
	assert.Equal(t, domain.Yen(1_200), *jobs[0].HourlyWage)
	assert.False(t, jobs[1].IsPrimary)
	assert.Nil(t, jobs[1].HourlyWage)

	m = send(t, m, enter)
	assert.Equal(t, onboarding.StepBankLink, m.Step())
	m = send(t, m, typeText("ゆうちょ銀行"), enter, enter)
	require.Len(t, m.Answers().BankConnections, 1)
	assert.Equal(t, domain.ConnectionPending, m.Answers().BankConnections[0].ConnectionStatus)
	assert.Equal(t, onboarding.StepComplete, m.Step())
	assert.Equal(t, 100, m.Progress())
	assert.Contains(t, m.View(), "オンボーディングが完了しました")

	next, cmd := m.Update(enter)
	m = next.(Model)
	assert.True(t, m.Done())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWizardSelfInsuredShortCircuits(t *testing.T) {
	m := newTestModel()
	m = send(t, m, typeText("1990-03-03"), enter)
	assert.Equal(t, onboarding.StepInsurance, m.Step(), "no student question outside the age band")

	m = send(t, m, down, enter)
	assert.Equal(t, domain.InsuranceSelf, m.Answers().InsuranceStatus)
	assert.Equal(t, onboarding.StepComplete, m.Step())
	assert.Contains(t, m.View(), "Independent Mode")

	m = send(t, m, esc)
	assert.Equal(t, onboarding.StepInsurance, m.Step())
}

func TestWizardValidation(t *testing.T) {
	m := newTestModel()

	m = send(t, m, enter)
	assert.ErrorIs(t, m.Err(), errRequired)
	assert.Equal(t, onboarding.StepDOB, m.Step())

	m = send(t, m, typeText("15/01/2005"), enter)
	assert.ErrorIs(t, m.Err(), errDateFormat)
	assert.Contains(t, m.View(), errDateFormat.Error())

	m = newTestModel()
	m = send(t, m, typeText("2030-01-01"), enter)
	assert.ErrorIs(t, m.Err(), errFutureBirth)
}

func TestWizardPastFutureInsuranceSkipsJobs(t *testing.T) {
	m := newTestModel()
	m = send(t, m, typeText("1990-03-03"), enter, enter, enter, enter)
	require.Equal(t, onboarding.StepFutureIns, m.Step())

	m = send(t, m, typeText("2025-04-01"), enter)
	assert.Equal(t, onboarding.StepComplete, m.Step())
	assert.Contains(t, m.View(), "Independent Mode")

	m = send(t, m, esc)
	assert.Equal(t, onboarding.StepFutureIns, m.Step())
}

func TestWizardBackKeepsAnswers(t *testing.T) {
	m := newTestModel()
	m = send(t, m, typeText("2005-01-15"), enter, down, enter)
	require.Equal(t, onboarding.StepInsurance, m.Step())

	m = send(t, m, esc)
	assert.Equal(t, onboarding.StepStudent, m.Step())
	sel, ok := m.choices.Selected()
	require.True(t, ok)
	assert.Equal(t, "no", sel.Value, "previous answer is preselected")

	m = send(t, m, esc)
	assert.Equal(t, onboarding.StepDOB, m.Step())
	assert.Equal(t, "2005-01-15", m.input.Value())

	m = send(t, m, esc)
	assert.Equal(t, onboarding.StepDOB, m.Step(), "first step has no previous")
}

func TestWizardResumeAndCancel(t *testing.T) {
	self := domain.InsuranceSelf
	m := newTestModel(WithAnswers(domain.OnboardingAnswers{InsuranceStatus: self}))
	assert.Equal(t, self, m.Answers().InsuranceStatus)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	assert.True(t, m.Cancelled())
	assert.False(t, m.Done())
	require.NotNil(t, cmd)
}

func TestParseJob(t *testing.T) {
	job, err := parseJob("コンビニ, 1,050円")
	require.NoError(t, err)
	assert.Equal(t, "コンビニ", job.CompanyName)
	assert.Equal(t, domain.Yen(1_050), *job.HourlyWage)

	_, err = parseJob(",1000")
	assert.ErrorIs(t, err, errEmptyCompany)
	_, err = parseJob("店,abc")
	assert.ErrorIs(t, err, errWageFormat)
}

func TestWindowSize(t *testing.T) {
	m := send(t, newTestModel(), tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
