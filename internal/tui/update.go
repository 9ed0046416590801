package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/onboarding"
)

var (
	errDateFormat    = errors.New("日付はYYYY-MM-DD形式で入力してください")
	errFutureBirth   = errors.New("生年月日に未来の日付は指定できません")
	errRequired      = errors.New("この項目は必須です")
	errWageFormat    = errors.New("時給は数字で入力してください")
	errEmptyCompany  = errors.New("勤務先名を入力してください")
	errNothingChosen = errors.New("選択肢を選んでください")
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Back):
		if prev, ok := m.nav.Previous(m.step, m.answers); ok {
			m.step = prev
			m.err = nil
			m.prepareStep()
		}
		return m, nil
	}

	if m.choices != nil {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.choices.Up()
		case key.Matches(msg, m.keys.Down):
			m.choices.Down()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit records the current step's input and advances when it validates
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.step == onboarding.StepComplete {
		m.done = true
		return m, tea.Quit
	}

	stay, err := m.apply()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	if stay {
		m.input.SetValue("")
		return m, nil
	}

	next, ok := m.nav.Transition(m.step, m.answers)
	if !ok {
		m.err = errRequired
		return m, nil
	}
	m.step = next
	m.prepareStep()
	return m, nil
}

// apply writes the widget value into the answers. stay is true when the
// step accepted an entry but keeps collecting more (jobs, banks).
func (m *Model) apply() (stay bool, err error) {
	value := strings.TrimSpace(m.input.Value())

	switch m.step {
	case onboarding.StepDOB:
		if value == "" {
			return false, errRequired
		}
		dob, err := m.parseDate(value)
		if err != nil {
			return false, err
		}
		if dob.After(m.nav.At()) {
			return false, errFutureBirth
		}
		m.answers.BirthDate = &dob

	case onboarding.StepStudent:
		v, err := m.chosenBool()
		if err != nil {
			return false, err
		}
		m.answers.Student = &v

	case onboarding.StepOtherInc:
		v, err := m.chosenBool()
		if err != nil {
			return false, err
		}
		m.answers.OtherIncome = &v

	case onboarding.StepMultiPay:
		v, err := m.chosenBool()
		if err != nil {
			return false, err
		}
		m.answers.MultiPay = &v

	case onboarding.StepInsurance:
		opt, ok := m.choices.Selected()
		if !ok {
			return false, errNothingChosen
		}
		m.answers.InsuranceStatus = domain.InsuranceStatus(opt.Value)

	case onboarding.StepFutureIns:
		if value == "" {
			m.answers.FutureSelfInsuranceDate = nil
			return false, nil
		}
		d, err := m.parseDate(value)
		if err != nil {
			return false, err
		}
		m.answers.FutureSelfInsuranceDate = &d

	case onboarding.StepJobs:
		if value == "" {
			return false, nil
		}
		job, err := parseJob(value)
		if err != nil {
			return false, err
		}
		job.ID = m.newID()
		job.IsPrimary = len(m.answers.Jobs) == 0
		m.answers.Jobs = append(m.answers.Jobs, job)
		return true, nil

	case onboarding.StepBankLink:
		if value == "" {
			return false, nil
		}
		m.answers.BankConnections = append(m.answers.BankConnections, domain.BankConnection{
			ID:               m.newID(),
			BankName:         value,
			AccountID:        m.newID(),
			ConnectionStatus: domain.ConnectionPending,
		})
		return true, nil
	}
	return false, nil
}

func (m *Model) parseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, value, m.nav.At().Location())
	if err != nil {
		return time.Time{}, errDateFormat
	}
	return d, nil
}

func (m *Model) chosenBool() (bool, error) {
	opt, ok := m.choices.Selected()
	if !ok {
		return false, errNothingChosen
	}
	return opt.Value == "yes", nil
}

// parseJob reads "company" or "company,hourly wage"
func parseJob(value string) (domain.Job, error) {
	name, wage, hasWage := strings.Cut(value, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Job{}, errEmptyCompany
	}
	job := domain.Job{CompanyName: name}
	if hasWage {
		raw := strings.NewReplacer(",", "", "円", "", " ", "").Replace(wage)
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return domain.Job{}, fmt.Errorf("%w: %q", errWageFormat, strings.TrimSpace(wage))
		}
		y := domain.Yen(n)
		job.HourlyWage = &y
	}
	return job, nil
}
