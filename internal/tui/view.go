package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/onboarding"
	"github.com/rgehrsitz/fuyou/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	cfg := m.step.Config()

	var body strings.Builder
	body.WriteString(TitleStyle.Render(cfg.Title))
	body.WriteString("\n")
	body.WriteString(SubtitleStyle.Render(cfg.Description))
	body.WriteString("\n\n")

	switch {
	case m.step == onboarding.StepComplete:
		body.WriteString(m.renderComplete())
	case m.choices != nil:
		body.WriteString(m.choices.Render())
	default:
		body.WriteString(m.input.View())
		body.WriteString("\n")
		body.WriteString(m.renderCollected())
	}

	if m.err != nil {
		body.WriteString("\n")
		body.WriteString(ErrorStyle.Render(m.err.Error()))
		body.WriteString("\n")
	}

	progress := components.NewProgressBar(m.Progress()).WithLabel("進捗")

	return AppStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		progress.Render(),
		"",
		BorderStyle.Render(body.String()),
		m.help.View(m.keys),
	))
}

// renderCollected lists jobs or banks already entered on this step
func (m Model) renderCollected() string {
	var sb strings.Builder
	switch m.step {
	case onboarding.StepJobs:
		for _, j := range m.answers.Jobs {
			line := "• " + j.CompanyName
			if j.HourlyWage != nil {
				line += "（時給" + calculation.FormatYen(*j.HourlyWage) + "円）"
			}
			sb.WriteString(InfoStyle.Render(line) + "\n")
		}
	case onboarding.StepBankLink:
		for _, b := range m.answers.BankConnections {
			sb.WriteString(InfoStyle.Render("• "+b.BankName+" ("+string(b.ConnectionStatus)+")") + "\n")
		}
	}
	return sb.String()
}

func (m Model) renderComplete() string {
	var sb strings.Builder
	sb.WriteString(SuccessStyle.Render(m.nav.CompletionMessage(m.answers)))
	sb.WriteString("\n\n")
	if m.answers.BirthDate != nil {
		sb.WriteString("生年月日: " + m.answers.BirthDate.Format(dateLayout) + "\n")
	}
	if m.answers.InsuranceStatus != "" {
		sb.WriteString("保険: " + string(m.answers.InsuranceStatus) + "\n")
	}
	if n := len(m.answers.Jobs); n > 0 {
		sb.WriteString("勤務先: " + strings.Repeat("●", n) + "\n")
	}
	sb.WriteString("\nenterで保存して終了します")
	return sb.String()
}
