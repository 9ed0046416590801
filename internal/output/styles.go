package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/domain"
)

var (
	colorSafe    = lipgloss.Color("#10B981")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorWarning = lipgloss.Color("#F59E0B")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// AlertStyle returns the color style for an alert level
func AlertStyle(level domain.AlertLevel) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch level {
	case domain.AlertDanger:
		return s.Foreground(colorDanger)
	case domain.AlertWarning:
		return s.Foreground(colorWarning)
	case domain.AlertInfo:
		return s.Foreground(colorInfo)
	default:
		return s.Foreground(colorSafe)
	}
}

// ProgressBar draws a fixed-width bar for a percentage, capped at full
func ProgressBar(percentage float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percentage / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}

func formatYen(y domain.Yen) string {
	return calculation.FormatYen(y) + "円"
}
