// Package tuistyles holds the wizard palette so components and the root
// model can share it without an import cycle.
package tuistyles

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorDanger  = lipgloss.Color("#EF4444")
	ColorInfo    = lipgloss.Color("#3B82F6")

	ColorForeground = lipgloss.Color("#F9FAFB")
	ColorMuted      = lipgloss.Color("#9CA3AF")
	ColorBorder     = lipgloss.Color("#4B5563")

	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	SelectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)
