package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/fuyou/internal/tui/tuistyles"
)

// ProgressBar displays how far through the intake flow the user is
type ProgressBar struct {
	Percent int
	Width   int
	Label   string
}

// NewProgressBar creates a progress bar at percent (0–100)
func NewProgressBar(percent int) *ProgressBar {
	return &ProgressBar{
		Percent: percent,
		Width:   30,
	}
}

// WithLabel sets the progress label
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// IsComplete returns true if progress is at 100%
func (p *ProgressBar) IsComplete() bool {
	return p.Percent >= 100
}

// Render returns the styled progress bar
func (p *ProgressBar) Render() string {
	var content strings.Builder

	if p.Label != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(p.Label))
		content.WriteString(" ")
	}

	filled := p.Width * p.Percent / 100
	if filled > p.Width {
		filled = p.Width
	}
	if filled < 0 {
		filled = 0
	}
	empty := p.Width - filled

	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	content.WriteString("[")
	if filled > 0 {
		content.WriteString(barStyle.Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		content.WriteString(emptyStyle.Render(strings.Repeat("░", empty)))
	}
	content.WriteString("] ")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(fmt.Sprintf("%d%%", p.Percent)))

	return content.String()
}
