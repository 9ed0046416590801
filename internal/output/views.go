package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/eligibility"
	"github.com/rgehrsitz/fuyou/internal/thresholds"
)

// EligibilityView pairs the decision with its breakdown against an income figure
type EligibilityView struct {
	Result    domain.EligibilityResult `json:"result" yaml:"result"`
	Breakdown *eligibility.Breakdown   `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
}

// ImpactView is one threshold move and its effect
type ImpactView struct {
	CurrentIncome domain.Yen             `json:"currentIncome" yaml:"current_income"`
	OldThreshold  domain.Yen             `json:"oldThreshold" yaml:"old_threshold"`
	NewThreshold  domain.Yen             `json:"newThreshold" yaml:"new_threshold"`
	Impact        domain.ThresholdImpact `json:"impact" yaml:"impact"`
}

func isStructured(format string) bool {
	switch format {
	case "json", "yaml", "yml":
		return true
	}
	return false
}

// WriteThresholds renders a threshold map, lowest wall first
func WriteThresholds(w io.Writer, year int, m domain.ThresholdMap, format string) error {
	if isStructured(format) {
		return Encode(w, struct {
			Year       int                `json:"year" yaml:"year"`
			Thresholds []domain.Threshold `json:"thresholds" yaml:"thresholds"`
		}{year, m.Sorted()}, format)
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d年の閾値", year)))
	sb.WriteString("\n")
	for _, t := range m.Sorted() {
		sb.WriteString(fmt.Sprintf("%-24s %-7s %12s  %s\n", t.Key, t.Kind, formatYen(t.Yen), t.Label))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteHealth renders the registry health report
func WriteHealth(w io.Writer, h thresholds.Health, format string) error {
	if isStructured(format) {
		return Encode(w, h, format)
	}
	var sb strings.Builder
	state := AlertStyle(domain.AlertSafe).Render("healthy")
	if !h.IsHealthy {
		state = AlertStyle(domain.AlertWarning).Render("degraded")
	}
	sb.WriteString(fmt.Sprintf("status:     %s\n", state))
	sb.WriteString(fmt.Sprintf("source:     %s\n", h.Source))
	sb.WriteString(fmt.Sprintf("thresholds: %d\n", h.ThresholdCount))
	if h.Resolved {
		sb.WriteString(fmt.Sprintf("year:       %d\n", h.Year))
		sb.WriteString(fmt.Sprintf("resolved:   %s\n", h.ResolvedAt.Format("2006-01-02 15:04:05")))
	} else {
		sb.WriteString("resolved:   not yet\n")
	}
	if h.LastError != "" {
		sb.WriteString(fmt.Sprintf("last error: %s\n", h.LastError))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteEligibility renders the wall decision and, when present, its breakdown
func WriteEligibility(w io.Writer, v EligibilityView, format string) error {
	if isStructured(format) {
		return Encode(w, v, format)
	}
	var sb strings.Builder
	r := v.Result
	sb.WriteString(titleStyle.Render(eligibility.DisplayName(r.CurrentWallType)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("適用される壁: %s\n", calculation.FormatMan(r.CurrentWall)))
	sb.WriteString(fmt.Sprintf("住民税の壁:   %s\n", calculation.FormatMan(r.ResidentWall)))
	mode := "扶養内"
	if r.IsIndependentMode {
		mode = "独立（自分で保険加入）"
	}
	sb.WriteString(fmt.Sprintf("モード:       %s\n", mode))
	if b := v.Breakdown; b != nil {
		sb.WriteString(fmt.Sprintf("\n現在の収入:   %s (%.2f%%)\n", formatYen(b.CurrentIncome), b.Percentage))
		sb.WriteString(fmt.Sprintf("残り:         %s\n", formatYen(b.RemainingAllowance)))
		sb.WriteString(fmt.Sprintf("残りの月数:   %d\n", b.RemainingMonths))
		sb.WriteString(fmt.Sprintf("月の目安:     %s\n", formatYen(b.RecommendedMonthlyIncome)))
		sb.WriteString(fmt.Sprintf("危険度:       %s\n", AlertStyle(dangerAlert(b.DangerLevel)).Render(string(b.DangerLevel))))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func dangerAlert(d eligibility.DangerLevel) domain.AlertLevel {
	switch d {
	case eligibility.DangerDanger:
		return domain.AlertDanger
	case eligibility.DangerWarn:
		return domain.AlertWarning
	default:
		return domain.AlertSafe
	}
}

// WriteImpact renders one impact analysis
func WriteImpact(w io.Writer, v ImpactView, format string) error {
	if isStructured(format) {
		return Encode(w, v, format)
	}
	level := domain.AlertSafe
	switch v.Impact.ImpactType {
	case domain.ImpactNegative:
		level = domain.AlertDanger
	case domain.ImpactNeutral:
		level = domain.AlertInfo
	}
	_, err := fmt.Fprintf(w, "%s → %s (%s)\n%s\n",
		calculation.FormatMan(v.OldThreshold),
		calculation.FormatMan(v.NewThreshold),
		AlertStyle(level).Render(string(v.Impact.ImpactType)),
		v.Impact.ImpactDescription)
	return err
}

// WritePreview renders the per-key changes of a year preview
func WritePreview(w io.Writer, p calculation.YearPreview, format string) error {
	if isStructured(format) {
		return Encode(w, p, format)
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d年 → %d年の変更", p.BaselineYear, p.Year)))
	sb.WriteString("\n")
	if len(p.Changes) == 0 {
		sb.WriteString("変更はありません\n")
	}
	for _, c := range p.Changes {
		sign := "+"
		if c.Difference < 0 {
			sign = "-"
		}
		diff := c.Difference
		if diff < 0 {
			diff = -diff
		}
		sb.WriteString(fmt.Sprintf("%-24s %12s → %12s (%s%s)\n",
			c.Key, calculation.FormatMan(c.PreviousYen), calculation.FormatMan(c.NewYen), sign, calculation.FormatMan(diff)))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
