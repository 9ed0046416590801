package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/fuyou/internal/calculation"
	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/eligibility"
)

// ConsoleFormatter renders the styled terminal report
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(status *domain.FuyouStatus) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d年 扶養ステータス", status.Year)))
	sb.WriteString("\n\n")

	if primary, ok := status.Primary(); ok {
		var panel strings.Builder
		panel.WriteString(fmt.Sprintf("%s\n", primary.Label))
		panel.WriteString(fmt.Sprintf("%s %5.1f%%\n", ProgressBar(primary.Percentage, 30), primary.Percentage))
		panel.WriteString(AlertStyle(primary.AlertLevel).Render(primary.Message))
		if status.Eligibility != nil {
			panel.WriteString("\n")
			panel.WriteString(labelStyle.Render("適用される壁: " + eligibility.DisplayName(status.Eligibility.CurrentWallType)))
		}
		sb.WriteString(boxStyle.Render(panel.String()))
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("年収合計:  "), formatYen(status.TotalIncome)))
	sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("月平均:    "), formatYen(status.Stats.MonthlyAverage)))
	sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("予測年収:  "), formatYen(status.Stats.ProjectedAnnual)))
	sb.WriteString(fmt.Sprintf("%s %d月\n", labelStyle.Render("現在の月:  "), status.CurrentMonth))
	sb.WriteString(fmt.Sprintf("%s %s\n\n", labelStyle.Render("総合判定:  "), AlertStyle(status.OverallAlert).Render(alertLabel(status.OverallAlert))))

	sb.WriteString(titleStyle.Render("閾値ごとの状況"))
	sb.WriteString("\n")
	applicable := make(map[domain.ThresholdKey]bool, len(status.ApplicableThresholds))
	for _, k := range status.ApplicableThresholds {
		applicable[k] = true
	}
	for _, st := range sortedStatuses(status) {
		marker := " "
		switch {
		case st.Threshold == status.PrimaryThreshold:
			marker = "▶"
		case applicable[st.Threshold]:
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %-28s %12s %6.1f%% %s\n",
			marker,
			st.Label,
			calculation.FormatMan(st.Limit),
			st.Percentage,
			AlertStyle(st.AlertLevel).Render(string(st.AlertLevel))))
	}

	if len(status.Recommendations) > 0 {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render("アドバイス"))
		sb.WriteString("\n")
		for _, r := range status.Recommendations {
			sb.WriteString("• " + r + "\n")
		}
	}
	return []byte(sb.String()), nil
}

// ConsoleLiteFormatter renders an unstyled summary suited to pipes and logs
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(status *domain.FuyouStatus) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FUYOU STATUS %d\n", status.Year))
	sb.WriteString(strings.Repeat("=", 40) + "\n")
	sb.WriteString(fmt.Sprintf("Total income: %s\n", formatYen(status.TotalIncome)))
	sb.WriteString(fmt.Sprintf("Projected:    %s\n", formatYen(status.Stats.ProjectedAnnual)))
	sb.WriteString(fmt.Sprintf("Month:        %d\n", status.CurrentMonth))
	sb.WriteString(fmt.Sprintf("Overall:      %s\n", status.OverallAlert))
	if primary, ok := status.Primary(); ok {
		sb.WriteString(fmt.Sprintf("Primary:      %s (%s)\n", primary.Threshold, primary.Message))
	}
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, st := range sortedStatuses(status) {
		sb.WriteString(fmt.Sprintf("%-22s %10d %6.2f%% %s\n", st.Threshold, st.Limit, st.Percentage, st.AlertLevel))
	}
	for _, r := range status.Recommendations {
		sb.WriteString("- " + r + "\n")
	}
	return []byte(sb.String()), nil
}

// sortedStatuses orders statuses by limit, then key
func sortedStatuses(status *domain.FuyouStatus) []domain.ThresholdStatus {
	out := make([]domain.ThresholdStatus, 0, len(status.Thresholds))
	for _, st := range status.Thresholds {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Limit != out[j].Limit {
			return out[i].Limit < out[j].Limit
		}
		return out[i].Threshold < out[j].Threshold
	})
	return out
}

func alertLabel(level domain.AlertLevel) string {
	switch level {
	case domain.AlertDanger:
		return "危険"
	case domain.AlertWarning:
		return "注意"
	case domain.AlertInfo:
		return "確認"
	default:
		return "安全"
	}
}
