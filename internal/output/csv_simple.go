package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// CSVSummarizer writes one row per threshold status
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(status *domain.FuyouStatus) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Threshold", "Label", "Limit", "CurrentIncome", "Remaining", "Percentage", "AlertLevel", "IsOverLimit", "MonthlyAllowance", "Applicable", "Primary"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	applicable := make(map[domain.ThresholdKey]bool, len(status.ApplicableThresholds))
	for _, k := range status.ApplicableThresholds {
		applicable[k] = true
	}
	for _, st := range sortedStatuses(status) {
		row := []string{
			string(st.Threshold),
			st.Label,
			yenToString(st.Limit),
			yenToString(st.CurrentIncome),
			yenToString(st.Remaining),
			strconv.FormatFloat(st.Percentage, 'f', 2, 64),
			string(st.AlertLevel),
			strconv.FormatBool(st.IsOverLimit),
			yenToString(st.MonthlyAllowance),
			strconv.FormatBool(applicable[st.Threshold]),
			strconv.FormatBool(st.Threshold == status.PrimaryThreshold),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes the month-by-month running total
type DetailedCSVFormatter struct{}

func (c DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (c DetailedCSVFormatter) Format(status *domain.FuyouStatus) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Year", "Month", "Income", "CumulativeIncome", "IsEstimated", "InputMethod"}); err != nil {
		return nil, err
	}
	year := strconv.Itoa(status.Year)
	for _, m := range status.MonthlyData {
		row := []string{
			year,
			strconv.Itoa(m.Month),
			yenToString(m.Income),
			yenToString(m.CumulativeIncome),
			strconv.FormatBool(m.IsEstimated),
			string(m.InputMethod),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func yenToString(y domain.Yen) string {
	return strconv.FormatInt(int64(y), 10)
}
