package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rgehrsitz/fuyou/internal/domain"
	"github.com/rgehrsitz/fuyou/internal/eligibility"
	"github.com/rgehrsitz/fuyou/internal/thresholds"
)

// AggregateInput is everything the aggregator reads
type AggregateInput struct {
	Profile domain.UserProfile
	History []domain.MonthlyIncome
	Year    int
	// Thresholds defaults to the compiled-in map when nil
	Thresholds domain.ThresholdMap
	// AsOf fixes the current month and the eligibility evaluation date.
	// Zero means now.
	AsOf time.Time
}

// CurrentMonth is the month the year has reached as of at: December for a
// past year, January for a future one
func CurrentMonth(year int, at time.Time) int {
	switch {
	case at.Year() > year:
		return 12
	case at.Year() < year:
		return 1
	default:
		return int(at.Month())
	}
}

// ApplicableThresholds lists the walls that bind a profile, lowest first:
//   - the 103 income-tax wall always
//   - 106 for an employee of a large company
//   - otherwise 130 for an employee or a partly supported worker
//   - the 150 spouse wall for a supported non-student
func ApplicableThresholds(p domain.UserProfile) []domain.ThresholdKey {
	keys := []domain.ThresholdKey{domain.IncomeTax103}
	switch {
	case p.Employment == domain.EmploymentEmployee && p.LargeCompany:
		keys = append(keys, domain.SocialInsurance106)
	case p.Employment == domain.EmploymentEmployee || p.Support == domain.SupportPartial:
		keys = append(keys, domain.SocialInsurance130)
	}
	if !p.IsStudent && p.Support != domain.SupportNone {
		keys = append(keys, domain.SpouseDeduction150)
	}
	return keys
}

// CalculateAnnualStats totals the history. The average is over distinct
// recorded months, so several entries for one month count as one month's
// income, and the projection extends it to twelve.
func CalculateAnnualStats(history []domain.MonthlyIncome, currentMonth int) domain.AnnualStats {
	var total domain.Yen
	months := make(map[int]struct{}, len(history))
	for _, m := range history {
		total += nonNegative(m.Income)
		months[m.Month] = struct{}{}
	}
	stats := domain.AnnualStats{TotalIncome: total, CurrentMonth: currentMonth}
	if len(months) > 0 {
		stats.MonthlyAverage = total / domain.Yen(len(months))
		stats.ProjectedAnnual = stats.MonthlyAverage * 12
	}
	return stats
}

// GenerateMonthlyProgress orders the history by month and adds running totals
func GenerateMonthlyProgress(history []domain.MonthlyIncome) []domain.MonthlyProgress {
	sorted := append([]domain.MonthlyIncome(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })

	out := make([]domain.MonthlyProgress, 0, len(sorted))
	var cumulative domain.Yen
	for _, m := range sorted {
		income := nonNegative(m.Income)
		cumulative += income
		out = append(out, domain.MonthlyProgress{
			Month:            m.Month,
			Income:           income,
			CumulativeIncome: cumulative,
			IsEstimated:      m.IsEstimated,
			InputMethod:      m.InputMethod,
		})
	}
	return out
}

// Aggregate combines every threshold status into one view.
//
// A status is produced for every known key and any extra key the map
// carries. The primary threshold is the wall the eligibility decision puts
// in force; without eligibility inputs it is the known tax wall with the
// least remaining headroom.
func Aggregate(in AggregateInput) domain.FuyouStatus {
	m := in.Thresholds
	if m == nil {
		m = thresholds.FallbackThresholds()
	}
	yen := thresholds.ConvertToLegacyFormat(m)
	labels := thresholds.CreateLabelsMap(m)

	if in.AsOf.IsZero() {
		in.AsOf = time.Now()
	}
	month := CurrentMonth(in.Year, in.AsOf)
	stats := CalculateAnnualStats(in.History, month)

	statuses := make(map[domain.ThresholdKey]domain.ThresholdStatus)
	for _, key := range domain.KnownThresholdKeys() {
		statuses[key] = CalculateThresholdStatus(key, stats.TotalIncome, month, yen, labels)
	}
	for key := range m {
		if _, done := statuses[key]; !done {
			statuses[key] = CalculateThresholdStatus(key, stats.TotalIncome, month, yen, labels)
		}
	}

	applicable := ApplicableThresholds(in.Profile)

	var result *domain.EligibilityResult
	var primary domain.ThresholdKey
	if params, ok := eligibility.ParamsFromProfile(in.Profile, in.AsOf); ok {
		r := eligibility.Decide(params, eligibility.WallsFromThresholds(m))
		result = &r
		primary = r.CurrentWallType.ThresholdKey()
		applicable = appendMissing(applicable, primary, domain.ResidentTax110)
	} else {
		primary = lowestRemainingTax(statuses, m)
	}

	overall := domain.AlertSafe
	for _, key := range applicable {
		overall = domain.MaxAlert(overall, statuses[key].AlertLevel)
	}

	status := domain.FuyouStatus{
		Year:                 in.Year,
		Thresholds:           statuses,
		ApplicableThresholds: applicable,
		PrimaryThreshold:     primary,
		TotalIncome:          stats.TotalIncome,
		CurrentMonth:         month,
		Stats:                stats,
		MonthlyData:          GenerateMonthlyProgress(in.History),
		OverallAlert:         overall,
		Eligibility:          result,
	}
	status.Recommendations = GenerateRecommendations(&status)
	return status
}

// lowestRemainingTax picks the known tax wall closest to being reached;
// ties go to the lower limit, then the key
func lowestRemainingTax(statuses map[domain.ThresholdKey]domain.ThresholdStatus, m domain.ThresholdMap) domain.ThresholdKey {
	var best domain.ThresholdKey
	var bestStatus domain.ThresholdStatus
	for _, key := range domain.KnownThresholdKeys() {
		if kindOf(key, m) != domain.KindTax {
			continue
		}
		s := statuses[key]
		if best == "" ||
			s.Remaining < bestStatus.Remaining ||
			(s.Remaining == bestStatus.Remaining && s.Limit < bestStatus.Limit) ||
			(s.Remaining == bestStatus.Remaining && s.Limit == bestStatus.Limit && key < best) {
			best, bestStatus = key, s
		}
	}
	return best
}

func kindOf(key domain.ThresholdKey, m domain.ThresholdMap) domain.ThresholdKind {
	if t, ok := m[key]; ok {
		return t.Kind
	}
	if t, ok := thresholds.FallbackThreshold(key); ok {
		return t.Kind
	}
	return ""
}

// GenerateRecommendations evaluates simple rules over an aggregated status.
// An empty result means nothing needs attention.
func GenerateRecommendations(s *domain.FuyouStatus) []string {
	recs := []string{}

	for _, key := range s.ApplicableThresholds {
		st, ok := s.Thresholds[key]
		if !ok || st.Unknown {
			continue
		}
		switch {
		case st.IsOverLimit:
			recs = append(recs, fmt.Sprintf("%sのため、労働時間の調整を検討してください", st.Message))
		case st.AlertLevel == domain.AlertDanger:
			recs = append(recs, fmt.Sprintf("%s。シフトを減らすことを検討してください", st.Message))
		case st.AlertLevel == domain.AlertWarning:
			recs = append(recs, fmt.Sprintf("%s。月%s以下に抑えることをお勧めします", st.Message, FormatMan(st.MonthlyAllowance)))
		}
	}

	primary, ok := s.Primary()
	if !ok || primary.Unknown || primary.IsOverLimit {
		return recs
	}

	if current, found := incomeForMonth(s.MonthlyData, s.CurrentMonth); found && current > primary.MonthlyAllowance {
		recs = append(recs, fmt.Sprintf("今月の収入%sは月の目安%sを上回っています", FormatMan(current), FormatMan(primary.MonthlyAllowance)))
	}

	if s.Stats.ProjectedAnnual > primary.Limit {
		excess := s.Stats.ProjectedAnnual - primary.Limit
		recs = append(recs, fmt.Sprintf("現在のペースだと年間で%s超過する予測です。月収を%s減らすことを検討してください",
			FormatMan(excess), FormatMan(excess/12)))
	}
	return recs
}

func incomeForMonth(progress []domain.MonthlyProgress, month int) (domain.Yen, bool) {
	var total domain.Yen
	found := false
	for _, p := range progress {
		if p.Month == month {
			total += p.Income
			found = true
		}
	}
	return total, found
}

func appendMissing(keys []domain.ThresholdKey, extra ...domain.ThresholdKey) []domain.ThresholdKey {
	for _, e := range extra {
		present := false
		for _, k := range keys {
			if k == e {
				present = true
				break
			}
		}
		if !present && e != "" {
			keys = append(keys, e)
		}
	}
	return keys
}

func nonNegative(y domain.Yen) domain.Yen {
	if y < 0 {
		return 0
	}
	return y
}
