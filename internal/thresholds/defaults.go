package thresholds

import "github.com/rgehrsitz/fuyou/internal/domain"

// fallbackThresholds are the compiled-in values of the last tier. They are
// never handed out directly; FallbackThresholds returns a copy.
var fallbackThresholds = domain.ThresholdMap{
	domain.IncomeTax103: {
		Key:         domain.IncomeTax103,
		Kind:        domain.KindTax,
		Yen:         1_030_000,
		Label:       "103万円の壁（所得税扶養控除）",
		Description: "所得税の扶養控除を受けられます。親の税金負担が軽くなります。",
	},
	domain.SocialInsurance106: {
		Key:         domain.SocialInsurance106,
		Kind:        domain.KindSocial,
		Yen:         1_060_000,
		Label:       "106万円の壁（社会保険）",
		Description: "大企業勤務の場合の社会保険の扶養上限です。",
	},
	domain.SocialInsurance130: {
		Key:         domain.SocialInsurance130,
		Kind:        domain.KindSocial,
		Yen:         1_300_000,
		Label:       "130万円の壁（社会保険）",
		Description: "一般的な社会保険の扶養上限です。",
	},
	domain.SpouseDeduction150: {
		Key:         domain.SpouseDeduction150,
		Kind:        domain.KindTax,
		Yen:         1_500_000,
		Label:       "150万円の壁（配偶者特別控除）",
		Description: "配偶者特別控除の上限です。学生以外で該当する場合があります。",
	},
	domain.ResidentTax110: {
		Key:         domain.ResidentTax110,
		Kind:        domain.KindTax,
		Yen:         1_100_000,
		Label:       "110万円の壁（住民税非課税）",
		Description: "住民税が非課税となる給与収入の上限です。",
	},
	domain.IncomeTax123: {
		Key:         domain.IncomeTax123,
		Kind:        domain.KindTax,
		Yen:         1_230_000,
		Label:       "123万円の壁（所得税扶養控除・2025年改正）",
		Description: "2025年改正後の一般扶養控除の上限です。",
	},
	domain.StudentDependent150: {
		Key:         domain.StudentDependent150,
		Kind:        domain.KindTax,
		Yen:         1_500_000,
		Label:       "150万円の壁（特定扶養控除）",
		Description: "19〜22歳の学生に適用される特定扶養控除の上限です。",
	},
}

// FallbackThresholds returns a copy of the compiled-in thresholds
func FallbackThresholds() domain.ThresholdMap {
	return fallbackThresholds.Clone()
}

// FallbackYen returns the compiled-in yen value for a key
func FallbackYen(key domain.ThresholdKey) (domain.Yen, bool) {
	t, ok := fallbackThresholds[key]
	return t.Yen, ok
}

// FallbackLabel returns the compiled-in label for a key, or the key itself when unknown
func FallbackLabel(key domain.ThresholdKey) string {
	if t, ok := fallbackThresholds[key]; ok {
		return t.Label
	}
	return string(key)
}

// FallbackThreshold returns the compiled-in threshold for a key
func FallbackThreshold(key domain.ThresholdKey) (domain.Threshold, bool) {
	t, ok := fallbackThresholds[key]
	return t, ok
}
