package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// AnalyzeThresholdImpact compares an old and a new value of one wall. The
// type depends only on the direction of the move; currentIncome only
// selects the wording, saying whether the person crosses the wall.
func AnalyzeThresholdImpact(currentIncome, oldThreshold, newThreshold domain.Yen) domain.ThresholdImpact {
	diff := newThreshold - oldThreshold
	if diff == 0 {
		return domain.ThresholdImpact{
			ImpactAmount:      0,
			ImpactType:        domain.ImpactNeutral,
			ImpactDescription: "閾値に変更はありません",
		}
	}

	amount := diff
	if amount < 0 {
		amount = -amount
	}
	wasOver := currentIncome >= oldThreshold
	willBeOver := currentIncome >= newThreshold

	if diff > 0 {
		desc := fmt.Sprintf("閾値が%s引き上げられ、より多く稼げます", FormatMan(amount))
		if wasOver && !willBeOver {
			desc = fmt.Sprintf("閾値が%s引き上げられ、扶養範囲内に戻ります", FormatMan(amount))
		}
		return domain.ThresholdImpact{ImpactAmount: amount, ImpactType: domain.ImpactPositive, ImpactDescription: desc}
	}

	desc := fmt.Sprintf("閾値が%s引き下げられます", FormatMan(amount))
	if !wasOver && willBeOver {
		desc = fmt.Sprintf("閾値が%s引き下げられ、扶養を超過します", FormatMan(amount))
	}
	return domain.ThresholdImpact{ImpactAmount: amount, ImpactType: domain.ImpactNegative, ImpactDescription: desc}
}
