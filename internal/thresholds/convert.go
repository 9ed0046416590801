package thresholds

import "github.com/rgehrsitz/fuyou/internal/domain"

// YenMap is the flat key → yen form older call sites consume
type YenMap map[domain.ThresholdKey]domain.Yen

// LabelMap is the flat key → label form older call sites consume
type LabelMap map[domain.ThresholdKey]string

// ConvertToLegacyFormat flattens a threshold map to key → yen.
// The output has exactly the input's keys.
func ConvertToLegacyFormat(m domain.ThresholdMap) YenMap {
	legacy := make(YenMap, len(m))
	for key, t := range m {
		legacy[key] = t.Yen
	}
	return legacy
}

// CreateLabelsMap flattens a threshold map to key → label
func CreateLabelsMap(m domain.ThresholdMap) LabelMap {
	labels := make(LabelMap, len(m))
	for key, t := range m {
		labels[key] = t.Label
	}
	return labels
}

// FromLegacyFormat rebuilds a threshold map from flat yen and label maps.
// Kind and description come from the compiled-in threshold when the key is
// known; unknown keys are treated as tax walls.
func FromLegacyFormat(yen YenMap, labels LabelMap) domain.ThresholdMap {
	out := make(domain.ThresholdMap, len(yen))
	for key, amount := range yen {
		t := domain.Threshold{Key: key, Kind: domain.KindTax, Yen: amount, Label: string(key)}
		if base, ok := FallbackThreshold(key); ok {
			t.Kind = base.Kind
			t.Label = base.Label
			t.Description = base.Description
		}
		if label, ok := labels[key]; ok && label != "" {
			t.Label = label
		}
		out[key] = t
	}
	return out
}
