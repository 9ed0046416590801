package thresholds

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

// EnvFallbackVar is the environment variable consulted for tier 2 values
const EnvFallbackVar = "THRESHOLD_FALLBACK"

// ErrInvalidThreshold is returned when a configured threshold breaks an invariant
var ErrInvalidThreshold = errors.New("invalid threshold")

// ParseFallbackJSON parses tier 2 override values. Each entry may be a full
// threshold object or a bare yen number:
//
//	{"INCOME_TAX_103":{"kind":"tax","yen":1230000,"label":"..."}}
//	{"INCOME_TAX_103":1230000}
//
// Missing key, kind and label fields are filled from the compiled-in
// threshold for known keys.
func ParseFallbackJSON(raw string) (domain.ThresholdMap, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse threshold fallback JSON: %w", err)
	}

	out := make(domain.ThresholdMap, len(entries))
	for name, msg := range entries {
		key := domain.ThresholdKey(name)
		t, err := parseFallbackEntry(key, msg)
		if err != nil {
			return nil, err
		}
		out[key] = t
	}
	return out, nil
}

func parseFallbackEntry(key domain.ThresholdKey, msg json.RawMessage) (domain.Threshold, error) {
	base, known := FallbackThreshold(key)
	if !known {
		base = domain.Threshold{Key: key, Kind: domain.KindTax, Label: string(key)}
	}

	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var t domain.Threshold
		if err := json.Unmarshal(trimmed, &t); err != nil {
			return domain.Threshold{}, fmt.Errorf("threshold %s: %w", key, err)
		}
		if t.Key == "" {
			t.Key = key
		}
		if t.Key != key {
			return domain.Threshold{}, fmt.Errorf("%w: entry %s carries key %s", ErrInvalidThreshold, key, t.Key)
		}
		if t.Kind == "" {
			t.Kind = base.Kind
		}
		if t.Label == "" {
			t.Label = base.Label
		}
		if t.Description == "" {
			t.Description = base.Description
		}
		if err := t.Validate(); err != nil {
			return domain.Threshold{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, err)
		}
		return t, nil
	}

	var yen int64
	if err := json.Unmarshal(trimmed, &yen); err != nil {
		return domain.Threshold{}, fmt.Errorf("threshold %s: expected object or integer yen: %w", key, err)
	}
	base.Yen = domain.Yen(yen)
	if err := base.Validate(); err != nil {
		return domain.Threshold{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, err)
	}
	return base, nil
}

// LoadEnvFallback reads and parses EnvFallbackVar. An unset variable yields
// a nil map and no error.
func LoadEnvFallback() (domain.ThresholdMap, error) {
	raw, ok := os.LookupEnv(EnvFallbackVar)
	if !ok {
		return nil, nil
	}
	return ParseFallbackJSON(raw)
}
