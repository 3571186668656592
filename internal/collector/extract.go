package collector

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrNoValue = errors.New("no finite value in payload")

// CandidateKeys are tried in order on the latest element of a series.
var CandidateKeys = []string{"anomaly", "value", "land", "ocean", "station", "global", "current"}

// Extractor pulls a reading out of a decoded payload.
type Extractor struct {
	Name    string
	Extract func(payload map[string]any) (float64, bool)
}

// DefaultExtractors is the lookup policy for the climate API.
// The first extractor that yields a finite number wins.
var DefaultExtractors = []Extractor{
	{Name: "series", Extract: LatestSeriesValue(CandidateKeys)},
	{Name: "global", Extract: TopLevelNumber("global")},
	{Name: "current", Extract: TopLevelNumber("current")},
}

// Extract runs the extractors in order and returns the first hit.
func Extract(payload map[string]any, extractors []Extractor) (float64, string, error) {
	for _, e := range extractors {
		if v, ok := e.Extract(payload); ok {
			return v, e.Name, nil
		}
	}
	return 0, "", ErrNoValue
}

// ParsePayload decodes body and applies DefaultExtractors.
func ParsePayload(body []byte) (float64, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	payload, ok := raw.(map[string]any)
	if !ok {
		return 0, fmt.Errorf("unexpected payload type %T", raw)
	}

	v, _, err := Extract(payload, DefaultExtractors)
	return v, err
}

// LatestSeriesValue reads the last element of "result" (when non-empty)
// or "monthlyAnomaly". Each key is looked up on that element first and on
// the top-level object second.
func LatestSeriesValue(keys []string) func(map[string]any) (float64, bool) {
	return func(payload map[string]any) (float64, bool) {
		series := seriesOf(payload)
		if len(series) == 0 {
			return 0, false
		}

		last, _ := series[len(series)-1].(map[string]any)
		for _, k := range keys {
			raw, ok := last[k]
			if !ok || raw == nil {
				raw = payload[k]
			}
			if v, ok := toFloat(raw); ok {
				return v, true
			}
		}
		return 0, false
	}
}

// TopLevelNumber only accepts a JSON number, not a numeric string.
func TopLevelNumber(key string) func(map[string]any) (float64, bool) {
	return func(payload map[string]any) (float64, bool) {
		v, ok := payload[key].(float64)
		if !ok || !finite(v) {
			return 0, false
		}
		return v, true
	}
}

func seriesOf(payload map[string]any) []any {
	if arr, ok := payload["result"].([]any); ok && len(arr) > 0 {
		return arr
	}
	if arr, ok := payload["monthlyAnomaly"].([]any); ok {
		return arr
	}
	return nil
}

// toFloat coerces a series field the way the browser's Number() does for
// JSON scalars: blank strings are 0, booleans are 0 or 1, and 0x/0o/0b
// integer literals are accepted.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, finite(val)
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		return parseNumber(strings.TrimSpace(val))
	default:
		return 0, false
	}
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}

	// "inf" and "NaN" parse here but fail the finite check.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
