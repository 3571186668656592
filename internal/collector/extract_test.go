package collector

import (
	"errors"
	"testing"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"station series", `{"result":[{"time":"2024-01","station":0.95}]}`, 0.95},
		{"last element wins", `{"result":[{"station":0.5},{"station":1.25}]}`, 1.25},
		{"anomaly before station", `{"result":[{"anomaly":1.1,"station":0.9}]}`, 1.1},
		{"value before land", `{"result":[{"land":1.8,"value":1.2}]}`, 1.2},
		{"land before ocean", `{"result":[{"ocean":0.7,"land":1.6}]}`, 1.6},
		{"ocean before station", `{"result":[{"station":1.0,"ocean":0.8}]}`, 0.8},
		{"monthlyAnomaly series", `{"monthlyAnomaly":[{"anomaly":1.0},{"anomaly":1.34}]}`, 1.34},
		{"empty result falls to monthlyAnomaly", `{"result":[],"monthlyAnomaly":[{"value":1.05}]}`, 1.05},
		{"numeric string", `{"result":[{"station":"0.88"}]}`, 0.88},
		{"null skipped", `{"result":[{"anomaly":null,"land":1.4}]}`, 1.4},
		{"element key falls back to top level", `{"result":[{"time":"2024-01"}],"global":1.3}`, 1.3},
		{"flat global", `{"global":1.45}`, 1.45},
		{"flat current", `{"current":1.52}`, 1.52},
		{"global before current", `{"current":2.0,"global":1.45}`, 1.45},
		{"negative value", `{"result":[{"station":-0.2}]}`, -0.2},
		{"zero is a value", `{"global":0}`, 0},
		{"empty string is zero", `{"result":[{"station":""}]}`, 0},
		{"blank string is zero", `{"result":[{"anomaly":"  ","land":1.4}]}`, 0},
		{"true is one", `{"result":[{"station":true}]}`, 1},
		{"false is zero", `{"result":[{"anomaly":false,"land":1.4}]}`, 0},
		{"padded numeric string", `{"result":[{"station":" 1.07\n"}]}`, 1.07},
		{"hex string", `{"result":[{"station":"0x1A"}]}`, 26},
		{"binary string", `{"result":[{"station":"0b11"}]}`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePayload([]byte(tt.body))
			if err != nil {
				t.Fatalf("ParsePayload: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePayload = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestParsePayload_malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `Service Unavailable`},
		{"truncated", `{"result":[{"station":0.9}`},
		{"array payload", `[{"station":0.9}]`},
		{"string payload", `"0.9"`},
		{"no arrays", `{"time":"2024-01"}`},
		{"empty series", `{"result":[],"monthlyAnomaly":[]}`},
		{"no numeric field", `{"result":[{"time":"2024-01","station":"n/a"}]}`},
		{"non-object element", `{"result":[0.9]}`},
		{"string global", `{"global":"1.2"}`},
		{"boolean global", `{"global":true}`},
		{"bad hex string", `{"result":[{"station":"0xZZ"}]}`},
		{"object field", `{"result":[{"station":{"v":1}}]}`},
		{"nan string", `{"result":[{"station":"NaN"}]}`},
		{"infinity string", `{"result":[{"station":"Infinity"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePayload([]byte(tt.body)); err == nil {
				t.Error("ParsePayload returned nil error")
			}
		})
	}
}

func TestExtract_reportsExtractor(t *testing.T) {
	payload := map[string]any{"current": 1.1}

	v, name, err := Extract(payload, DefaultExtractors)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if v != 1.1 || name != "current" {
		t.Errorf("Extract = %v, %q; want 1.1, current", v, name)
	}

	_, _, err = Extract(map[string]any{}, DefaultExtractors)
	if !errors.Is(err, ErrNoValue) {
		t.Errorf("err = %v; want ErrNoValue", err)
	}
}

func TestExtract_customOrder(t *testing.T) {
	payload := map[string]any{"global": 1.0, "current": 2.0}
	chain := []Extractor{
		{Name: "current", Extract: TopLevelNumber("current")},
		{Name: "global", Extract: TopLevelNumber("global")},
	}

	v, name, err := Extract(payload, chain)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if v != 2.0 || name != "current" {
		t.Errorf("Extract = %v, %q; want 2, current", v, name)
	}
}
