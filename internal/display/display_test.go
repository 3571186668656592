package display

import (
	"testing"

	"github.com/speedwagon-io/climate-indicator/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestPercent(t *testing.T) {
	tests := []struct {
		value float64
		want  float64
	}{
		{-1.0, 0},
		{0, 0},
		{1.0, 50},
		{2.0, 100},
		{3.0, 100},
		{0.5, 25},
	}
	for _, tt := range tests {
		if got := Percent(tt.value, DefaultCeiling); got != tt.want {
			t.Errorf("Percent(%v, 2.0) = %v; want %v", tt.value, got, tt.want)
		}
	}

	if got := Percent(1, 0); got != 0 {
		t.Errorf("Percent with zero ceiling = %v; want 0", got)
	}
}

func TestPosition(t *testing.T) {
	if got := Position(0.95, DefaultCeiling); got != 47 {
		t.Errorf("Position(0.95) = %d; want 47", got)
	}
	if got := Position(1.0, DefaultCeiling); got != 50 {
		t.Errorf("Position(1.0) = %d; want 50", got)
	}
	if got := Position(5, DefaultCeiling); got != 100 {
		t.Errorf("Position(5) = %d; want 100", got)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		snap     model.Snapshot
		label    string
		position int
		note     string
		state    model.FetchState
	}{
		{
			name:  "loading",
			snap:  model.Snapshot{Loading: true},
			label: LabelLoading,
			state: model.StateLoading,
		},
		{
			name:  "timed out without value",
			snap:  model.Snapshot{LastFailed: true},
			label: LabelMissing,
			note:  ErrorNote,
			state: model.StateError,
		},
		{
			name:     "station reading",
			snap:     model.Snapshot{Value: ptr(0.95)},
			label:    "0.95°C",
			position: 47,
			state:    model.StateReady,
		},
		{
			name:     "stale reading after failure",
			snap:     model.Snapshot{Value: ptr(1.234), LastFailed: true},
			label:    "1.23°C",
			position: 61,
			state:    model.StateDegraded,
		},
		{
			name:     "refresh in flight keeps value label",
			snap:     model.Snapshot{Value: ptr(1.5), Loading: true},
			label:    "1.50°C",
			position: 75,
			state:    model.StateReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.snap, DefaultCeiling)
			if got.Label != tt.label {
				t.Errorf("Label = %q; want %q", got.Label, tt.label)
			}
			if got.Position != tt.position {
				t.Errorf("Position = %d; want %d", got.Position, tt.position)
			}
			if got.Note != tt.note {
				t.Errorf("Note = %q; want %q", got.Note, tt.note)
			}
			if got.State != tt.state {
				t.Errorf("State = %q; want %q", got.State, tt.state)
			}
			if got.ScaleMin != "0°C" || got.ScaleMax != "2.0°C" {
				t.Errorf("scale = %s..%s; want 0°C..2.0°C", got.ScaleMin, got.ScaleMax)
			}
		})
	}
}
