// Package display maps the fetcher's value cell onto the hero indicator: a
// marker on a linear 0..ceiling °C scale plus a text label.
package display

import (
	"fmt"
	"math"
	"time"

	"github.com/speedwagon-io/climate-indicator/internal/model"
)

const (
	DefaultCeiling = 2.0

	LabelLoading = "Loading…"
	LabelMissing = "—"
	ErrorNote    = "Could not load latest climate value."
)

type Indicator struct {
	State         model.FetchState `json:"state"`
	Value         *float64         `json:"value"`
	Label         string           `json:"label"`
	Percent       float64          `json:"percent"`
	Position      int              `json:"position"`
	Note          string           `json:"note,omitempty"`
	ScaleMin      string           `json:"scale_min"`
	ScaleMax      string           `json:"scale_max"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
	LastAttemptAt *time.Time       `json:"last_attempt_at,omitempty"`
}

// Percent clamps value/ceiling into [0, 100].
func Percent(value, ceiling float64) float64 {
	if ceiling <= 0 || math.IsNaN(value) {
		return 0
	}
	return math.Max(0, math.Min(100, value/ceiling*100))
}

// Position is the whole-percent marker offset, truncated toward zero.
func Position(value, ceiling float64) int {
	return int(Percent(value, ceiling))
}

func FormatValue(value float64) string {
	return fmt.Sprintf("%.2f°C", value)
}

func Label(snap model.Snapshot) string {
	switch {
	case snap.Value != nil:
		return FormatValue(*snap.Value)
	case snap.Loading:
		return LabelLoading
	default:
		return LabelMissing
	}
}

func Render(snap model.Snapshot, ceiling float64) Indicator {
	ind := Indicator{
		State:         snap.State(),
		Value:         snap.Value,
		Label:         Label(snap),
		ScaleMin:      "0°C",
		ScaleMax:      fmt.Sprintf("%.1f°C", ceiling),
		UpdatedAt:     snap.UpdatedAt,
		LastAttemptAt: snap.LastAttemptAt,
	}

	if snap.Value != nil {
		ind.Percent = Percent(*snap.Value, ceiling)
		ind.Position = Position(*snap.Value, ceiling)
	}

	if snap.ShowError() {
		ind.Note = ErrorNote
	}

	return ind
}
