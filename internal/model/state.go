package model

import "time"

type FetchState string

const (
	StateLoading  FetchState = "loading"
	StateReady    FetchState = "ready"
	StateDegraded FetchState = "degraded"
	StateError    FetchState = "error"
)

// Snapshot is a copy of the fetcher's value cell at one point in time.
// Value is nil until the first successful fetch and never nil afterwards.
type Snapshot struct {
	Value         *float64   `json:"value"`
	Loading       bool       `json:"loading"`
	LastFailed    bool       `json:"last_failed"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}

func (s Snapshot) State() FetchState {
	switch {
	case s.Value != nil && s.LastFailed:
		return StateDegraded
	case s.Value != nil:
		return StateReady
	case s.LastFailed && !s.Loading:
		return StateError
	default:
		return StateLoading
	}
}

// ShowError reports whether the display layer should print the error note.
// Failures are only surfaced while no value has ever been obtained.
func (s Snapshot) ShowError() bool {
	return s.Value == nil && s.LastFailed && !s.Loading
}
