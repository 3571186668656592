package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Reading is one successfully obtained warming anomaly in °C.
type Reading struct {
	ID        string    `json:"id"`
	Value     float64   `json:"value"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

func NewReading(value float64, source string) *Reading {
	return &Reading{
		ID:        uuid.New().String(),
		Value:     value,
		Source:    source,
		FetchedAt: time.Now().UTC(),
	}
}

func (r *Reading) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

func ReadingFromJSON(data []byte) (*Reading, error) {
	var r Reading
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
