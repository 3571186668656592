package collector

import (
	"context"
)

// Collector retrieves the current warming anomaly from one upstream source.
// Any error is a failed attempt; callers do not distinguish causes.
type Collector interface {
	Collect(ctx context.Context) (float64, error)
	Name() string
	Source() string
	Close() error
}
