package health

import (
	"context"

	"github.com/speedwagon-io/climate-indicator/internal/model"
)

type FetcherHealthChecker struct {
	snapshotFunc func() model.Snapshot
}

func NewFetcherHealthChecker(snapshotFunc func() model.Snapshot) *FetcherHealthChecker {
	return &FetcherHealthChecker{snapshotFunc: snapshotFunc}
}

func (c *FetcherHealthChecker) Name() string {
	return "fetcher"
}

// Check never reports unhealthy: the indicator keeps rendering in every
// fetch state, so a failing upstream only degrades the service.
func (c *FetcherHealthChecker) Check(_ context.Context) (Status, string) {
	switch c.snapshotFunc().State() {
	case model.StateDegraded:
		return StatusDegraded, "last fetch failed, serving retained value"
	case model.StateError:
		return StatusDegraded, "no value obtained yet, last fetch failed"
	case model.StateLoading:
		return StatusHealthy, "awaiting first value"
	default:
		return StatusHealthy, ""
	}
}

type SenderHealthChecker struct {
	healthFunc func(ctx context.Context) error
}

func NewSenderHealthChecker(healthFunc func(ctx context.Context) error) *SenderHealthChecker {
	return &SenderHealthChecker{healthFunc: healthFunc}
}

func (c *SenderHealthChecker) Name() string {
	return "sender"
}

func (c *SenderHealthChecker) Check(ctx context.Context) (Status, string) {
	if err := c.healthFunc(ctx); err != nil {
		return StatusDegraded, err.Error()
	}
	return StatusHealthy, ""
}

type StoreHealthChecker struct {
	countFunc func(ctx context.Context) (int64, error)
}

func NewStoreHealthChecker(countFunc func(ctx context.Context) (int64, error)) *StoreHealthChecker {
	return &StoreHealthChecker{countFunc: countFunc}
}

func (c *StoreHealthChecker) Name() string {
	return "store"
}

func (c *StoreHealthChecker) Check(ctx context.Context) (Status, string) {
	count, err := c.countFunc(ctx)
	if err != nil {
		return StatusUnhealthy, err.Error()
	}

	if count == 0 {
		return StatusHealthy, "no readings stored yet"
	}

	return StatusHealthy, ""
}
