package collector

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
	"github.com/speedwagon-io/climate-indicator/internal/model"
	"github.com/speedwagon-io/climate-indicator/internal/sender"
	"github.com/speedwagon-io/climate-indicator/internal/store"
)

type Schedule struct {
	// Timeout bounds a single fetch; the request is aborted when it elapses.
	Timeout      time.Duration
	RetryInitial time.Duration
	RetryMax     time.Duration
	// Refresh re-fetches on a fixed period, independent of the retry chain.
	Refresh      time.Duration

	// Retention is how long stored readings are kept; zero disables pruning.
	Retention  time.Duration
	PruneEvery time.Duration
}

// cell is the single value slot shared with readers.
type cell struct {
	value         *float64
	loading       bool
	lastFailed    bool
	updatedAt     time.Time
	lastAttemptAt time.Time
}

// loopState belongs to the fetch loop goroutine and is never shared.
type loopState struct {
	backoff *Backoff
	retry   *time.Timer
	retryC  <-chan time.Time
}

func (ls *loopState) stopRetry() {
	if ls.retry != nil {
		ls.retry.Stop()
		ls.retry = nil
		ls.retryC = nil
	}
}

type Manager struct {
	log       *slog.Logger
	collector Collector
	sender    sender.Sender
	store     store.Store
	schedule  Schedule

	mu   sync.RWMutex
	cell cell

	cancel   context.CancelFunc
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewManager(
	log *slog.Logger,
	schedule Schedule,
	collector Collector,
	sender sender.Sender,
	store store.Store,
) *Manager {
	return &Manager{
		log:       log,
		collector: collector,
		sender:    sender,
		store:     store,
		schedule:  schedule,
		cell:      cell{loading: true},
		stopCh:    make(chan struct{}),
	}
}

// Start restores the last stored reading and launches the fetch loop.
// It returns immediately; call Stop to tear down.
func (m *Manager) Start(ctx context.Context) {
	m.log.Info("starting climate manager",
		slog.String("collector", m.collector.Name()),
		slog.String("source", m.collector.Source()),
		slog.Duration("retry_initial", m.schedule.RetryInitial),
		slog.Duration("retry_max", m.schedule.RetryMax),
		slog.Duration("refresh", m.schedule.Refresh),
	)

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.restore(ctx)

	m.wg.Add(1)
	go m.run(ctx)

	if m.store != nil && m.schedule.Retention > 0 {
		m.wg.Add(1)
		go m.pruneStore(ctx)
	}
}

// Stop cancels pending timers and any in-flight request. No state changes
// are made once Stop returns.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		if m.cancel != nil {
			m.cancel()
		}
	})
	m.wg.Wait()

	if err := m.collector.Close(); err != nil {
		m.log.Error("failed to close collector", sl.Err(err))
	}
}

func (m *Manager) Snapshot() model.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := model.Snapshot{
		Loading:    m.cell.loading,
		LastFailed: m.cell.lastFailed,
	}
	if m.cell.value != nil {
		v := *m.cell.value
		snap.Value = &v
	}
	if !m.cell.updatedAt.IsZero() {
		t := m.cell.updatedAt
		snap.UpdatedAt = &t
	}
	if !m.cell.lastAttemptAt.IsZero() {
		t := m.cell.lastAttemptAt
		snap.LastAttemptAt = &t
	}
	return snap
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	ls := &loopState{
		backoff: NewBackoff(m.schedule.RetryInitial, m.schedule.RetryMax),
	}
	defer ls.stopRetry()

	var refreshC <-chan time.Time
	if m.schedule.Refresh > 0 {
		refresh := time.NewTicker(m.schedule.Refresh)
		defer refresh.Stop()
		refreshC = refresh.C
	}

	m.attempt(ctx, ls)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("context cancelled, stopping manager")
			return
		case <-m.stopCh:
			m.log.Info("stop signal received, stopping manager")
			return
		case <-ls.retryC:
			ls.retry = nil
			ls.retryC = nil
			m.attempt(ctx, ls)
		case <-refreshC:
			m.log.Debug("scheduled refresh")
			m.fetchOnce(ctx)
		}
	}
}

// attempt is one link of the retry chain: fetch, and on failure arm the
// retry timer with the next backoff delay.
func (m *Manager) attempt(ctx context.Context, ls *loopState) {
	if m.fetchOnce(ctx) {
		ls.backoff.Reset()
		return
	}

	if m.stopped(ctx) {
		return
	}

	delay := ls.backoff.Next()
	m.log.Info("scheduling retry",
		slog.Duration("delay", delay),
		slog.Duration("next_delay", ls.backoff.Peek()),
	)
	ls.retry = time.NewTimer(delay)
	ls.retryC = ls.retry.C
}

// fetchOnce performs one bounded retrieval and reports whether it produced
// a value. Failures never clear a previously obtained value.
func (m *Manager) fetchOnce(ctx context.Context) bool {
	if m.stopped(ctx) {
		return false
	}

	m.mu.Lock()
	m.cell.loading = true
	m.cell.lastAttemptAt = time.Now().UTC()
	m.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, m.schedule.Timeout)
	value, err := m.collector.Collect(fetchCtx)
	cancel()

	if m.stopped(ctx) {
		return false
	}

	if err != nil {
		m.log.Warn("failed to fetch climate value",
			slog.String("collector", m.collector.Name()),
			sl.Err(err),
		)

		m.mu.Lock()
		m.cell.loading = false
		m.cell.lastFailed = true
		m.mu.Unlock()
		return false
	}

	reading := model.NewReading(value, m.collector.Source())

	m.mu.Lock()
	m.cell.value = &reading.Value
	m.cell.loading = false
	m.cell.lastFailed = false
	m.cell.updatedAt = reading.FetchedAt
	m.mu.Unlock()

	m.log.Info("climate value updated", slog.Float64("value", value))

	m.persist(ctx, reading)
	m.publish(ctx, reading)

	return true
}

func (m *Manager) restore(ctx context.Context) {
	if m.store == nil {
		return
	}

	reading, err := m.store.Latest(ctx)
	if err != nil {
		m.log.Error("failed to restore last reading", sl.Err(err))
		return
	}
	if reading == nil {
		return
	}

	m.mu.Lock()
	v := reading.Value
	m.cell.value = &v
	m.cell.updatedAt = reading.FetchedAt
	m.mu.Unlock()

	m.log.Info("restored last reading",
		slog.Float64("value", reading.Value),
		slog.Time("fetched_at", reading.FetchedAt),
	)
}

func (m *Manager) persist(ctx context.Context, reading *model.Reading) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, reading); err != nil {
		m.log.Error("failed to store reading",
			slog.String("id", reading.ID),
			sl.Err(err),
		)
	}
}

// publish fans the reading out without holding up the fetch loop.
func (m *Manager) publish(ctx context.Context, reading *model.Reading) {
	if m.sender == nil {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.sender.Send(ctx, reading); err != nil {
			m.log.Error("failed to publish reading",
				slog.String("id", reading.ID),
				sl.Err(err),
			)
			return
		}
		m.log.Debug("reading published", slog.String("id", reading.ID))
	}()
}

func (m *Manager) pruneStore(ctx context.Context) {
	defer m.wg.Done()

	every := m.schedule.PruneEvery
	if every <= 0 {
		every = time.Hour
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			if err := m.store.Cleanup(ctx, m.schedule.Retention); err != nil {
				m.log.Error("failed to prune old readings", sl.Err(err))
			}
		}
	}
}

func (m *Manager) stopped(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	select {
	case <-m.stopCh:
		return true
	default:
		return false
	}
}
