package slideshow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/speedwagon-io/climate-indicator/internal/model"
)

const (
	DefaultInterval   = 4 * time.Second
	DefaultViewerIdle = 30 * time.Minute
)

// viewer holds one visitor's slideshows, created lazily per place.
type viewer struct {
	cursors  map[int]*Cursor
	lastSeen time.Time
}

// Rotator keeps an independent set of cursors per viewer and advances all
// of them on a shared interval. Expanding a slideshow only suspends it for
// the viewer who expanded it. Viewers not seen for idle are forgotten.
type Rotator struct {
	log      *slog.Logger
	interval time.Duration
	idle     time.Duration
	counts   map[int]int

	mu      sync.Mutex
	viewers map[string]*viewer

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewRotator(log *slog.Logger, places []model.Place, interval, idle time.Duration) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if idle <= 0 {
		idle = DefaultViewerIdle
	}

	counts := make(map[int]int, len(places))
	for _, p := range places {
		if len(p.Images) > 0 {
			counts[p.ID] = len(p.Images)
		}
	}

	return &Rotator{
		log:      log,
		interval: interval,
		idle:     idle,
		counts:   counts,
		viewers:  make(map[string]*viewer),
		stopCh:   make(chan struct{}),
	}
}

// Cursor returns the viewer's slideshow for a place, starting it at the
// first image on first use. It returns nil if the place has no images.
func (r *Rotator) Cursor(viewerID string, placeID int) *Cursor {
	n, ok := r.counts[placeID]
	if !ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.viewers[viewerID]
	if !ok {
		v = &viewer{cursors: make(map[int]*Cursor)}
		r.viewers[viewerID] = v
	}
	v.lastSeen = time.Now()

	c, ok := v.cursors[placeID]
	if !ok {
		c = NewCursor(n)
		v.cursors[placeID] = c
	}
	return c
}

// Viewers is the number of viewers currently tracked.
func (r *Rotator) Viewers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}

func (r *Rotator) Start(ctx context.Context) {
	r.log.Info("starting slideshow rotator",
		slog.Int("slideshows", len(r.counts)),
		slog.Duration("interval", r.interval),
		slog.Duration("viewer_idle", r.idle),
	)

	r.wg.Add(1)
	go r.run(ctx)
}

func (r *Rotator) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Rotator) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.tick(time.Now())
		}
	}
}

func (r *Rotator) tick(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, v := range r.viewers {
		if now.Sub(v.lastSeen) > r.idle {
			delete(r.viewers, id)
			r.log.Debug("forgot idle viewer", slog.String("viewer", id))
			continue
		}
		for _, c := range v.cursors {
			c.Tick()
		}
	}
}
