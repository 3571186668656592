package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/speedwagon-io/climate-indicator/internal/lib/httpserver"
	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

var severity = map[Status]int{
	StatusHealthy:   0,
	StatusDegraded:  1,
	StatusUnhealthy: 2,
}

func worse(a, b Status) Status {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

type Component struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

type Report struct {
	Status     Status      `json:"status"`
	Components []Component `json:"components"`
	Uptime     string      `json:"uptime"`
	Timestamp  time.Time   `json:"timestamp"`
}

type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (Status, string)
}

const checkTimeout = 5 * time.Second

type Server struct {
	log       *slog.Logger
	address   string
	startedAt time.Time
	server    *httpserver.Server

	mu       sync.RWMutex
	checkers []HealthChecker
}

func NewServer(log *slog.Logger, address string) *Server {
	return &Server{
		log:       log,
		address:   address,
		startedAt: time.Now(),
	}
}

func (s *Server) AddChecker(checker HealthChecker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers = append(s.checkers, checker)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)

	return r
}

func (s *Server) Start() error {
	srv, err := httpserver.Serve(s.log, "health", s.address, s.Handler(), 5*time.Second, 10*time.Second)
	if err != nil {
		return err
	}
	s.server = srv
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Report runs every checker concurrently and folds the worst status into
// the overall one. Components keep registration order.
func (s *Server) Report(ctx context.Context) Report {
	s.mu.RLock()
	checkers := make([]HealthChecker, len(s.checkers))
	copy(checkers, s.checkers)
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	components := make([]Component, len(checkers))
	var wg sync.WaitGroup
	for i, checker := range checkers {
		i, checker := i, checker
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, message := checker.Check(ctx)
			components[i] = Component{Name: checker.Name(), Status: status, Message: message}
		}()
	}
	wg.Wait()

	report := Report{
		Status:     StatusHealthy,
		Components: components,
		Uptime:     time.Since(s.startedAt).Truncate(time.Second).String(),
		Timestamp:  time.Now().UTC(),
	}
	for _, c := range components {
		report.Status = worse(report.Status, c.Status)
	}

	return report
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.Report(r.Context())

	code := http.StatusOK
	if report.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.log.Error("failed to write health report", sl.Err(err))
	}
}

// handleReady fails only on an unhealthy component; a degraded fetcher
// still serves its retained value.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Report(r.Context()).Status == StatusUnhealthy {
		http.Error(w, "NOT READY", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("OK"))
}
