// Package api serves the indicator, the place catalog and the slideshow
// cursors to the portfolio front-end.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/speedwagon-io/climate-indicator/internal/lib/httpserver"
	"github.com/speedwagon-io/climate-indicator/internal/model"
	"github.com/speedwagon-io/climate-indicator/internal/slideshow"
)

type SnapshotProvider interface {
	Snapshot() model.Snapshot
}

type HistoryReader interface {
	History(ctx context.Context, limit int) ([]*model.Reading, error)
}

type Options struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Ceiling is the top of the indicator scale in °C.
	Ceiling float64
}

type Server struct {
	log      *slog.Logger
	opts     Options
	fetcher  SnapshotProvider
	history  HistoryReader
	places   []model.Place
	byID     map[int]int
	projects []model.Project
	slides   *slideshow.Rotator
	server   *httpserver.Server
}

// NewServer wires the handlers. history may be nil when the store is
// disabled.
func NewServer(
	log *slog.Logger,
	opts Options,
	fetcher SnapshotProvider,
	history HistoryReader,
	places []model.Place,
	projects []model.Project,
	slides *slideshow.Rotator,
) *Server {
	byID := make(map[int]int, len(places))
	for i, p := range places {
		byID[p.ID] = i
	}

	return &Server{
		log:      log,
		opts:     opts,
		fetcher:  fetcher,
		history:  history,
		places:   places,
		byID:     byID,
		projects: projects,
		slides:   slides,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/climate", s.handleClimate)
		r.Get("/climate/history", s.handleHistory)

		r.Get("/projects", s.handleProjects)

		r.Get("/places", s.handlePlaces)
		r.Route("/places/{id}", func(r chi.Router) {
			r.Get("/", s.handlePlace)
			r.Get("/slide", s.handleSlide)
			r.Post("/slide/next", s.handleSlideNext)
			r.Post("/slide/prev", s.handleSlidePrev)
			r.Post("/slide/expand", s.handleSlideExpand)
			r.Post("/slide/collapse", s.handleSlideCollapse)
		})
	})

	return r
}

func (s *Server) Start() error {
	srv, err := httpserver.Serve(s.log, "api", s.opts.Address, s.Handler(), s.opts.ReadTimeout, s.opts.WriteTimeout)
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
