package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/speedwagon-io/climate-indicator/internal/display"
	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
	"github.com/speedwagon-io/climate-indicator/internal/model"
	"github.com/speedwagon-io/climate-indicator/internal/slideshow"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 500
)

type projectResponse struct {
	model.Project
	Span int `json:"span"`
}

type slideResponse struct {
	PlaceID  int          `json:"place_id"`
	Index    int          `json:"index"`
	Count    int          `json:"count"`
	Expanded bool         `json:"expanded"`
	Image    *model.Image `json:"image"`
}

func (s *Server) handleClimate(w http.ResponseWriter, r *http.Request) {
	writeJSON(s.log, w, http.StatusOK, display.Render(s.fetcher.Snapshot(), s.opts.Ceiling))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(s.log, w, http.StatusServiceUnavailable, "reading history is disabled")
		return
	}

	limit := defaultHistoryLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(s.log, w, http.StatusBadRequest, "invalid 'limit' (expected positive integer)")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	readings, err := s.history.History(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to read history", sl.Err(err))
		writeError(s.log, w, http.StatusInternalServerError, "failed to read history")
		return
	}

	writeJSON(s.log, w, http.StatusOK, map[string]any{
		"limit": limit,
		"items": readings,
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	out := make([]projectResponse, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, projectResponse{Project: p, Span: p.Span()})
	}
	writeJSON(s.log, w, http.StatusOK, out)
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(s.log, w, http.StatusOK, s.places)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	place, ok := s.place(w, r)
	if !ok {
		return
	}
	writeJSON(s.log, w, http.StatusOK, place)
}

func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	s.withCursor(w, r, func(*slideshow.Cursor) {})
}

func (s *Server) handleSlideNext(w http.ResponseWriter, r *http.Request) {
	s.withCursor(w, r, func(c *slideshow.Cursor) { c.Next() })
}

func (s *Server) handleSlidePrev(w http.ResponseWriter, r *http.Request) {
	s.withCursor(w, r, func(c *slideshow.Cursor) { c.Prev() })
}

func (s *Server) handleSlideExpand(w http.ResponseWriter, r *http.Request) {
	s.withCursor(w, r, func(c *slideshow.Cursor) { c.Expand() })
}

func (s *Server) handleSlideCollapse(w http.ResponseWriter, r *http.Request) {
	s.withCursor(w, r, func(c *slideshow.Cursor) { c.Collapse() })
}

// withCursor applies op to the requesting viewer's slideshow for the place
// and writes the resulting position. A place without images has no
// slideshow and answers 404.
func (s *Server) withCursor(w http.ResponseWriter, r *http.Request, op func(*slideshow.Cursor)) {
	place, ok := s.place(w, r)
	if !ok {
		return
	}

	c := s.slides.Cursor(viewerID(w, r), place.ID)
	if c == nil {
		writeError(s.log, w, http.StatusNotFound, "place has no images")
		return
	}

	op(c)

	idx := c.Index()
	img := place.Images[idx]

	s.log.Debug("slide state",
		slog.Int("place_id", place.ID),
		slog.Int("index", idx),
		slog.Bool("expanded", c.Expanded()),
	)

	writeJSON(s.log, w, http.StatusOK, slideResponse{
		PlaceID:  place.ID,
		Index:    idx,
		Count:    c.Len(),
		Expanded: c.Expanded(),
		Image:    &img,
	})
}

func (s *Server) place(w http.ResponseWriter, r *http.Request) (model.Place, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(s.log, w, http.StatusBadRequest, "invalid place id")
		return model.Place{}, false
	}

	i, ok := s.byID[id]
	if !ok {
		writeError(s.log, w, http.StatusNotFound, "place not found")
		return model.Place{}, false
	}

	return s.places[i], true
}
