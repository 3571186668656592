package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
)

type Server struct {
	srv  *http.Server
	addr net.Addr
}

// Serve binds addr synchronously, so a taken port fails here rather than in
// the background, then serves h until Shutdown.
func Serve(log *slog.Logger, name, addr string, h http.Handler, readTimeout, writeTimeout time.Duration) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	log.Info("starting "+name+" server", slog.String("address", ln.Addr().String()))

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(name+" server error", sl.Err(err))
		}
	}()

	return &Server{srv: srv, addr: ln.Addr()}, nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	return s.addr.String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
