// Package profiling runs the optional pprof side-server.
package profiling

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mlprep/internal"
)

// Server exposes /debug/pprof and /debug/vars on its own port, away from the API
type Server struct {
	router     *chi.Mux
	addr       string
	httpServer *http.Server
	logger     *internal.Logger
}

// NewServer creates a profiling server listening on port
func NewServer(port string, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.Discard()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Mount("/debug", middleware.Profiler())

	return &Server{
		router: r,
		addr:   net.JoinHostPort("", port),
		logger: logger,
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("[Profiling] pprof listening on %s/debug/pprof/", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
