// Package ui serves the machine-learning HTTP API.
package ui

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mlprep/app"
	"mlprep/internal"
	"mlprep/internal/config"
	apperrors "mlprep/internal/errors"
	"mlprep/ports"
)

// Server represents the HTTP server for uploads and preprocessing
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	service    *app.MachineLearningService
	reader     ports.DatasetReader
	config     *config.Config
	logger     *internal.Logger
}

// NewServer creates a server with middleware and routes installed.
// A nil logger discards output.
func NewServer(cfg *config.Config, service *app.MachineLearningService, reader ports.DatasetReader, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.Discard()
	}
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:  gin.New(),
		service: service,
		reader:  reader,
		config:  cfg,
		logger:  logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Router exposes the gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	ml := s.router.Group("/machine-learning")
	{
		ml.POST("/upload", s.handleUpload)
		ml.POST("/preprocess", s.handlePreprocess)
		ml.GET("/algorithms", s.handleAlgorithms)
		ml.GET("/download-report", s.handleDownloadReport)
	}

	s.router.NoRoute(func(c *gin.Context) {
		s.writeError(c, apperrors.NotFound("route "+c.Request.Method+" "+c.Request.URL.Path))
	})
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("[Server] listening on http://%s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("[Server] shutting down")
	return s.httpServer.Shutdown(ctx)
}
