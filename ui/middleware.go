package ui

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())

	if origins := s.config.Server.CORSOrigins; len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
		s.router.Use(cors.New(corsConfig))
		s.logger.Info("[Server] CORS enabled for %v", origins)
	}

	s.router.Use(bodyLimit(s.config.Upload.MaxBytes))
}

// requestLogger logs one line per request
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := float64(time.Since(start).Nanoseconds()) / 1e6
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error("[Server] %s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, latency)
		case status >= http.StatusBadRequest:
			s.logger.Warn("[Server] %s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, latency)
		default:
			s.logger.Debug("[Server] %s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, latency)
		}
	}
}

// bodyLimit caps request bodies; reads past the limit fail with *http.MaxBytesError
func bodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
