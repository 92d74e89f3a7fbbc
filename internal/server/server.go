// Package server exposes a marker store over HTTP so several knobs can
// share their markers.
package server

import (
	"log/slog"
	"net/http"

	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/store"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	logger  *slog.Logger
	router  *gin.Engine
	storage store.Storage
}

// New creates a new Server backed by storage.
func New(cfg *config.Config, logger *slog.Logger, storage store.Storage) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		config:  cfg,
		logger:  logger,
		router:  router,
		storage: storage,
	}

	router.Use(requestID(), requestLogger(logger))
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router exposes the handler, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server
func Run(s *Server) error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/markers/:key", s.handleGetMarkers)
		api.PUT("/markers/:key", s.handlePutMarkers)
		api.DELETE("/markers/:key", s.handleDeleteMarkers)
	}

	// Optional static front end; only reached when no route matched above
	if s.config.PublicDir != "" {
		s.router.Use(static.Serve("/", static.LocalFile(s.config.PublicDir, false)))
		s.logger.Debug("Serving static files", "dir", s.config.PublicDir)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "markerd",
	})
}
