// Package server exposes the log query API over HTTP.
package server

import (
	"net/http"
	"net/http/pprof"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/filestore"
	"github.com/simons-plugins/logs-over-reflector/internal/livelog"
	"github.com/simons-plugins/logs-over-reflector/internal/model"
)

// LiveSource is the bounded most-recent-N capability over the live log.
// Records come back in chronological order, oldest of the batch first.
type LiveSource interface {
	Recent(n int) []model.Record
}

// Config carries the request-shaping defaults.
type Config struct {
	DefaultLines int // page size when the lines parameter is absent
}

// Server holds the Gin engine and the two log sources.
type Server struct {
	engine *gin.Engine
	live   LiveSource
	store  *filestore.Store
	stats  func() livelog.Stats
	cfg    Config
	port   string
	log    *zap.Logger
}

// New creates the API server. statsFn may be nil when no ingestion metrics
// are available.
func New(live LiveSource, store *filestore.Store, statsFn func() livelog.Stats, cfg Config, port string, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Error("handler panic", zap.Any("panic", err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
	}))

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	if cfg.DefaultLines < 1 {
		cfg.DefaultLines = 500
	}

	s := &Server{
		engine: engine,
		live:   live,
		store:  store,
		stats:  statsFn,
		cfg:    cfg,
		port:   port,
		log:    logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/log", s.handleLog)
	s.engine.GET("/api/history", s.handleHistory)
	s.engine.GET("/api/sources", s.handleSources)
	s.engine.GET("/api/dates", s.handleDates)

	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		payload := gin.H{"status": "ok"}
		if s.stats != nil {
			stats := s.stats()
			payload["uptime"] = stats.Uptime
			payload["files_tailed"] = stats.FilesTailed
			payload["total_records"] = stats.TotalRecords
		}
		c.JSON(http.StatusOK, payload)
	})

	// Ingestion metrics.
	s.engine.GET("/api/stats", func(c *gin.Context) {
		if s.stats == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, s.stats())
	})

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	return s.engine.Run(":" + s.port)
}
