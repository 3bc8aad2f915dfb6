// internal/server/server.go
// Package server exposes the generation pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"certificate-service/internal/common/config"
	"certificate-service/internal/common/logger"
	"certificate-service/internal/models"
	"certificate-service/internal/storage"
)

// Generator runs one request through the pipeline. Satisfied by
// *pipeline.Orchestrator.
type Generator interface {
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.Artifact, error)
}

// Server is the HTTP edge: request validation, routing and static artifact
// serving. All domain work happens in the pipeline.
type Server struct {
	cfg    *config.Config
	log    logger.Logger
	engine *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, log logger.Logger, gen Generator, loc *storage.Locations) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		cfg:    cfg,
		log:    log,
		engine: engine,
	}

	h := &generateHandler{log: log, generator: gen}
	engine.POST("/api/generate", h.handle)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.Static("/files", loc.TempDir)

	s.http = &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: engine,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", map[string]interface{}{
		"addr": s.http.Addr,
	})
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// requestLogger attaches a request ID and logs each request on completion.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("requestId", requestID)
		c.Header("X-Request-Id", requestID)

		start := time.Now()
		c.Next()

		log.Info("Request completed", map[string]interface{}{
			"requestId":  requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}
