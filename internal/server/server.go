package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/KaramelBytes/campaignlens/internal/dashboard"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Options configure the HTTP layer.
type Options struct {
	// CORSOrigins enables CORS for the listed origins; "*" allows any.
	CORSOrigins []string
}

// Server serves dashboards over one loaded table.
type Server struct {
	cache  *dashboard.Cache
	engine *gin.Engine
}

// New builds the gin engine and registers routes.
func New(c *dashboard.Cache, opt Options) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if len(opt.CORSOrigins) > 0 {
		config := cors.DefaultConfig()
		if len(opt.CORSOrigins) == 1 && opt.CORSOrigins[0] == "*" {
			config.AllowAllOrigins = true
		} else {
			config.AllowOrigins = opt.CORSOrigins
		}
		r.Use(cors.New(config))
	}
	s := &Server{cache: c, engine: r}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", s.health)
	api := r.Group("/api")
	api.GET("/controls", s.controls)
	api.GET("/dashboard", s.dashboardJSON)
	api.GET("/dashboard.md", s.dashboardMarkdown)
	api.GET("/charts/:name", s.chartPNG)
	api.GET("/chart-urls", s.chartURLs)
	api.GET("/rows", s.rows)
}

// Handler exposes the engine for tests and custom listeners.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": addr, "rows": s.cache.Table().Len()}).Info("campaignlens listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logCtx := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			logCtx.Error("request failed")
			return
		}
		logCtx.Debug("request")
	}
}
