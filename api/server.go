package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/rgain-analyzer/api/types"
	"github.com/killallgit/rgain-analyzer/internal/database"
	"github.com/killallgit/rgain-analyzer/pkg/config"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
)

// Server represents the HTTP server
type Server struct {
	engine             *gin.Engine
	httpServer         *http.Server
	cfg                *config.Config
	rateLimiters       *sync.Map
	cleanupInitialized sync.Once
	cleanupStop        chan struct{}
	stopOnce           sync.Once

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// ginMode maps the configured environment onto a gin mode. Development
// and unknown environments leave gin's current mode alone.
func ginMode(environment string) string {
	switch strings.ToLower(environment) {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	}
	return ""
}

// NewServer creates a new HTTP server from the server, security and rate
// limiting sections of cfg
func NewServer(cfg *config.Config) *Server {
	if mode := ginMode(cfg.Environment); mode != "" {
		gin.SetMode(mode)
	}

	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Errorf("Recovered from panic in %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		types.SendInternalError(c, "Internal server error")
		c.Abort()
	}))

	maxHeaderBytes := cfg.Server.MaxHeaderBytes
	if maxHeaderBytes <= 0 {
		maxHeaderBytes = 1 << 20 // 1 MB
	}

	return &Server{
		engine:       engine,
		cfg:          cfg,
		rateLimiters: &sync.Map{},
		cleanupStop:  make(chan struct{}),
		httpServer: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:        engine,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    30 * time.Second,
			MaxHeaderBytes: maxHeaderBytes,
		},
	}
}

// SetDatabase sets the database connection
func (s *Server) SetDatabase(db *database.DB) {
	if s.dependencies == nil {
		s.dependencies = &types.Dependencies{}
	}
	s.dependencies.DB = db
}

// SetDependencies sets all handler dependencies
func (s *Server) SetDependencies(deps *types.Dependencies) {
	s.dependencies = deps
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	if s.dependencies == nil || s.dependencies.AnalysisService == nil {
		return fmt.Errorf("analysis service is not configured")
	}

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	s.engine.Use(gin.Logger())

	if s.cfg.Security.EnableCORS {
		s.engine.Use(CORS(s.cfg.Security.CORSOrigins))
	}

	if s.cfg.Server.MaxBodyBytes > 0 {
		s.engine.Use(RequestSizeLimitWithSize(s.cfg.Server.MaxBodyBytes))
	} else {
		s.engine.Use(RequestSizeLimit())
	}
}

// setupRoutes delegates to the main route registration
func (s *Server) setupRoutes() {
	RegisterRoutes(s.engine, s.dependencies, RouteOptions{RateLimit: s.cfg.RateLimiting},
		s.rateLimiters, s.cleanupStop, &s.cleanupInitialized)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the rate limiter cleanup goroutine
	s.stopOnce.Do(func() { close(s.cleanupStop) })

	return s.httpServer.Shutdown(ctx)
}
