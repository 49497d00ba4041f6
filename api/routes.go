package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/rgain-analyzer/api/analyses"
	"github.com/killallgit/rgain-analyzer/api/health"
	"github.com/killallgit/rgain-analyzer/api/types"
	"github.com/killallgit/rgain-analyzer/api/version"
	_ "github.com/killallgit/rgain-analyzer/docs/swagger"
	"github.com/killallgit/rgain-analyzer/pkg/config"
)

// RouteOptions controls the per-route middleware
type RouteOptions struct {
	RateLimit config.RateLimitConfig
}

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, opts RouteOptions, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) {
	if deps == nil {
		deps = &types.Dependencies{}
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	// Each analysis spawns a process, so only POST is rate limited
	var analyzeMiddleware []gin.HandlerFunc
	if opts.RateLimit.Enabled {
		analyzeMiddleware = append(analyzeMiddleware, PerClientRateLimit(
			rateLimiters, cleanupStop, cleanupInitialized,
			opts.RateLimit.RequestsPerMinute, opts.RateLimit.Burst,
		))
	}
	analyses.RegisterRoutes(v1.Group("/analyses"), deps, analyzeMiddleware...)
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		types.SendNotFound(c, "The requested endpoint was not found: "+c.Request.URL.Path)
	}
}
