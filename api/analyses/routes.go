package analyses

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/rgain-analyzer/api/types"
)

// RegisterRoutes registers analysis routes. analyzeMiddleware guards only the
// endpoint that spawns a process.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, analyzeMiddleware ...gin.HandlerFunc) {
	// POST /api/v1/analyses - Run the tool on one file
	post := append(append([]gin.HandlerFunc{}, analyzeMiddleware...), Post(deps))
	router.POST("", post...)

	// GET /api/v1/analyses - List recorded analyses
	router.GET("", List(deps))

	// GET /api/v1/analyses/:id - Get one recorded analysis
	router.GET("/:id", Get(deps))

	// DELETE /api/v1/analyses/:id - Remove one recorded analysis
	router.DELETE("/:id", Delete(deps))
}
