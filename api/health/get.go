package health

import (
	"net/http"
	"os/exec"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/rgain-analyzer/api/types"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Reports database connectivity and whether the analysis tool can be found
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Failure      503 {object} types.HealthResponse "Database unreachable"
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := types.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Database:  getDatabaseStatus(deps),
			Analyzer:  getAnalyzerStatus(deps),
		}

		code := http.StatusOK
		if response.Database["status"] == "unhealthy" {
			response.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) map[string]any {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return map[string]any{"status": "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return map[string]any{"status": "unhealthy", "error": err.Error()}
	}

	return map[string]any{"status": "healthy"}
}

// getAnalyzerStatus reports the active profile and executable. A tool that
// cannot be found does not make the service unhealthy; each analysis reports it.
func getAnalyzerStatus(deps *types.Dependencies) map[string]any {
	if deps == nil || deps.Analyzer == nil {
		return nil
	}

	executable := deps.Analyzer.Locator().Resolve()
	_, err := exec.LookPath(executable)

	return map[string]any{
		"profile":    deps.Analyzer.Profile().Name,
		"executable": executable,
		"available":  err == nil,
	}
}
