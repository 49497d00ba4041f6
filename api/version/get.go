package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/rgain-analyzer/api/types"
)

// DevVersion is reported when no build version was injected
const DevVersion = "dev"

// Get handles version requests
// @Summary      Service version
// @Tags         health
// @Produce      json
// @Success      200 {object} types.VersionResponse
// @Router       / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := DevVersion
	if deps != nil && deps.Version != "" {
		version = deps.Version
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.VersionResponse{
			Name:        "rgain-analyzer",
			Version:     version,
			Description: "Replay gain analysis for audio files",
			Status:      "running",
		})
	}
}
