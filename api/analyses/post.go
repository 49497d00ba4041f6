package analyses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/rgain-analyzer/api/types"
	apperrors "github.com/killallgit/rgain-analyzer/pkg/errors"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

// Post runs a replay gain analysis on one media file
// @Summary      Analyze a file
// @Description  Runs the configured replay gain tool on a file under the media root and returns the metadata with replay_gain added. Every call runs the tool; stored history is never reused.
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        request body types.AnalyzeRequest true "File path and starting metadata"
// @Success      200 {object} types.AnalyzeResponse "Metadata with replay_gain"
// @Failure      400 {object} types.ErrorResponse "Invalid request or path outside the media root"
// @Failure      422 {object} types.ErrorResponse "Tool exited with an error (missing, corrupt or unsupported file)"
// @Failure      502 {object} types.ErrorResponse "Tool output could not be parsed"
// @Failure      503 {object} types.ErrorResponse "Tool is not installed"
// @Failure      504 {object} types.ErrorResponse "Analysis timed out"
// @Router       /api/v1/analyses [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.AnalyzeRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		path, err := ResolveMediaPath(deps.MediaRoot, req.Path)
		if err != nil {
			logging.Warnf("Rejected analysis path %q: %v", req.Path, err)
			types.SendAppError(c, apperrors.ValidationError("path", err.Error()))
			return
		}

		metadata := seedMetadata(deps.TagReader, path, req.Metadata)

		result, err := deps.AnalysisService.Analyze(c.Request.Context(), replaygain.Request{
			FilePath: path,
			Metadata: metadata,
		})
		if err != nil {
			appErr := apperrors.FromAnalysis(err)
			if result != nil && result.Record != nil {
				appErr.WithDetail("id", result.Record.UUID)
			}
			types.SendAppError(c, appErr)
			return
		}

		resp := types.AnalyzeResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Metadata:     result.Metadata,
		}
		if result.Record != nil {
			resp.ID = result.Record.UUID
		}
		c.JSON(http.StatusOK, resp)
	}
}

// seedMetadata starts from the file's tags when a reader is configured;
// fields sent by the client win over tag values
func seedMetadata(readTags types.TagReader, path string, requested map[string]any) replaygain.Metadata {
	if readTags == nil {
		return replaygain.Metadata(requested)
	}

	seeded, err := readTags(path)
	if err != nil {
		logging.Debugf("No tags read from %s: %v", path, err)
		return replaygain.Metadata(requested)
	}

	merged := seeded.Clone()
	for k, v := range requested {
		merged[k] = v
	}
	return merged
}
