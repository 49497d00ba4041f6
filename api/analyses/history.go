package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/rgain-analyzer/api/types"
	"github.com/killallgit/rgain-analyzer/internal/models"
	analysesService "github.com/killallgit/rgain-analyzer/internal/services/analyses"
	apperrors "github.com/killallgit/rgain-analyzer/pkg/errors"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
)

// List returns recorded analyses, newest first
// @Summary      List analyses
// @Description  Pages through recorded analyses, optionally filtered by status
// @Tags         analyses
// @Produce      json
// @Param        status query string false "Filter by status" Enums(succeeded, tool_not_found, tool_failed, parse_failed, timed_out, invalid_request, cancelled, failed)
// @Param        file_path query string false "Only analyses of this file"
// @Param        limit  query int    false "Page size (default 50, max 500)"
// @Param        offset query int    false "Records to skip"
// @Success      200 {object} types.AnalysesResponse
// @Failure      400 {object} types.ErrorResponse "Invalid filter"
// @Failure      503 {object} types.ErrorResponse "History is disabled"
// @Router       /api/v1/analyses [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := types.ParseIntQuery(c, "limit", 0)
		if !ok {
			return
		}
		offset, ok := types.ParseIntQuery(c, "offset", 0)
		if !ok {
			return
		}

		opts := analysesService.ListOptions{
			Status:   models.AnalysisStatus(c.Query("status")),
			FilePath: c.Query("file_path"),
			Limit:    limit,
			Offset:   offset,
		}

		records, total, err := deps.AnalysisService.List(c.Request.Context(), opts)
		if err != nil {
			sendHistoryError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.AnalysesResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Analyses:     types.ToAnalyses(records),
			Count:        len(records),
			Total:        total,
			Offset:       offset,
		})
	}
}

// Get returns one recorded analysis
// @Summary      Get an analysis
// @Tags         analyses
// @Produce      json
// @Param        id path string true "Analysis ID"
// @Success      200 {object} types.AnalysisResponse
// @Failure      404 {object} types.ErrorResponse "Analysis not found"
// @Failure      503 {object} types.ErrorResponse "History is disabled"
// @Router       /api/v1/analyses/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := deps.AnalysisService.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			sendHistoryError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.AnalysisResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Analysis:     types.ToAnalysis(record),
		})
	}
}

// Delete removes one recorded analysis
// @Summary      Delete an analysis
// @Tags         analyses
// @Produce      json
// @Param        id path string true "Analysis ID"
// @Success      200 {object} types.BaseResponse
// @Failure      404 {object} types.ErrorResponse "Analysis not found"
// @Failure      503 {object} types.ErrorResponse "History is disabled"
// @Router       /api/v1/analyses/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.AnalysisService.Delete(c.Request.Context(), c.Param("id")); err != nil {
			sendHistoryError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{
			Status:  types.StatusOK,
			Message: "Analysis deleted",
		})
	}
}

func sendHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analysesService.ErrAnalysisNotFound):
		types.SendAppError(c, apperrors.NotFound("analysis", c.Param("id")))
	case errors.Is(err, analysesService.ErrInvalidID), errors.Is(err, analysesService.ErrInvalidStatus):
		types.SendBadRequest(c, err.Error())
	case errors.Is(err, analysesService.ErrHistoryDisabled):
		types.SendServiceUnavailable(c, "Analysis history is disabled")
	default:
		logging.Errorf("Analysis history query failed: %v", err)
		types.SendAppError(c, apperrors.DatabaseError("query", err))
	}
}
