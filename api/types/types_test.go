package types

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/rgain-analyzer/internal/models"
	apperrors "github.com/killallgit/rgain-analyzer/pkg/errors"
)

func TestToAnalysis(t *testing.T) {
	gain := 5.02
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	record := &models.AnalysisRecord{
		UUID:       "abc",
		FilePath:   "/music/a.mp3",
		Profile:    "rgain",
		Executable: "replaygain",
		Status:     models.AnalysisStatusSucceeded,
		ReplayGain: &gain,
		Metadata:   models.MetadataJSON{"title": "Signal"},
		DurationMS: 900,
	}
	record.CreatedAt = created

	got := ToAnalysis(record)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "succeeded", got.Status)
	assert.Equal(t, &gain, got.ReplayGain)
	assert.Equal(t, "Signal", got.Metadata["title"])
	assert.Equal(t, created, got.CreatedAt)

	assert.Nil(t, ToAnalysis(nil))
	assert.Len(t, ToAnalyses([]models.AnalysisRecord{*record, *record}), 2)
	assert.NotNil(t, ToAnalyses(nil))
}

func TestSendAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendAppError(c, apperrors.New(apperrors.ErrCodeToolNotFound, "replay gain tool is not available").
		WithDetail("executable", "foosdaf"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "TOOL_NOT_FOUND", resp.Error)
	assert.Equal(t, map[string]any{"executable": "foosdaf"}, resp.Details)
}

func TestParseIntQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query  string
		want   int
		wantOK bool
	}{
		{query: "", want: 7, wantOK: true},
		{query: "?limit=25", want: 25, wantOK: true},
		{query: "?limit=lots", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)

			got, ok := ParseIntQuery(c, "limit", 7)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
