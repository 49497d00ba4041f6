package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/rgain-analyzer/api/types"
	"github.com/killallgit/rgain-analyzer/internal/database"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

type stubAnalyzer struct {
	locator *replaygain.Locator
}

func (s stubAnalyzer) Run(ctx context.Context, req replaygain.Request) (replaygain.Metadata, error) {
	return req.Metadata, nil
}

func (s stubAnalyzer) Profile() replaygain.Profile {
	return replaygain.DefaultProfile()
}

func (s stubAnalyzer) Locator() *replaygain.Locator {
	return s.locator
}

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name             string
		setupDeps        func() *types.Dependencies
		expectedCode     int
		expectedStatus   string
		expectedDBStatus string
	}{
		{
			name: "healthy with database",
			setupDeps: func() *types.Dependencies {
				db, err := database.Initialize(":memory:", false)
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })
				return &types.Dependencies{DB: db}
			},
			expectedCode:     http.StatusOK,
			expectedStatus:   "ok",
			expectedDBStatus: "healthy",
		},
		{
			name: "healthy without database",
			setupDeps: func() *types.Dependencies {
				return &types.Dependencies{}
			},
			expectedCode:     http.StatusOK,
			expectedStatus:   "ok",
			expectedDBStatus: "not configured",
		},
		{
			name: "unhealthy with closed database",
			setupDeps: func() *types.Dependencies {
				db, err := database.Initialize(":memory:", false)
				require.NoError(t, err)
				require.NoError(t, db.Close())
				return &types.Dependencies{DB: db}
			},
			expectedCode:     http.StatusServiceUnavailable,
			expectedStatus:   "unhealthy",
			expectedDBStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Get(tt.setupDeps())(c)

			assert.Equal(t, tt.expectedCode, w.Code)

			var response types.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedStatus, response.Status)
			assert.Equal(t, tt.expectedDBStatus, response.Database["status"])
			assert.Nil(t, response.Analyzer)
		})
	}
}

func TestGetAnalyzerStatus(t *testing.T) {
	deps := &types.Dependencies{
		Analyzer: stubAnalyzer{locator: replaygain.NewLocator("foosdaf-not-installed")},
	}

	status := getAnalyzerStatus(deps)

	assert.Equal(t, replaygain.ProfileRGain, status["profile"])
	assert.Equal(t, "foosdaf-not-installed", status["executable"])
	assert.Equal(t, false, status["available"])
}
