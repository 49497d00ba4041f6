package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/rgain-analyzer/api/types"
)

func TestServeCommand_Flags(t *testing.T) {
	serveCmd, _, err := NewRootCmd().Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serveCmd.Flags().Lookup("host"))
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
}

func TestNewServer_Wiring(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := setupCLI(t)
	env.writeAudio(t, "44100Hz-16bit-stereo.mp3", "audio")

	require.NoError(t, loadConfig(env.config, ""))

	srv, cleanup, err := newServer()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
		cleanup()
	})

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Database["status"])
	assert.Equal(t, env.tool, health.Analyzer["executable"])
	assert.Equal(t, true, health.Analyzer["available"])

	body := bytes.NewBufferString(`{"path":"44100Hz-16bit-stereo.mp3","metadata":{"title":"Signal"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var analyzed types.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analyzed))
	assert.NotEmpty(t, analyzed.ID)
	assert.Equal(t, "Signal", analyzed.Metadata["title"])
	assert.InDelta(t, 5.02, analyzed.Metadata["replay_gain"], 1e-9)

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analyzed.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
