package types

import "time"

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// AnalyzeRequest is the body of POST /api/v1/analyses
type AnalyzeRequest struct {
	Path     string         `json:"path" binding:"required" example:"albums/2011/44100Hz-16bit-stereo.mp3"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Analysis is the public view of one recorded analysis
type Analysis struct {
	ID         string         `json:"id" example:"0b7c0f3e-2d6e-4c0e-9f55-3f1c1a2b9d10"`
	FilePath   string         `json:"file_path"`
	Profile    string         `json:"profile" example:"rgain"`
	Executable string         `json:"executable" example:"replaygain"`
	Status     string         `json:"status" example:"succeeded"`
	ReplayGain *float64       `json:"replay_gain,omitempty" example:"5.02"`
	ExitCode   *int           `json:"exit_code,omitempty"`
	Diagnostic string         `json:"diagnostic,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	DurationMS int64          `json:"duration_ms"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AnalyzeResponse is returned by a successful analysis
type AnalyzeResponse struct {
	BaseResponse
	ID       string         `json:"id,omitempty"`
	Metadata map[string]any `json:"metadata"`
}

// AnalysisResponse wraps a single recorded analysis
type AnalysisResponse struct {
	BaseResponse
	Analysis *Analysis `json:"analysis"`
}

// AnalysesResponse is a page of recorded analyses
type AnalysesResponse struct {
	BaseResponse
	Analyses []Analysis `json:"analyses"`
	Count    int        `json:"count"`
	Total    int64      `json:"total"`
	Offset   int        `json:"offset,omitempty"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`   // Error code
	Details any    `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Database  map[string]any `json:"database"`
	Analyzer  map[string]any `json:"analyzer,omitempty"`
}

// VersionResponse for the root endpoint
type VersionResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
