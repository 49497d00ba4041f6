package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

// AnalysisStatus is the recorded outcome of one analysis
type AnalysisStatus string

const (
	AnalysisStatusSucceeded      AnalysisStatus = "succeeded"
	AnalysisStatusToolNotFound   AnalysisStatus = "tool_not_found"
	AnalysisStatusToolFailed     AnalysisStatus = "tool_failed"
	AnalysisStatusParseFailed    AnalysisStatus = "parse_failed"
	AnalysisStatusTimedOut       AnalysisStatus = "timed_out"
	AnalysisStatusInvalidRequest AnalysisStatus = "invalid_request"
	AnalysisStatusCancelled      AnalysisStatus = "cancelled"
	AnalysisStatusFailed         AnalysisStatus = "failed"
)

// Valid reports whether s is a known status
func (s AnalysisStatus) Valid() bool {
	switch s {
	case AnalysisStatusSucceeded, AnalysisStatusToolNotFound, AnalysisStatusToolFailed,
		AnalysisStatusParseFailed, AnalysisStatusTimedOut, AnalysisStatusInvalidRequest,
		AnalysisStatusCancelled, AnalysisStatusFailed:
		return true
	}
	return false
}

// AnalysisRecord is one stored analyzer run. It is history only and is
// never consulted to skip a new run.
type AnalysisRecord struct {
	gorm.Model
	UUID       string         `json:"id" gorm:"uniqueIndex;not null"`
	FilePath   string         `json:"file_path" gorm:"not null;index"`
	Profile    string         `json:"profile"`
	Executable string         `json:"executable"`
	Status     AnalysisStatus `json:"status" gorm:"not null;index"`
	ReplayGain *float64       `json:"replay_gain,omitempty"`
	ExitCode   *int           `json:"exit_code,omitempty"`
	Diagnostic string         `json:"diagnostic,omitempty" gorm:"type:text"` // stderr or raw output
	Metadata   MetadataJSON   `json:"metadata,omitempty" gorm:"type:json"`
	DurationMS int64          `json:"duration_ms"`
}

// TableName keeps the table name stable across renames of the struct
func (AnalysisRecord) TableName() string {
	return "analyses"
}

// Succeeded reports whether the run produced a gain value
func (r *AnalysisRecord) Succeeded() bool {
	return r.Status == AnalysisStatusSucceeded && r.ReplayGain != nil
}

// Duration returns the recorded wall time of the run
func (r *AnalysisRecord) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// MetadataJSON stores an analysis metadata mapping as a JSON column
type MetadataJSON map[string]any

// Value implements driver.Valuer interface for MetadataJSON
func (m MetadataJSON) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for MetadataJSON
func (m *MetadataJSON) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
	return json.Unmarshal(raw, m)
}

// StatusFromError classifies an analyzer error into a stored status
func StatusFromError(err error) AnalysisStatus {
	switch {
	case err == nil:
		return AnalysisStatusSucceeded
	case errors.Is(err, replaygain.ErrEmptyFilePath):
		return AnalysisStatusInvalidRequest
	case errors.Is(err, replaygain.ErrToolNotFound):
		return AnalysisStatusToolNotFound
	case errors.Is(err, replaygain.ErrTimeout):
		return AnalysisStatusTimedOut
	case errors.Is(err, replaygain.ErrToolExecution):
		return AnalysisStatusToolFailed
	case errors.Is(err, replaygain.ErrParse):
		return AnalysisStatusParseFailed
	case errors.Is(err, context.Canceled):
		return AnalysisStatusCancelled
	}
	return AnalysisStatusFailed
}

// Diagnostics pulls the exit code and the most useful text out of an analyzer error
func Diagnostics(err error) (exitCode *int, diagnostic string) {
	var execErr *replaygain.ToolExecutionError
	var parseErr *replaygain.ParseError
	var timeoutErr *replaygain.TimeoutError

	switch {
	case err == nil:
		return nil, ""
	case errors.As(err, &execErr):
		code := execErr.ExitCode
		if execErr.Stderr != "" {
			return &code, execErr.Stderr
		}
		return &code, err.Error()
	case errors.As(err, &parseErr):
		return nil, parseErr.RawOutput
	case errors.As(err, &timeoutErr) && timeoutErr.Stderr != "":
		return nil, timeoutErr.Stderr
	}
	return nil, err.Error()
}
