package types

import (
	"github.com/killallgit/rgain-analyzer/internal/database"
	"github.com/killallgit/rgain-analyzer/internal/services/analyses"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

// TagReader seeds metadata from a file's embedded tags
type TagReader func(path string) (replaygain.Metadata, error)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB              *database.DB
	AnalysisService analyses.AnalysisService

	// Analyzer is reported by the health endpoint
	Analyzer analyses.GainAnalyzer

	// MediaRoot confines request paths; empty disables path resolution
	MediaRoot string

	// TagReader is optional; nil skips tag seeding
	TagReader TagReader

	Version string
}
