package analyses

import (
	"context"
	"time"

	"github.com/killallgit/rgain-analyzer/internal/models"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

// GainAnalyzer is the part of *replaygain.Analyzer the service drives
type GainAnalyzer interface {
	// Run analyzes one file
	Run(ctx context.Context, req replaygain.Request) (replaygain.Metadata, error)

	// Profile returns the tool profile in use
	Profile() replaygain.Profile

	// Locator returns where the executable is resolved from
	Locator() *replaygain.Locator
}

// AnalysisService defines the interface for analysis operations
type AnalysisService interface {
	// Analyze always runs the tool, then records the outcome when history is enabled
	Analyze(ctx context.Context, req replaygain.Request) (*Result, error)

	// Get retrieves a recorded analysis by its public ID
	Get(ctx context.Context, id string) (*models.AnalysisRecord, error)

	// List returns recorded analyses, newest first, and the unpaged total
	List(ctx context.Context, opts ListOptions) ([]models.AnalysisRecord, int64, error)

	// Delete removes a recorded analysis
	Delete(ctx context.Context, id string) error

	// HistoryEnabled reports whether outcomes are persisted
	HistoryEnabled() bool
}

// AnalysisRepository defines the interface for analysis history data access
type AnalysisRepository interface {
	// Create stores a new record
	Create(ctx context.Context, record *models.AnalysisRecord) error

	// GetByUUID retrieves a record by its public ID
	GetByUUID(ctx context.Context, id string) (*models.AnalysisRecord, error)

	// List returns a page of records matching opts and the unpaged total
	List(ctx context.Context, opts ListOptions) ([]models.AnalysisRecord, int64, error)

	// DeleteByUUID removes a record by its public ID
	DeleteByUUID(ctx context.Context, id string) error

	// DeleteOlderThan removes records created before cutoff and returns how many
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ListOptions filters and pages history queries
type ListOptions struct {
	Status   models.AnalysisStatus
	FilePath string
	Limit    int
	Offset   int
}

// Result is the outcome of one Analyze call. Metadata is the caller's
// mapping untouched when the analysis failed. Record is nil when history is
// disabled or could not be written.
type Result struct {
	Metadata replaygain.Metadata
	Record   *models.AnalysisRecord
}
