package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/killallgit/rgain-analyzer/internal/models"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// service implements AnalysisService
type service struct {
	analyzer GainAnalyzer
	repo     AnalysisRepository
	now      func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithRepository enables history recording
func WithRepository(repo AnalysisRepository) ServiceOption {
	return func(s *service) {
		s.repo = repo
	}
}

// WithClock replaces time.Now for duration measurement
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new analysis service
func NewService(analyzer GainAnalyzer, opts ...ServiceOption) AnalysisService {
	s := &service{
		analyzer: analyzer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HistoryEnabled reports whether outcomes are persisted
func (s *service) HistoryEnabled() bool {
	return s.repo != nil
}

// Analyze always runs the tool; stored history is never used to skip a run.
// A failure to record is logged and never replaces the analysis outcome.
func (s *service) Analyze(ctx context.Context, req replaygain.Request) (*Result, error) {
	profile := s.analyzer.Profile()
	executable := req.Executable
	if executable == "" {
		executable = s.analyzer.Locator().Resolve()
	}

	start := s.now()
	metadata, err := s.analyzer.Run(ctx, req)
	elapsed := s.now().Sub(start)

	if err != nil {
		s.logFailure(profile, executable, req.FilePath, err)
	} else {
		logging.Infof("Analyzed %s in %s", req.FilePath, elapsed.Round(time.Millisecond))
	}

	result := &Result{Metadata: metadata}
	if s.repo == nil {
		return result, err
	}

	record := newRecord(req, profile.Name, executable, metadata, err, elapsed)
	// A cancelled analysis is still worth recording
	if createErr := s.repo.Create(context.WithoutCancel(ctx), record); createErr != nil {
		logging.Warnf("Failed to record analysis of %s: %v", req.FilePath, createErr)
		return result, err
	}

	result.Record = record
	return result, err
}

// logFailure logs a failed run with a hint pointing at the likely fix
func (s *service) logFailure(profile replaygain.Profile, executable, filePath string, err error) {
	switch {
	case errors.Is(err, replaygain.ErrToolNotFound):
		logging.Warnf("Could not run %s for %s (is %s installed?): %v", executable, filePath, toolPackage(profile), err)
	case errors.Is(err, replaygain.ErrTimeout):
		logging.Warnf("Replay gain analysis of %s timed out: %v", filePath, err)
	case errors.Is(err, context.Canceled):
		logging.Infof("Replay gain analysis of %s cancelled", filePath)
	default:
		logging.Warnf("Replay gain analysis of %s failed: %v", filePath, err)
	}
}

// toolPackage names what to install for a profile
func toolPackage(profile replaygain.Profile) string {
	switch profile.Name {
	case replaygain.ProfileRGain, replaygain.ProfileGeneric:
		return "python-rgain"
	case "":
		return "the replay gain tool"
	}
	return profile.Executable
}

func newRecord(req replaygain.Request, profile, executable string, metadata replaygain.Metadata, err error, elapsed time.Duration) *models.AnalysisRecord {
	record := &models.AnalysisRecord{
		UUID:       uuid.New().String(),
		FilePath:   req.FilePath,
		Profile:    profile,
		Executable: executable,
		Status:     models.StatusFromError(err),
		DurationMS: elapsed.Milliseconds(),
	}

	if len(metadata) > 0 {
		record.Metadata = models.MetadataJSON(metadata.Clone())
	}

	if err != nil {
		record.ExitCode, record.Diagnostic = models.Diagnostics(err)
		return record
	}

	if gain, ok := metadata.ReplayGain(); ok {
		record.ReplayGain = &gain
	}
	return record
}

// Get retrieves a recorded analysis by its public ID
func (s *service) Get(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	if id == "" {
		return nil, ErrInvalidID
	}

	logging.Debugf("Getting analysis %s", id)
	return s.repo.GetByUUID(ctx, id)
}

// List returns recorded analyses, newest first, and the unpaged total
func (s *service) List(ctx context.Context, opts ListOptions) ([]models.AnalysisRecord, int64, error) {
	if s.repo == nil {
		return nil, 0, ErrHistoryDisabled
	}
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, opts.Status)
	}

	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	return s.repo.List(ctx, opts)
}

// Delete removes a recorded analysis
func (s *service) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrHistoryDisabled
	}
	if id == "" {
		return ErrInvalidID
	}

	logging.Debugf("Deleting analysis %s", id)
	return s.repo.DeleteByUUID(ctx, id)
}
