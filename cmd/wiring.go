package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/killallgit/rgain-analyzer/internal/database"
	"github.com/killallgit/rgain-analyzer/internal/services/analyses"
	"github.com/killallgit/rgain-analyzer/internal/services/retention"
	"github.com/killallgit/rgain-analyzer/pkg/config"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
	"github.com/killallgit/rgain-analyzer/pkg/tags"
)

// errNoDatabase is returned when history is requested without database.path
var errNoDatabase = errors.New("database.path is not configured")

// buildAnalyzer creates an analyzer from the analyzer settings
func buildAnalyzer(cfg config.AnalyzerConfig) (*replaygain.Analyzer, error) {
	profile, err := replaygain.LookupProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}

	return replaygain.New(
		replaygain.WithProfile(profile),
		replaygain.WithExecutable(cfg.Executable),
		replaygain.WithTimeout(cfg.Timeout),
	), nil
}

// openDatabase opens and migrates the history database
func openDatabase(cfg config.DatabaseConfig) (*database.DB, error) {
	if cfg.Path == "" {
		return nil, errNoDatabase
	}

	db, err := database.Initialize(cfg.Path, cfg.LogQueries)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// buildService wires the analyzer to an optional history store
func buildService(analyzer analyses.GainAnalyzer, db *database.DB) analyses.AnalysisService {
	var opts []analyses.ServiceOption
	if db != nil {
		opts = append(opts, analyses.WithRepository(analyses.NewRepository(db.DB)))
	}
	return analyses.NewService(analyzer, opts...)
}

// startRetention prunes old history in the background when database.retention
// is set. The returned func stops it.
func startRetention(ctx context.Context, db *database.DB, cfg config.DatabaseConfig) func() {
	if db == nil || cfg.Retention <= 0 {
		return func() {}
	}

	svc := retention.NewService(analyses.NewRepository(db.DB), cfg.Retention, cfg.PruneInterval)
	svc.Start(ctx)
	return svc.Stop
}

// seedMetadata returns the file's tags, or empty metadata when they cannot be read
func seedMetadata(path string, readTags bool) replaygain.Metadata {
	if !readTags {
		return replaygain.Metadata{}
	}
	md, err := tags.Read(path)
	if err != nil {
		logging.Debugf("No tags read from %s: %v", path, err)
		return replaygain.Metadata{}
	}
	return md
}
