package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/killallgit/rgain-analyzer/internal/database"
	"github.com/killallgit/rgain-analyzer/internal/services/analyses"
	apperrors "github.com/killallgit/rgain-analyzer/pkg/errors"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

type analyzeOptions struct {
	profile string
	tool    string
	timeout time.Duration
	tags    bool
	jsonOut bool
	record  bool
}

// fileOutcome is the per-file result printed by analyze
type fileOutcome struct {
	File       string              `json:"file"`
	ID         string              `json:"id,omitempty"`
	ReplayGain *float64            `json:"replay_gain,omitempty"`
	Metadata   replaygain.Metadata `json:"metadata,omitempty"`
	Code       string              `json:"code,omitempty"`
	Error      string              `json:"error,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Compute the replay gain of audio files",
		Long: `Run the configured replay gain tool on each file in turn and print the
recommended track gain.

Files are analyzed one at a time. The exit status is non-zero when any
file fails.

Example:
  rgain-analyzer analyze track.mp3
  rgain-analyzer analyze --profile ffmpeg --json album/*.flac
  rgain-analyzer analyze --tool /opt/rgain/bin/replaygain --record track.ogg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	analyzeCmd.Flags().StringVar(&opts.profile, "profile", "", "tool profile (overrides analyzer.profile)")
	analyzeCmd.Flags().StringVar(&opts.tool, "tool", "", "executable to run for this invocation")
	analyzeCmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-file time limit (overrides analyzer.timeout)")
	analyzeCmd.Flags().BoolVar(&opts.tags, "tags", false, "seed metadata from embedded tags (overrides analyzer.read_tags)")
	analyzeCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print results as JSON")
	analyzeCmd.Flags().BoolVar(&opts.record, "record", false, "store results in the history database")

	return analyzeCmd
}

func runAnalyze(cmd *cobra.Command, files []string, opts *analyzeOptions) error {
	analyzerCfg := appConfig.Analyzer
	if cmd.Flags().Changed("profile") {
		analyzerCfg.Profile = opts.profile
	}
	if cmd.Flags().Changed("timeout") {
		analyzerCfg.Timeout = opts.timeout
	}
	readTags := analyzerCfg.ReadTags
	if cmd.Flags().Changed("tags") {
		readTags = opts.tags
	}

	analyzer, err := buildAnalyzer(analyzerCfg)
	if err != nil {
		return err
	}

	var db *database.DB
	if opts.record {
		if db, err = openDatabase(appConfig.Database); err != nil {
			return fmt.Errorf("cannot record history: %w", err)
		}
		defer db.Close()
	}
	svc := buildService(analyzer, db)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bar *progressbar.ProgressBar
	if len(files) > 1 && !opts.jsonOut {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Analyzing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	outcomes := make([]fileOutcome, 0, len(files))
	failed := 0
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		if bar != nil {
			bar.Describe(filepath.Base(file))
		}

		outcome := analyzeFile(ctx, svc, file, opts.tool, readTags)
		if outcome.Error != "" {
			failed++
		}
		outcomes = append(outcomes, outcome)

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if err := printOutcomes(cmd, outcomes, opts.jsonOut); err != nil {
		return err
	}

	if skipped := len(files) - len(outcomes); skipped > 0 {
		return fmt.Errorf("interrupted: %d of %d files not analyzed", skipped, len(files))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// analyzeFile runs one file through the service and flattens the result
func analyzeFile(ctx context.Context, svc analyses.AnalysisService, file, tool string, readTags bool) fileOutcome {
	outcome := fileOutcome{File: file}

	result, err := svc.Analyze(ctx, replaygain.Request{
		FilePath:   file,
		Metadata:   seedMetadata(file, readTags),
		Executable: tool,
	})
	if result != nil && result.Record != nil {
		outcome.ID = result.Record.UUID
	}
	if err != nil {
		appErr := apperrors.FromAnalysis(err)
		outcome.Code = string(appErr.Code)
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Metadata = result.Metadata
	if gain, ok := result.Metadata.ReplayGain(); ok {
		outcome.ReplayGain = &gain
	}
	return outcome
}

func printOutcomes(cmd *cobra.Command, outcomes []fileOutcome, jsonOut bool) error {
	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	}

	if len(outcomes) > 1 {
		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Replay gain (%d files)", len(outcomes))))
	}
	for _, o := range outcomes {
		fmt.Fprintln(out, renderOutcome(o))
	}
	return nil
}
