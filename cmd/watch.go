package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/killallgit/rgain-analyzer/internal/database"
	"github.com/killallgit/rgain-analyzer/internal/services/analyses"
	"github.com/killallgit/rgain-analyzer/internal/watcher"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

func newWatchCmd() *cobra.Command {
	var recursive bool

	watchCmd := &cobra.Command{
		Use:   "watch [dir...]",
		Short: "Analyze files as they appear in directories",
		Long: `Watch directories for new or rewritten audio files and analyze each one
once it has stopped changing. Files are analyzed one at a time.

Directories default to watch.dirs. Results are recorded when database.path
is set.

Example:
  rgain-analyzer watch ~/Music/incoming
  rgain-analyzer watch --recursive /srv/media`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, recursive)
		},
	}

	watchCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "also watch subdirectories")

	return watchCmd
}

func runWatch(cmd *cobra.Command, dirs []string, recursive bool) error {
	if len(dirs) == 0 {
		dirs = appConfig.Watch.Dirs
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no directories to watch: pass them as arguments or set watch.dirs")
	}

	analyzer, err := buildAnalyzer(appConfig.Analyzer)
	if err != nil {
		return err
	}

	var db *database.DB
	if appConfig.Database.Path != "" {
		if db, err = openDatabase(appConfig.Database); err != nil {
			return err
		}
		defer db.Close()
	}
	svc := buildService(analyzer, db)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopRetention := startRetention(ctx, db, appConfig.Database)
	defer stopRetention()

	w, err := watcher.New(dirs, watcher.Options{
		Extensions: appConfig.Watch.Extensions,
		MinFileAge: appConfig.Watch.MinFileAge,
		Recursive:  recursive,
	}, analysisHandler(svc, appConfig.Analyzer.ReadTags))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d director(ies) with profile %s\n", len(w.Dirs()), analyzer.Profile().Name)
	return w.Run(ctx)
}

// analysisHandler analyzes one settled file with tag-seeded metadata
func analysisHandler(svc analyses.AnalysisService, readTags bool) watcher.Handler {
	return func(ctx context.Context, path string) error {
		result, err := svc.Analyze(ctx, replaygain.Request{
			FilePath: path,
			Metadata: seedMetadata(path, readTags),
		})
		if err != nil {
			return err
		}

		if gain, ok := result.Metadata.ReplayGain(); ok {
			logging.Infof("%s: %+.2f dB", path, gain)
		}
		return nil
	}
}
