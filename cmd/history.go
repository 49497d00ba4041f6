package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/killallgit/rgain-analyzer/internal/models"
	"github.com/killallgit/rgain-analyzer/internal/services/analyses"
	"github.com/killallgit/rgain-analyzer/internal/services/retention"
	"github.com/killallgit/rgain-analyzer/pkg/replaygain"
)

func newHistoryCmd() *cobra.Command {
	var (
		status string
		file   string
		limit  int
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analyses",
		Long: `List analyses recorded in the history database, newest first.

Example:
  rgain-analyzer history
  rgain-analyzer history --status tool_failed --limit 20
  rgain-analyzer history --file /srv/music/incoming/track.mp3
  rgain-analyzer history show 0b7c0f3e-2d6e-4c0e-9f55-3f1c1a2b9d10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(svc analyses.AnalysisService) error {
				records, total, err := svc.List(cmd.Context(), analyses.ListOptions{
					Status:   models.AnalysisStatus(status),
					FilePath: file,
					Limit:    limit,
				})
				if err != nil {
					return err
				}
				printRecords(cmd, records, total)
				return nil
			})
		},
	}

	historyCmd.Flags().StringVar(&status, "status", "", "only show analyses with this status")
	historyCmd.Flags().StringVar(&file, "file", "", "only show analyses of this file path")
	historyCmd.Flags().IntVar(&limit, "limit", 20, "maximum number of analyses to show")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(svc analyses.AnalysisService) error {
				record, err := svc.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(record)
			})
		},
	}
	var olderThan time.Duration
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete analyses older than a given age",
		Long: `Permanently delete recorded analyses older than --older-than.

Defaults to database.retention when the flag is not given.

Example:
  rgain-analyzer history prune --older-than 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxAge := appConfig.Database.Retention
			if cmd.Flags().Changed("older-than") {
				maxAge = olderThan
			}
			if maxAge <= 0 {
				return fmt.Errorf("nothing to prune: set --older-than or database.retention")
			}

			db, err := openDatabase(appConfig.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			removed := retention.NewService(analyses.NewRepository(db.DB), maxAge, appConfig.Database.PruneInterval).
				Prune(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d analyses\n", removed)
			return nil
		},
	}
	pruneCmd.Flags().DurationVar(&olderThan, "older-than", 0, "age beyond which analyses are deleted")

	historyCmd.AddCommand(showCmd, pruneCmd)

	return historyCmd
}

// withHistory opens the history database for the duration of fn
func withHistory(fn func(svc analyses.AnalysisService) error) error {
	db, err := openDatabase(appConfig.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	// History reads never run the tool, so the default analyzer is enough
	return fn(buildService(replaygain.New(), db))
}

func printRecords(cmd *cobra.Command, records []models.AnalysisRecord, total int64) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No analyses recorded"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Analyses (%d of %d)", len(records), total)))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSTATUS\tGAIN\tFILE")
	for _, r := range records {
		gain := "-"
		if r.ReplayGain != nil {
			gain = fmt.Sprintf("%+.2f dB", *r.ReplayGain)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.UUID, r.CreatedAt.Local().Format(time.DateTime), r.Status, gain, r.FilePath)
	}
	_ = tw.Flush()
}
