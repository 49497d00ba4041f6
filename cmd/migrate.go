package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/killallgit/rgain-analyzer/internal/database"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Manage the analysis history schema.

Migrations are applied with gorm AutoMigrate, which creates missing tables
and columns and never drops data.

Available subcommands:
  up      - Apply the schema to the database
  status  - Show which tables exist`,
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply the schema",
		Long: `Apply the analysis history schema to database.path.

Missing tables and columns are created; existing data is kept.`,
		Args: cobra.NoArgs,
		RunE: runMigrateUp,
	}
	migrateUpCmd.Flags().Bool("dry-run", false, "show what would be done without making changes")

	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long: `Display the current status of the analysis history schema.

Each model is listed with its table and whether the table exists.`,
		Args: cobra.NoArgs,
		RunE: runMigrateStatus,
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	return migrateCmd
}

// initDatabase opens database.path without migrating it
func initDatabase() (*database.DB, error) {
	if appConfig.Database.Path == "" {
		return nil, errNoDatabase
	}
	return database.Initialize(appConfig.Database.Path, appConfig.Database.LogQueries)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	db, err := initDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		return printStatus(cmd, db)
	}

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Fprintf(out, "Migrated %s\n", appConfig.Database.Path)
	return printStatus(cmd, db)
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := initDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	return printStatus(cmd, db)
}

func printStatus(cmd *cobra.Command, db *database.DB) error {
	statuses, err := db.Status()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render("Database Migration Status"))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tTABLE\tSTATUS")
	for _, s := range statuses {
		state := "pending"
		if s.Present {
			state = "applied"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Model, s.Table, state)
	}
	return tw.Flush()
}
