package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/killallgit/rgain-analyzer/pkg/config"
	apperrors "github.com/killallgit/rgain-analyzer/pkg/errors"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
)

// appConfig is loaded once per invocation by the root pre-run hook
var appConfig *config.Config

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for unusable configuration and 1 for everything else
func exitCode(err error) int {
	if apperrors.Is(err, apperrors.ErrCodeConfigInvalid) {
		return 2
	}
	return 1
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	var (
		configFile string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "rgain-analyzer",
		Short: "Replay gain analysis for audio files",
		Long: `rgain-analyzer - replay gain analysis for audio files

Runs an external replay gain tool (python-rgain by default) on audio files
and adds the recommended track gain to their metadata.

Features:
  • One-shot analysis of files from the command line
  • HTTP API with optional analysis history
  • Directory watching for newly added files
  • Pluggable tool profiles (rgain, mp3gain, loudgain, ffmpeg)`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsConfig(cmd) {
				return nil
			}
			levelOverride := ""
			if cmd.Flags().Changed("log-level") {
				levelOverride = logLevel
			}
			return loadConfig(configFile, levelOverride)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default "+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newServeCmd(),
		newWatchCmd(),
		newHistoryCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// needsConfig is false for commands that never read settings
func needsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return false
	}
	return true
}

// loadConfig initializes configuration and applies the log level.
// A non-empty levelOverride wins over logging.level.
func loadConfig(configFile, levelOverride string) error {
	if err := config.Init(configFile); err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	levelName := cfg.Logging.Level
	if levelOverride != "" {
		levelName = levelOverride
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	appConfig = cfg
	return nil
}
