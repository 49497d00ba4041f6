package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/killallgit/rgain-analyzer/api"
	"github.com/killallgit/rgain-analyzer/api/types"
	"github.com/killallgit/rgain-analyzer/internal/database"
	"github.com/killallgit/rgain-analyzer/pkg/logging"
	"github.com/killallgit/rgain-analyzer/pkg/tags"
)

func newServeCmd() *cobra.Command {
	var (
		serverHost string
		serverPort int
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the replay gain HTTP API with the configured settings.

Clients post a file path under server.media_root and receive its metadata
with replay_gain added. Results are recorded when database.path is set.

Example:
  rgain-analyzer serve
  rgain-analyzer serve --port 9090
  rgain-analyzer serve --host 0.0.0.0 --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				appConfig.Server.Host = serverHost
			}
			if cmd.Flags().Changed("port") {
				appConfig.Server.Port = serverPort
			}
			return runServer(cmd)
		},
	}

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")

	return serveCmd
}

// newServer wires the HTTP server from the loaded configuration. The returned
// cleanup closes the history database, if one was opened.
func newServer() (*api.Server, func(), error) {
	analyzer, err := buildAnalyzer(appConfig.Analyzer)
	if err != nil {
		return nil, nil, err
	}

	var db *database.DB
	cleanup := func() {}
	if appConfig.Database.Path != "" {
		if db, err = openDatabase(appConfig.Database); err != nil {
			return nil, nil, err
		}
		stopRetention := startRetention(context.Background(), db, appConfig.Database)
		cleanup = func() {
			stopRetention()
			if err := db.Close(); err != nil {
				logging.Warnf("Failed to close database: %v", err)
			}
		}
	} else {
		logging.Warnf("database.path is empty; analysis history is disabled")
	}

	deps := &types.Dependencies{
		DB:              db,
		AnalysisService: buildService(analyzer, db),
		Analyzer:        analyzer,
		MediaRoot:       appConfig.Server.MediaRoot,
		Version:         Version,
	}
	if appConfig.Analyzer.ReadTags {
		deps.TagReader = tags.Read
	}

	srv := api.NewServer(appConfig)
	srv.SetDependencies(deps)
	if err := srv.Initialize(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return srv, cleanup, nil
}

func runServer(cmd *cobra.Command) error {
	srv, cleanup, err := newServer()
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Starting rgain-analyzer API server on %s\n", srv.Addr())

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	fmt.Fprintf(out, "Server is ready to handle requests at %s\n", srv.Addr())

	// Wait for interrupt signal or server error
	var runErr error
	select {
	case <-stop:
		fmt.Fprintln(out, "\nShutting down server...")
	case runErr = <-serverErr:
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%v\n", runErr)
		fmt.Fprintln(out, "Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Fprintln(out, "Server gracefully stopped")
	return runErr
}
