package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/branchseek/branchseek/internal/adapters/driven/config/file"
	"github.com/branchseek/branchseek/internal/adapters/driving/web"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP server exposing the search API:

  POST /api/search                       start a search, returns a search ID
  GET  /api/search/progress/:searchId    live progress stream (SSE)
  GET  /api/branches/:owner/:repo        list branches
  POST /api/search/repositories          search repositories
  GET  /health                           health check

Progress events stream as server-sent events while a search walks the
repository's branches.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "host to bind")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to bind (default from config, else 3000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	port := servePort
	if port == 0 && configStore != nil {
		port = configStore.GetInt(file.KeyServerPort)
	}
	if port == 0 {
		port = 3000
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	server, err := web.NewServer(searchService, logger, &web.Config{
		Host: serveHost,
		Port: port,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "branchseek API listening on http://%s:%d\n", serveHost, port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
