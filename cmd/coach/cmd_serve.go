package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"rein-coach/internal/server"
)

var serveAddress string

// serveCmd exposes the pipeline over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline and coach over HTTP",
	Long: `Starts the HTTP API:
  GET  /health        liveness
  GET  /ready         readiness
  GET  /metrics       Prometheus metrics
  POST /api/pipeline  {goal, profile} -> pipeline result
  POST /api/coach     {query, goal_context, recent_progress} -> {response}`,
	Args: cobra.NoArgs,
	RunE: serve,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "addr", "", "listen address (default: server.address)")
}

func serve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if serveAddress != "" {
		cfg.Server.Address = serveAddress
	}

	observer, shutdownObs, err := setupObservers(ctx, true)
	if err != nil {
		return err
	}
	defer shutdownObs(context.Background())

	p, err := newPipeline(ctx, observer)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.RouterConfig{
		ServiceName:     cfg.Observability.ServiceName,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Logger:          log,
		PipelineHandler: server.NewPipelineHandler(p),
		HealthHandler:   server.NewHealthHandler(nil),
	})
	return runServer(ctx, server.NewServer(cfg.Server.Address, router, log))
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, srv *server.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped gracefully", nil)
	return nil
}
