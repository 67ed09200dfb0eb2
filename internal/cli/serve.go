package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockparse/internal/api"
	"github.com/matzehuels/lockparse/pkg/cache"
	"github.com/matzehuels/lockparse/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parse API over HTTP",
		Long: `Serve the parse API over HTTP.

The document cache defaults to an in-memory LRU; set cache.backend = "redis"
in the config file (or LOCKPARSE_CACHE_BACKEND=redis) to share it between
instances.

Routes:
  POST /v1/parse?format=<name>   parse the request body
  POST /v1/detect                report the body's format
  GET  /v1/formats               list supported formats
  GET  /healthz                  liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newServerRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.New(runner, c.Logger, api.Options{MaxBodyBytes: c.Config.Server.MaxBodyBytes}).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

// newServerRunner is newRunner for the API: the file backend is replaced by
// the in-memory one and keys are scoped apart from the CLI's.
func (c *CLI) newServerRunner(ctx context.Context) (*pipeline.Runner, error) {
	cfg := c.Config.Cache
	if cfg.Backend == backendFile {
		cfg.Backend = backendMemory
	}
	store, err := newCache(ctx, cfg, c.noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	logger := loggerFromContext(ctx)

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
