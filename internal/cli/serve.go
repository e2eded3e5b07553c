package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/internal/api"
	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		maxBody  int64
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Run the HTTP rendering API.

Endpoints:
  GET  /healthz
  POST /v1/render?format=svg|png|pdf|json
  POST /v1/layout

With --redis (or ` + envRedisURL + `) results are cached in Redis and shared
between instances; otherwise an in-memory cache is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisURL == "" {
				redisURL = os.Getenv(envRedisURL)
			}
			return c.runServe(cmd.Context(), addr, redisURL, api.WithMaxBodyBytes(maxBody), api.WithTimeout(timeout))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for the shared cache (default: $"+envRedisURL+")")
	cmd.Flags().Int64Var(&maxBody, "max-body", api.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "per-request timeout")

	return cmd
}

// runServe serves the API until the context is cancelled or a signal arrives.
func (c *CLI) runServe(ctx context.Context, addr, redisURL string, opts ...api.Option) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := c.serverCache(ctx, redisURL)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api"), c.Logger)
	defer runner.Close()

	observability.NewLogHooks(c.Logger).Register()

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.New(runner, c.Logger, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// serverCache connects to Redis when a URL is given and falls back to an
// in-process cache otherwise.
func (c *CLI) serverCache(ctx context.Context, redisURL string) (cache.Cache, error) {
	if redisURL == "" {
		printWarning("No Redis configured, using an in-memory cache")
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(ctx, redisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Logger.Info("using redis cache")
	return rc, nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
