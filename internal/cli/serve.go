package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartdot/internal/server"
	"github.com/matzehuels/chartdot/pkg/cache"
	"github.com/matzehuels/chartdot/pkg/pipeline"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	redisURL string
	noCache  bool
	maxBody  int64
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:     server.DefaultAddr,
		redisURL: os.Getenv(envRedisURL),
		maxBody:  server.DefaultMaxBodyBytes,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Serve exposes the pipeline over HTTP:

  POST /v1/render?format=dot|svg|json   render a JSON model
  GET  /healthz                         liveness probe
  GET  /metrics                         Prometheus metrics

Rendered SVGs are cached in Redis when --redis-url (or ` + envRedisURL + `)
is set, otherwise in the local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", opts.redisURL, "Redis URL for the artifact cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := loggerFromContext(ctx)

	store, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, "serve"), logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:         opts.addr,
		Runner:       runner,
		Logger:       logger,
		MaxBodyBytes: opts.maxBody,
	})
	return srv.ListenAndServe(ctx)
}

// serveCache selects the artifact cache for the server: none, Redis, or
// the local file cache.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	logger := loggerFromContext(ctx)
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.redisURL != "":
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis cache", "prefix", cache.DefaultRedisPrefix)
		return rc, nil
	default:
		return newCache(false)
	}
}
