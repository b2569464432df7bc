package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/okplanar/internal/server"
	"github.com/matzehuels/okplanar/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		storeName   string
		noCache     bool
		maxVertices int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on the configured address.

  POST /v1/solve          {"graph6": "D~{", "formats": ["svg"]}
  POST /v1/batch          {"graphs": [{"graph6": "Bw"}, {"graph6": "C~"}]}
  GET  /v1/results/{id}
  GET  /v1/runs/{runID}
  GET  /healthz, /metrics

The [server], [cache] and [store] sections of the config file apply; a
shared Redis cache is the usual choice when several instances run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if maxVertices > 0 {
				cfg.MaxVertices = maxVertices
			}
			return c.runServe(cmd.Context(), server.Config{
				Addr:           cfg.Addr,
				RequestTimeout: cfg.RequestTimeout,
				MaxVertices:    cfg.MaxVertices,
				Workers:        c.Config.Batch.Workers,
				Defaults: pipeline.Options{
					Method:  c.Config.Solver.Method,
					Ceiling: c.Config.Solver.Ceiling,
					NoBCT:   !c.Config.Solver.Decompose,
				},
			}, storeName, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&storeName, "store", "", "result store: jsonl, mongo, memory, none (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().IntVar(&maxVertices, "max-vertices", 0, "reject larger graphs (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, storeName string, noCache bool) error {
	logger := loggerFromContext(ctx)

	st, err := c.openStore(ctx, storeName)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close(context.Background())
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	metrics := server.NewMetrics()
	metrics.Install()

	srv := server.New(cfg, runner, st, metrics, logger)
	return srv.ListenAndServe(ctx)
}
