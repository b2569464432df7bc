package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/okplanar/pkg/cache"
	"github.com/matzehuels/okplanar/pkg/config"
	"github.com/matzehuels/okplanar/pkg/pipeline"
	"github.com/matzehuels/okplanar/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for the binary and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// A cache that cannot be opened degrades to no caching with a warning.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	var cc cache.Cache = cache.NewNullCache()
	if !noCache {
		opened, err := cache.Open(ctx, c.Config.CacheOptions(), c.Logger)
		if err != nil {
			c.Logger.Warn("cache disabled", "backend", c.Config.Cache.Backend, "err", err)
		} else {
			cc = opened
		}
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	if ttl := c.Config.Cache.TTL; ttl > 0 {
		r.TTL = ttl
	}
	return r
}

// openStore opens the configured result store; backend overrides the
// configured backend when non-empty. It may return a nil Store.
func (c *CLI) openStore(ctx context.Context, backend string) (store.Store, error) {
	opts := c.Config.StoreOptions()
	if backend != "" {
		opts.Backend = backend
	}
	s, err := store.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}
	return s, nil
}

// solveFlags are the solver flags shared by solve, blocks and batch.
type solveFlags struct {
	method  string
	ceiling int
	noBCT   bool
	noCache bool
	refresh bool
}

func (f *solveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.method, "method", "m", "", "solver: dp (default), sat, exhaustive")
	cmd.Flags().IntVarP(&f.ceiling, "ceiling", "k", 0, "largest crossing bound to try (default from config, max 15)")
	cmd.Flags().BoolVar(&f.noBCT, "no-bct", false, "solve the whole graph without block-cut decomposition")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and solve again")
}

// options merges the flags over the [solver] config section. Flags left at
// their zero value keep the configured value.
func (f *solveFlags) options(cfg *config.Config) pipeline.Options {
	opts := pipeline.Options{
		Method:  cfg.Solver.Method,
		Ceiling: cfg.Solver.Ceiling,
		NoBCT:   !cfg.Solver.Decompose,
		Refresh: f.refresh,
	}
	if f.method != "" {
		opts.Method = f.method
	}
	if f.ceiling != 0 {
		opts.Ceiling = f.ceiling
	}
	if f.noBCT {
		opts.NoBCT = true
	}
	return opts
}
