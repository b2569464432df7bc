package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/okplanar/pkg/cache"
	"github.com/matzehuels/okplanar/pkg/graph"
	gio "github.com/matzehuels/okplanar/pkg/io"
	"github.com/matzehuels/okplanar/pkg/observability"
	"github.com/matzehuels/okplanar/pkg/solver"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeResult  = "result"
	keyTypeDrawing = "drawing"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means the default keyer, a nil
// cache disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		TTL:    cache.DefaultTTL,
		Logger: logger,
	}
}

// Execute solves g and renders opts.Formats.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Stats: Stats{Vertices: g.N(), Edges: g.M()},
	}

	solveStart := time.Now()
	res, hit, err := r.SolveWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Solve = res
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = hit

	r.Logger.Info("solved",
		"crossing_number", res.CrossingNumber,
		"vertices", g.N(),
		"edges", g.M(),
		"cached", hit,
		"duration", result.Stats.SolveTime)

	rep, err := gio.NewReport(g, res, opts.Method, result.Stats.SolveTime)
	if err != nil {
		return nil, err
	}
	rep.Name = opts.Name
	rep.Cached = hit
	result.Report = rep

	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, rep, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = renderHit

		r.Logger.Debug("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}
	return result, nil
}

// SolveWithCacheInfo returns the optimal order for g and whether it came
// from the cache. Cached results are re-verified against g before use.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (solver.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return solver.Result{}, false, err
	}
	hooks := observability.Cache()

	g6, err := gio.EncodeGraph6(g)
	if err != nil {
		return solver.Result{}, false, err
	}
	key := r.Keyer.ResultKey(g6, opts.ResultKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cachedResult(ctx, g, key); ok {
			hooks.OnCacheHit(ctx, keyTypeResult)
			return res, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeResult)
	}

	s, err := NewSolver(opts.Method, opts.Ceiling, opts.Decompose(), opts.Logger)
	if err != nil {
		return solver.Result{}, false, err
	}
	r.Logger.Debug("solving", "graph6", g6, "options", opts.String())
	res, err := s.Solve(ctx, g, 0)
	if err != nil {
		return solver.Result{}, false, err
	}
	if err := solver.Verify(g, res); err != nil {
		return solver.Result{}, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, key, keyTypeResult, data)
	}
	return res, false, nil
}

// Solve is SolveWithCacheInfo without the cache flag.
func (r *Runner) Solve(ctx context.Context, g *graph.Graph, opts Options) (solver.Result, error) {
	res, _, err := r.SolveWithCacheInfo(ctx, g, opts)
	return res, err
}

func (r *Runner) cachedResult(ctx context.Context, g *graph.Graph, key string) (solver.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "key", key, "err", err)
		return solver.Result{}, false
	}
	if !hit {
		return solver.Result{}, false
	}
	var res solver.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return solver.Result{}, false
	}
	if err := solver.Verify(g, res); err != nil {
		r.Logger.Warn("discarding stale cache entry", "key", key, "err", err)
		return solver.Result{}, false
	}
	return res, true
}

// store writes a cache entry, retrying transient backend failures. Cache
// write failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, r.TTL)
	})
	if err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
