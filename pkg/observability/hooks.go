// Package observability provides hooks for metrics, tracing, and logging.
//
// Solvers, caches and the HTTP server report events through small hook
// interfaces instead of importing a metrics library. The defaults do nothing;
// a binary registers real implementations once at startup (the server wires
// Prometheus counters through them).
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolverHooks(&promSolverHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solver().OnSolveStart(ctx, "dp", g.N(), g.M())
//	// ... search ...
//	observability.Solver().OnSolveComplete(ctx, "dp", k, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from crossing-number solvers.
type SolverHooks interface {
	// OnSolveStart fires once per top-level Solve call, before any search.
	// Blocks solved under the block-cut driver do not fire it.
	OnSolveStart(ctx context.Context, method string, vertices, edges int)

	// OnBoundRaised fires each time a solver starts a search at trial bound k.
	OnBoundRaised(ctx context.Context, method string, k int)

	// OnComponentSolved fires when the block-cut driver finishes one block.
	OnComponentSolved(ctx context.Context, vertices, crossingNumber int)

	// OnSolveComplete fires when a top-level Solve returns. err is nil on
	// success.
	OnSolveComplete(ctx context.Context, method string, crossingNumber int, duration time.Duration, err error)
}

type componentKey struct{}

// AsComponent marks ctx as belonging to a solve nested inside another
// solver. Solvers called with such a context report through
// OnComponentSolved only, so one graph counts as one solve.
func AsComponent(ctx context.Context) context.Context {
	return context.WithValue(ctx, componentKey{}, true)
}

// IsComponent reports whether ctx was marked by AsComponent.
func IsComponent(ctx context.Context) bool {
	v, _ := ctx.Value(componentKey{}).(bool)
	return v
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records a completed request on a route pattern.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(context.Context, string, int, int)                     {}
func (NoopSolverHooks) OnBoundRaised(context.Context, string, int)                         {}
func (NoopSolverHooks) OnComponentSolved(context.Context, int, int)                        {}
func (NoopSolverHooks) OnSolveComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks. Nil is ignored.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
