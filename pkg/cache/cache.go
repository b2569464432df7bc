// Package cache stores solver results between runs.
//
// A [Cache] is a byte-oriented key/value store with per-entry TTL. Four
// backends are provided:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [BadgerCache]: an embedded BadgerDB, on disk or in memory
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing
//
// Keys come from a [Keyer]. Results are keyed by the graph6 encoding of
// the input plus every option that can change the answer, so a cached
// order is only reused for the same graph solved the same way.
//
//	c, err := cache.Open(ctx, cache.Options{Backend: cache.BackendFile, Dir: dir}, logger)
//	key := cache.NewDefaultKeyer().ResultKey(g6, cache.ResultKeyOpts{Method: "dp", Ceiling: 7})
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Cache is the interface every backend implements. Get reports a miss as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// DefaultTTL is used when Options.TTL is zero. Results never go stale, so
// the TTL only bounds disk usage.
const DefaultTTL = 30 * 24 * time.Hour

// Backends lists the names accepted by [Open].
func Backends() []string {
	return []string{BackendFile, BackendBadger, BackendRedis, BackendNone}
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Dir      string // file and badger backends; empty badger dir means in-memory
	RedisURL string
	TTL      time.Duration
}

// Open creates the backend named by opts.Backend. An empty name selects the
// file backend.
func Open(ctx context.Context, opts Options, logger *log.Logger) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case "", BackendFile:
		c, err = NewFileCache(opts.Dir)
	case BackendBadger:
		c, err = NewBadgerCache(opts.Dir, logger)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.RedisURL)
	case BackendNone:
		c = NewNullCache()
	default:
		err = fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NullCache is the "none" backend: every Get misses and writes are dropped.
// It backs --no-cache and the pipeline when no cache is configured.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)

// EntryTTL returns o.TTL or [DefaultTTL].
func (o Options) EntryTTL() time.Duration {
	if o.TTL > 0 {
		return o.TTL
	}
	return DefaultTTL
}
