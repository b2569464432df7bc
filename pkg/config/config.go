// Package config loads the okplanar TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/okplanar/config.toml (falling back to
// ~/.config). A missing file yields [Default]. Every section is optional
// and unset keys keep their defaults:
//
//	[solver]
//	method = "dp"
//	ceiling = 7
//	decompose = true
//	timeout = "10m"
//
//	[cache]
//	backend = "file"      # file, badger, redis or none
//	ttl = "720h"
//
//	[store]
//	backend = "jsonl"     # jsonl, mongo, memory or none
//
//	[server]
//	addr = ":8080"
//
//	[batch]
//	workers = 4
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/okplanar/pkg/cache"
	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/solver"
	"github.com/matzehuels/okplanar/pkg/store"
)

// AppName names the configuration, cache and data directories.
const AppName = "okplanar"

// Config is the full configuration.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Batch  BatchConfig  `toml:"batch"`
}

type SolverConfig struct {
	Method    string        `toml:"method"`
	Ceiling   int           `toml:"ceiling"`
	Decompose bool          `toml:"decompose"`
	Timeout   time.Duration `toml:"timeout"` // zero means no limit
}

type CacheConfig struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

type StoreConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ServerConfig struct {
	Addr           string        `toml:"addr"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxVertices    int           `toml:"max_vertices"`
}

type BatchConfig struct {
	Workers int `toml:"workers"` // zero means one per CPU
}

// Default returns the built-in configuration. Directory lookups that fail
// leave the corresponding path empty; Validate reports it if the backend
// needs it.
func Default() *Config {
	cacheDir, _ := CacheDir()
	dataDir, _ := DataDir()
	storePath := ""
	if dataDir != "" {
		storePath = filepath.Join(dataDir, "results.jsonl")
	}
	return &Config{
		Solver: SolverConfig{
			Method:    solver.MethodDP,
			Ceiling:   solver.DefaultCeiling,
			Decompose: true,
		},
		Cache: CacheConfig{
			Backend:  cache.BackendFile,
			Dir:      cacheDir,
			RedisURL: "redis://localhost:6379/0",
			TTL:      cache.DefaultTTL,
		},
		Store: StoreConfig{
			Backend:    store.BackendJSONL,
			Path:       storePath,
			MongoURI:   "mongodb://localhost:27017",
			Database:   store.DefaultDatabase,
			Collection: store.DefaultCollection,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 2 * time.Minute,
			MaxVertices:    40,
		},
	}
}

// Load reads path on top of [Default]. An empty path means [Path]; a
// missing file is not an error. Unknown keys are rejected so typos do not
// pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend names.
func (c *Config) Validate() error {
	if err := errors.ValidateMethod(c.Solver.Method, solver.Methods()); err != nil {
		return err
	}
	if err := errors.ValidateCeiling(c.Solver.Ceiling); err != nil {
		return err
	}
	if !slices.Contains(cache.Backends(), c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join(cache.Backends(), ", "))
	}
	if c.Cache.Backend == cache.BackendFile && c.Cache.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.dir is required for the file backend")
	}
	storeBackends := []string{store.BackendJSONL, store.BackendMongo, store.BackendMemory, store.BackendNone}
	if !slices.Contains(storeBackends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (must be one of: %s)",
			c.Store.Backend, strings.Join(storeBackends, ", "))
	}
	if c.Store.Backend == store.BackendJSONL && c.Store.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store.path is required for the jsonl backend")
	}
	if c.Server.MaxVertices < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.max_vertices must not be negative")
	}
	if c.Batch.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "batch.workers must not be negative")
	}
	return nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// CacheOptions converts the [cache] section.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
		TTL:      c.Cache.TTL,
	}
}

// StoreOptions converts the [store] section.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.Store.Backend,
		Path:       c.Store.Path,
		MongoURI:   c.Store.MongoURI,
		Database:   c.Store.Database,
		Collection: c.Store.Collection,
	}
}
