package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/okplanar/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
	if cfg.Solver.Method != "dp" || cfg.Solver.Ceiling != 7 || !cfg.Solver.Decompose {
		t.Errorf("solver defaults = %+v", cfg.Solver)
	}
	if cfg.Cache.Dir != filepath.Join("/tmp/xdg-cache", AppName) {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
	if cfg.Store.Path != filepath.Join("/tmp/xdg-data", AppName, "results.jsonl") {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.Method != "dp" {
		t.Errorf("missing file should give defaults, got %+v", cfg.Solver)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[solver]
method = "sat"
ceiling = 4
decompose = false
timeout = "90s"

[cache]
backend = "badger"
ttl = "1h"

[server]
addr = "127.0.0.1:9000"
max_vertices = 25

[batch]
workers = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.Method != "sat" || cfg.Solver.Ceiling != 4 || cfg.Solver.Decompose {
		t.Errorf("solver = %+v", cfg.Solver)
	}
	if cfg.Solver.Timeout != 90*time.Second || cfg.Cache.TTL != time.Hour {
		t.Errorf("durations = %v, %v", cfg.Solver.Timeout, cfg.Cache.TTL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.MaxVertices != 25 || cfg.Batch.Workers != 3 {
		t.Errorf("server/batch = %+v %+v", cfg.Server, cfg.Batch)
	}
	if cfg.Store.Backend != "jsonl" {
		t.Errorf("untouched section changed: %+v", cfg.Store)
	}
	if got := cfg.CacheOptions(); got.Backend != "badger" || got.TTL != time.Hour {
		t.Errorf("CacheOptions = %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[solver\nmethod = 1", errors.ErrCodeInvalidFormat},
		{"unknown key", "[solver]\nmethd = \"dp\"\n", errors.ErrCodeInvalidInput},
		{"bad method", "[solver]\nmethod = \"ilp\"\n", errors.ErrCodeInvalidFormat},
		{"ceiling", "[solver]\nceiling = 99\n", errors.ErrCodeInvalidInput},
		{"cache backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"store backend", "[store]\nbackend = \"sqlite\"\n", errors.ErrCodeInvalidInput},
		{"workers", "[batch]\nworkers = -2\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	cfg := Default()
	cfg.Solver.Method = "exhaustive"

	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "[solver]") || !strings.Contains(buf.String(), `method = "exhaustive"`) {
		t.Errorf("output:\n%s", buf.String())
	}

	var back Config
	if _, err := toml.Decode(buf.String(), &back); err != nil {
		t.Fatalf("decode written config: %v", err)
	}
	if back.Solver.Method != "exhaustive" || back.Cache.TTL != cfg.Cache.TTL {
		t.Errorf("decoded %+v", back.Solver)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	p, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if p != filepath.Join("/tmp/custom-config", AppName, "config.toml") {
		t.Errorf("Path() = %q", p)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir: %v", err)
	}
	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", AppName) {
		t.Errorf("CacheDir() = %q", dir)
	}
}
