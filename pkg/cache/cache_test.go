package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never hit")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}

	none, err := Open(ctx, Options{Backend: BackendNone}, nil)
	if err != nil {
		t.Fatalf("Open(none): %v", err)
	}
	if err := none.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ := none.Get(ctx, "key"); hit {
		t.Error("the none backend should never hit")
	}
}

// exercise runs the behaviour shared by every storing backend.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte(`{"order":[0,1,2]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get(k) = hit %v, err %v", hit, err)
	}
	if string(data) != `{"order":[0,1,2]}` {
		t.Errorf("Get(k) = %s", data)
	}

	if err := c.Set(ctx, "k", []byte("v2"), 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k"); string(data) != "v2" {
		t.Errorf("after overwrite Get(k) = %s", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	exercise(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry was returned")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestNewFileCacheEmptyDir(t *testing.T) {
	if _, err := NewFileCache(""); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestBadgerCacheInMemory(t *testing.T) {
	c, err := NewBadgerCache("", nil)
	if err != nil {
		t.Fatalf("NewBadgerCache: %v", err)
	}
	defer c.Close()
	exercise(t, c)
}

func TestBadgerCacheOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewBadgerCache(dir, nil)
	if err != nil {
		t.Fatalf("NewBadgerCache: %v", err)
	}
	if err := c.Set(ctx, "persisted", []byte("yes"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c, err = NewBadgerCache(dir, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	data, hit, err := c.Get(ctx, "persisted")
	if err != nil || !hit || string(data) != "yes" {
		t.Errorf("after reopen Get = %q, %v, %v", data, hit, err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		opts Options
		want string
	}{
		{Options{Dir: t.TempDir()}, "*cache.FileCache"},
		{Options{Backend: BackendBadger}, "*cache.BadgerCache"},
		{Options{Backend: BackendNone}, "*cache.NullCache"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c, err := Open(ctx, tt.opts, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open returned %s", got)
			}
		})
	}

	if _, err := Open(ctx, Options{Backend: "memcached"}, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := Open(ctx, Options{Backend: BackendRedis, RedisURL: "not a url"}, nil); err == nil {
		t.Error("expected error for bad redis URL")
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *FileCache:
		return "*cache.FileCache"
	case *BadgerCache:
		return "*cache.BadgerCache"
	case *NullCache:
		return "*cache.NullCache"
	}
	return "unknown"
}

func TestEntryTTL(t *testing.T) {
	if got := (Options{}).EntryTTL(); got != DefaultTTL {
		t.Errorf("EntryTTL() = %v", got)
	}
	if got := (Options{TTL: time.Minute}).EntryTTL(); got != time.Minute {
		t.Errorf("EntryTTL() = %v", got)
	}
}

func TestRedisKeyPrefix(t *testing.T) {
	c := NewRedisCacheFromClient(nil, "test:")
	if got := c.key("result:abc"); got != "test:result:abc" {
		t.Errorf("key = %q", got)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	plain := errors.New("WRONGTYPE")
	if err := classify(plain); err != plain || IsRetryable(err) {
		t.Errorf("command errors are not retryable: %v", err)
	}
	err := classify(context.DeadlineExceeded)
	if !IsRetryable(err) || !errors.Is(err, ErrUnavailable) {
		t.Errorf("timeouts should be retryable and unavailable: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	r1 := k.ResultKey("C~", ResultKeyOpts{Method: "dp", Ceiling: 7, Decompose: true})
	r2 := k.ResultKey("C~", ResultKeyOpts{Method: "sat", Ceiling: 7, Decompose: true})
	r3 := k.ResultKey("Bw", ResultKeyOpts{Method: "dp", Ceiling: 7, Decompose: true})
	if r1 == r2 || r1 == r3 {
		t.Error("method and graph must be part of the result key")
	}
	if !strings.HasPrefix(r1, "result:") || len(r1) != len("result:")+64 {
		t.Errorf("ResultKey = %q", r1)
	}

	d1 := k.DrawingKey(r1, DrawingKeyOpts{Format: "svg"})
	d2 := k.DrawingKey(r1, DrawingKeyOpts{Format: "dot"})
	if d1 == d2 || !strings.HasPrefix(d1, "drawing:") {
		t.Errorf("DrawingKey = %q, %q", d1, d2)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:1:")
	key := scoped.ResultKey("Bw", ResultKeyOpts{Method: "dp"})
	if !strings.HasPrefix(key, "tenant:1:result:") {
		t.Errorf("ResultKey = %q", key)
	}
	if key != "tenant:1:"+NewDefaultKeyer().ResultKey("Bw", ResultKeyOpts{Method: "dp"}) {
		t.Error("scoped key should wrap the inner key")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("message not preserved: %s", err)
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("unwrapped error is not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := RetryDelay
	RetryDelay = time.Millisecond
	defer func() { RetryDelay = old }()
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	fatal := errors.New("fatal")
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return fatal
	})
	if err != fatal || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
