package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey identifies a solve of the graph with the given graph6
	// encoding.
	ResultKey(graph6 string, opts ResultKeyOpts) string

	// DrawingKey identifies a rendered drawing of a cached result.
	DrawingKey(resultKey string, opts DrawingKeyOpts) string
}

// ResultKeyOpts are the solve options that change the result.
type ResultKeyOpts struct {
	Method    string `json:"method"`
	Ceiling   int    `json:"ceiling"`
	Decompose bool   `json:"decompose"`
}

// DrawingKeyOpts are the rendering options that change the output.
type DrawingKeyOpts struct {
	Format    string `json:"format"`
	Threshold int    `json:"threshold,omitempty"`
	Counts    bool   `json:"counts,omitempty"`
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256>".
func (DefaultKeyer) ResultKey(graph6 string, opts ResultKeyOpts) string {
	return hashKey("result", graph6, opts)
}

// DrawingKey returns "drawing:<sha256>".
func (DefaultKeyer) DrawingKey(resultKey string, opts DrawingKeyOpts) string {
	return hashKey("drawing", resultKey, opts)
}

// ScopedKeyer prefixes every key, so that several tools can share one
// Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (the default keyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ResultKey(graph6 string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(graph6, opts)
}

func (k *ScopedKeyer) DrawingKey(resultKey string, opts DrawingKeyOpts) string {
	return k.prefix + k.inner.DrawingKey(resultKey, opts)
}

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
