// Package pipeline runs the load → solve → render sequence shared by the
// command line and the HTTP server.
//
// # Stages
//
//  1. Load: read a graph from a DOT, JSON or graph6 file, or an inline
//     graph6 string
//  2. Solve: look the result up in the cache, otherwise build the solver
//     named by Options.Method (wrapped in the block-cut driver unless
//     NoBCT is set), run it, verify the order and cache it
//  3. Render: produce the requested artifacts (report JSON or YAML,
//     circular DOT, SVG)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	g, name, err := pipeline.Load(path, "")
//	result, err := runner.Execute(ctx, g, pipeline.Options{Name: name, Formats: []string{"svg"}})
//	svg := result.Artifacts["svg"]
//
// [Runner.Batch] solves many graphs concurrently and persists each outcome
// to a [store.Store].
//
// [store.Store]: github.com/matzehuels/okplanar/pkg/store
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/okplanar/pkg/cache"
	"github.com/matzehuels/okplanar/pkg/errors"
	gio "github.com/matzehuels/okplanar/pkg/io"
	"github.com/matzehuels/okplanar/pkg/solver"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultMethod is the solver used when Options.Method is empty.
const DefaultMethod = solver.MethodDP

// Output formats.
const (
	FormatJSON = gio.FormatJSON
	FormatYAML = gio.FormatYAML
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It doubles as the body of API solve
// requests.
type Options struct {
	// Solve options
	Method  string `json:"method,omitempty"`
	Ceiling int    `json:"ceiling,omitempty"`
	NoBCT   bool   `json:"no_bct,omitempty"` // solve the whole graph without block-cut decomposition
	Refresh bool   `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Threshold int      `json:"threshold,omitempty"` // chords above this count are drawn red
	Counts    bool     `json:"counts,omitempty"`    // label chords with their crossing count

	// Name labels the graph in reports.
	Name string `json:"name,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Solve     solver.Result
	Report    *gio.Report
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Vertices   int
	Edges      int
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	SolveHit  bool
	RenderHit bool
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, yaml, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatFromPath infers the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "yml":
		ext = FormatYAML
	case "gv":
		ext = FormatDOT
	}
	if err := ValidateFormat(ext); err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer output format of %q (use .json, .yaml, .dot or .svg)", path)
	}
	return ext, nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Method == "" {
		o.Method = DefaultMethod
	}
	if err := errors.ValidateMethod(o.Method, solver.Methods()); err != nil {
		return err
	}
	if o.Ceiling == 0 {
		o.Ceiling = solver.DefaultCeiling
	}
	if err := errors.ValidateCeiling(o.Ceiling); err != nil {
		return err
	}
	if o.Threshold < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "threshold must be non-negative, got %d", o.Threshold)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Decompose reports whether the block-cut driver is used.
func (o *Options) Decompose() bool {
	return !o.NoBCT
}

// ResultKeyOpts returns the cache key options for the solve stage.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Method:    o.Method,
		Ceiling:   o.Ceiling,
		Decompose: o.Decompose(),
	}
}

// DrawingKeyOpts returns the cache key options for a rendered format.
func (o *Options) DrawingKeyOpts(format string) cache.DrawingKeyOpts {
	return cache.DrawingKeyOpts{Format: format, Threshold: o.Threshold, Counts: o.Counts}
}

func (o *Options) String() string {
	return fmt.Sprintf("method=%s ceiling=%d bct=%v", o.Method, o.Ceiling, o.Decompose())
}
