package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	gio "github.com/matzehuels/okplanar/pkg/io"
	"github.com/matzehuels/okplanar/pkg/observability"
	"github.com/matzehuels/okplanar/pkg/render/circle"
)

// Render produces one artifact per entry of opts.Formats.
func Render(ctx context.Context, g *graph.Graph, rep *gio.Report, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON, FormatYAML:
			var buf bytes.Buffer
			if err := gio.WriteReport(&buf, rep, format); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()
		case FormatDOT, FormatSVG:
			if dot == "" {
				d, err := circle.Layout(g, rep.Order)
				if err != nil {
					return nil, err
				}
				dot = circle.ToDOT(d, circle.Options{Threshold: opts.Threshold, Counts: opts.Counts})
			}
			if format == FormatDOT {
				artifacts[format] = []byte(dot)
				continue
			}
			svg, err := circle.RenderSVG(ctx, dot)
			if err != nil {
				return nil, err
			}
			artifacts[format] = svg
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
	}
	return artifacts, nil
}

// RenderWithCacheInfo renders with the SVG artifact cached per result. The
// other formats are cheap and always rebuilt; the report carries a fresh
// timestamp.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, rep *gio.Report, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	resultKey := r.Keyer.ResultKey(rep.Graph6, opts.ResultKeyOpts())
	svgKey := r.Keyer.DrawingKey(resultKey, opts.DrawingKeyOpts(FormatSVG))

	wantSVG := false
	rest := make([]string, 0, len(opts.Formats))
	for _, f := range opts.Formats {
		if f == FormatSVG {
			wantSVG = true
			continue
		}
		rest = append(rest, f)
	}

	var cachedSVG []byte
	if wantSVG && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, svgKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeDrawing)
			cachedSVG = data
		} else {
			observability.Cache().OnCacheMiss(ctx, keyTypeDrawing)
		}
	}

	formats := rest
	if wantSVG && cachedSVG == nil {
		formats = opts.Formats
	}
	sub := opts
	sub.Formats = formats
	artifacts, err := Render(ctx, g, rep, sub)
	if err != nil {
		return nil, false, err
	}

	if cachedSVG != nil {
		artifacts[FormatSVG] = cachedSVG
		return artifacts, true, nil
	}
	if wantSVG {
		r.store(ctx, svgKey, keyTypeDrawing, artifacts[FormatSVG])
	}
	return artifacts, false, nil
}
