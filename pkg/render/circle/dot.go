package circle

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/okplanar/pkg/errors"
)

// Options configures DOT output.
type Options struct {
	// Threshold colours chords with more crossings red. Zero disables it.
	Threshold int

	// Counts appends the crossing count to each chord as an edge label.
	Counts bool
}

// ToDOT converts a drawing to an undirected DOT graph with every vertex
// pinned at its circle position.
func ToDOT(d Drawing, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14, width=0.45, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=1.2];\n")
	buf.WriteString("\n")

	for _, v := range d.Vertices {
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.3f,%.3f!\"];\n", strconv.Itoa(v.ID), v.Label, v.Pos.X, v.Pos.Y)
	}

	buf.WriteString("\n")
	for _, c := range d.Chords {
		attrs := chordAttrs(c, d.Max, opts)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", strconv.Itoa(c.Edge.U), strconv.Itoa(c.Edge.V))
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", strconv.Itoa(c.Edge.U), strconv.Itoa(c.Edge.V), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func chordAttrs(c Chord, maxCrossings int, opts Options) []string {
	var attrs []string
	switch {
	case opts.Threshold > 0 && c.Crossings > opts.Threshold:
		attrs = append(attrs, "color=red", "penwidth=2")
	case c.Crossings == maxCrossings:
		attrs = append(attrs, "color=blue", "penwidth=2")
	}
	if opts.Counts {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.Itoa(c.Crossings)))
	}
	return attrs
}

// RenderSVG lays out a DOT graph with neato and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "parse DOT: no graph")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.NEATO).Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a plain
// viewBox so the drawing scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
