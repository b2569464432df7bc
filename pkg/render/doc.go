// Package render holds the drawing back ends for circular vertex orders.
//
// The [circle] subpackage computes circle coordinates for a solved order,
// emits Graphviz DOT with pinned positions and renders SVG through the
// neato engine:
//
//	d, err := circle.Layout(g, res.Order)
//	svg, err := circle.RenderSVG(ctx, circle.ToDOT(d, circle.Options{}))
//
// [circle]: github.com/matzehuels/okplanar/pkg/render/circle
package render
