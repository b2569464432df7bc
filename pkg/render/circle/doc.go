// Package circle draws a graph in a circular vertex order.
//
// [Layout] places vertex order[j] at angle 2πj/n on a circle of radius
// [Radius] and annotates every chord with its crossing count. [ToDOT] turns
// a layout into Graphviz DOT with pinned positions, and [RenderSVG] lays that
// out with the neato engine, which honours the pins:
//
//	l, err := circle.Layout(g, res.Order)
//	dot := circle.ToDOT(l, circle.Options{Threshold: 2})
//	svg, err := circle.RenderSVG(ctx, dot)
//
// Chords at the drawing's maximum crossing count are blue; chords with more
// than Options.Threshold crossings are red.
package circle
