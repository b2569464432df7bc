// Package io reads and writes graphs and solution reports.
//
// # Graph Formats
//
// Three input formats are supported, chosen by file extension in [Import]:
//
//   - Graphviz DOT (.dot, .gv), parsed with go-graphviz. Node names become
//     vertex labels; edge direction is ignored, self loops are dropped and
//     parallel edges are collapsed.
//   - JSON (.json): {"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b"}]}.
//     The same shape is accepted by the HTTP API and written by [WriteJSON].
//   - graph6 (.g6), one graph per line; see [DecodeGraph6]. graph6 is also
//     the canonical key under which solutions are cached and stored.
//
// # Reports
//
// A [Report] is the serialized outcome of one solve: the graph in graph6,
// the method, the crossing number and the circular order both as indices and
// as labels. [WriteReport] emits it as JSON or YAML.
//
//	rep := io.NewReport(g, res, "dp", elapsed)
//	err := io.WriteReport(os.Stdout, rep, io.FormatYAML)
package io
