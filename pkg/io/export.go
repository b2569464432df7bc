package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
)

// WriteJSON encodes g in the format read by [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := jsonGraph{
		Nodes: make([]jsonNode, g.N()),
		Edges: make([]jsonEdge, g.M()),
	}
	for v := range out.Nodes {
		out.Nodes[v] = jsonNode{ID: g.Label(v)}
	}
	for i, e := range g.Edges() {
		out.Edges[i] = jsonEdge{From: g.Label(e.U), To: g.Label(e.V)}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode JSON graph")
	}
	return nil
}

// ExportJSON writes g to path as JSON.
func ExportJSON(g *graph.Graph, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(g, w) })
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "close %s", path)
	}
	return nil
}
