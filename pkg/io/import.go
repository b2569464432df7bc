package io

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
)

// Input format names.
const (
	FormatDOT    = "dot"
	FormatJSON   = "json"
	FormatGraph6 = "graph6"
)

// FormatFromPath guesses the input format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return FormatDOT, nil
	case ".json":
		return FormatJSON, nil
	case ".g6", ".graph6":
		return FormatGraph6, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer graph format of %q (use .dot, .gv, .json or .g6)", path)
}

// Import reads the graph stored at path. For graph6 files only the first
// graph is returned; use [ReadGraph6Lines] for multi-graph files.
func Import(path string) (*graph.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return Parse(data, format)
}

// Parse decodes data in the given format.
func Parse(data []byte, format string) (*graph.Graph, error) {
	switch format {
	case FormatDOT:
		return ReadDOT(data)
	case FormatJSON:
		return ReadJSON(strings.NewReader(string(data)))
	case FormatGraph6:
		line, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
		return DecodeGraph6(line)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", format)
}

// =============================================================================
// DOT
// =============================================================================

// ReadDOT parses a Graphviz graph. Vertices are numbered in the order
// Graphviz reports them and labelled with their node names.
func ReadDOT(data []byte) (*graph.Graph, error) {
	gv, err := graphviz.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	if gv == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "parse DOT: no graph")
	}
	defer gv.Close()

	b := newBuilder()
	for n, err := gv.FirstNode(); n != nil || err != nil; n, err = gv.NextNode(n) {
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "walk DOT nodes")
		}
		name, err := n.Name()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "DOT node name")
		}
		b.vertex(name)
	}

	for n, err := gv.FirstNode(); n != nil || err != nil; n, err = gv.NextNode(n) {
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "walk DOT nodes")
		}
		for e, err := gv.FirstOut(n); e != nil || err != nil; e, err = gv.NextOut(e) {
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "walk DOT edges")
			}
			from, to, err := edgeEnds(e)
			if err != nil {
				return nil, err
			}
			b.edge(from, to)
		}
	}
	return b.build()
}

func edgeEnds(e *graphviz.Edge) (string, string, error) {
	tail, err := e.Tail()
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "DOT edge tail")
	}
	head, err := e.Head()
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "DOT edge head")
	}
	from, err := tail.Name()
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "DOT node name")
	}
	to, err := head.Name()
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "DOT node name")
	}
	return from, to, nil
}

// =============================================================================
// JSON
// =============================================================================

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID string `json:"id"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ReadJSON decodes a JSON graph from r. Edges may reference node ids that
// are not listed under "nodes"; such vertices are added in order of first
// appearance. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data jsonGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON graph")
	}
	b := newBuilder()
	for _, n := range data.Nodes {
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node without id")
		}
		if _, dup := b.index[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
		}
		b.vertex(n.ID)
	}
	for _, e := range data.Edges {
		b.edge(e.From, e.To)
	}
	return b.build()
}

// =============================================================================
// graph6 files
// =============================================================================

// ReadGraph6Lines decodes one graph per non-empty line of r. Lines starting
// with '#' are skipped.
func ReadGraph6Lines(r io.Reader) ([]*graph.Graph, error) {
	var out []*graph.Graph
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		g, err := DecodeGraph6(text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		out = append(out, g)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read graph6 lines")
	}
	return out, nil
}

// builder assembles a graph from named vertices.
type builder struct {
	names []string
	index map[string]int
	pairs [][2]int
}

func newBuilder() *builder {
	return &builder{index: make(map[string]int)}
}

func (b *builder) vertex(name string) int {
	if i, ok := b.index[name]; ok {
		return i
	}
	b.index[name] = len(b.names)
	b.names = append(b.names, name)
	return len(b.names) - 1
}

func (b *builder) edge(from, to string) {
	b.pairs = append(b.pairs, [2]int{b.vertex(from), b.vertex(to)})
}

// build drops self loops and repeated edges; the solvers work on simple
// graphs.
func (b *builder) build() (*graph.Graph, error) {
	if len(b.names) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph has no vertices")
	}
	g := graph.New(len(b.names))
	for i, name := range b.names {
		g.SetLabel(i, name)
	}
	for _, p := range b.pairs {
		if p[0] == p[1] || g.HasEdge(p[0], p[1]) {
			continue
		}
		if _, err := g.AddEdge(p[0], p[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}
