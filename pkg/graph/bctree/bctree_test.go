package bctree

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
)

func bowtie() *graph.Graph {
	return graph.MustFromEdges(5, [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}, {4, 2}})
}

func path(n int) *graph.Graph {
	g := graph.New(n)
	for i := 0; i+1 < n; i++ {
		_, _ = g.AddEdge(i, i+1)
	}
	return g
}

func TestBuildBowtie(t *testing.T) {
	tree, err := Build(context.Background(), bowtie())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.NumBlocks() != 2 {
		t.Fatalf("NumBlocks = %d, want 2", tree.NumBlocks())
	}
	if got := tree.Cuts(); !slices.Equal(got, []int{2}) {
		t.Errorf("Cuts = %v, want [2]", got)
	}

	var vertexSets [][]int
	for b := 0; b < tree.NumBlocks(); b++ {
		node := tree.Nodes[b]
		if node.Kind != KindBlock {
			t.Fatalf("node %d kind = %v", b, node.Kind)
		}
		if node.Graph.N() != 3 || node.Graph.M() != 3 {
			t.Errorf("block %d has %d vertices, %d edges", b, node.Graph.N(), node.Graph.M())
		}
		vertexSets = append(vertexSets, slices.Sorted(slices.Values(node.Vertices)))
	}
	slices.SortFunc(vertexSets, slices.Compare)
	if !slices.Equal(vertexSets[0], []int{0, 1, 2}) || !slices.Equal(vertexSets[1], []int{2, 3, 4}) {
		t.Errorf("block vertex sets = %v", vertexSets)
	}

	c, ok := tree.CutNode(2)
	if !ok {
		t.Fatal("vertex 2 has no cut node")
	}
	if !slices.Equal(tree.Adj[c], []int{0, 1}) {
		t.Errorf("Adj[cut] = %v, want [0 1]", tree.Adj[c])
	}
	for b := 0; b < 2; b++ {
		if !slices.Equal(tree.Adj[b], []int{c}) {
			t.Errorf("Adj[%d] = %v, want [%d]", b, tree.Adj[b], c)
		}
	}

	// Every edge belongs to the block whose edge list contains it.
	for id, b := range tree.BlockOf {
		if !slices.Contains(tree.Nodes[b].Edges, id) {
			t.Errorf("edge %d assigned to block %d", id, b)
		}
	}
}

func TestBuildShapes(t *testing.T) {
	tests := []struct {
		name   string
		g      *graph.Graph
		blocks int
		cuts   []int
	}{
		{"single vertex", graph.New(1), 1, []int{}},
		{"single edge", path(2), 1, []int{}},
		{"path", path(4), 3, []int{1, 2}},
		{"triangle", graph.MustFromEdges(3, [][2]int{{0, 1}, {1, 2}, {2, 0}}), 1, []int{}},
		{"k4 with pendant", graph.MustFromEdges(5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}, {3, 4}}), 2, []int{3}},
		{"star", graph.MustFromEdges(4, [][2]int{{0, 1}, {0, 2}, {0, 3}}), 3, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Build(context.Background(), tt.g)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if tree.NumBlocks() != tt.blocks {
				t.Errorf("NumBlocks = %d, want %d", tree.NumBlocks(), tt.blocks)
			}
			if got := tree.Cuts(); !slices.Equal(got, tt.cuts) {
				t.Errorf("Cuts = %v, want %v", got, tt.cuts)
			}
			// Every block vertex maps into the original graph, and the block
			// edges map onto original edges.
			for b := 0; b < tree.NumBlocks(); b++ {
				node := tree.Nodes[b]
				for _, e := range node.Graph.Edges() {
					if !tt.g.HasEdge(node.Vertices[e.U], node.Vertices[e.V]) {
						t.Errorf("block %d edge %+v is not an original edge", b, e)
					}
				}
			}
		})
	}
}

func TestBuildRejectsDisconnected(t *testing.T) {
	for _, g := range []*graph.Graph{graph.New(0), graph.MustFromEdges(4, [][2]int{{0, 1}, {2, 3}})} {
		_, err := Build(context.Background(), g)
		if !errors.Is(err, errors.ErrCodeNotConnected) {
			t.Errorf("Build error = %v, want NOT_CONNECTED", err)
		}
	}
}

func TestBuildDeepPath(t *testing.T) {
	const n = 20000
	tree, err := Build(context.Background(), path(n))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.NumBlocks() != n-1 {
		t.Errorf("NumBlocks = %d, want %d", tree.NumBlocks(), n-1)
	}
	if len(tree.Cuts()) != n-2 {
		t.Errorf("len(Cuts) = %d, want %d", len(tree.Cuts()), n-2)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, path(5000)); err != context.Canceled {
		t.Errorf("Build error = %v, want context.Canceled", err)
	}
}

func TestIsBiconnected(t *testing.T) {
	tests := []struct {
		name string
		g    *graph.Graph
		want bool
	}{
		{"single vertex", graph.New(1), false},
		{"single edge", path(2), true},
		{"path", path(3), false},
		{"cycle", graph.MustFromEdges(4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}), true},
		{"bowtie", bowtie(), false},
		{"disconnected", graph.MustFromEdges(4, [][2]int{{0, 1}, {2, 3}}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBiconnected(tt.g); got != tt.want {
				t.Errorf("IsBiconnected = %v, want %v", got, tt.want)
			}
		})
	}
}
