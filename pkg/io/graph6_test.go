package io

import (
	"strings"
	"testing"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
)

func TestEncodeGraph6(t *testing.T) {
	k4 := graph.MustFromEdges(4, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})
	tests := []struct {
		name string
		g    *graph.Graph
		want string
	}{
		{"empty", graph.New(0), "?"},
		{"single vertex", graph.New(1), "@"},
		{"triangle", graph.MustFromEdges(3, [][2]int{{0, 1}, {1, 2}, {0, 2}}), "Bw"},
		{"k4", k4, "C~"},
		{"path", graph.MustFromEdges(3, [][2]int{{0, 1}, {1, 2}}), "Bg"},
		{"edgeless 63", graph.New(63), "~??~" + strings.Repeat("?", (63*62/2+5)/6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeGraph6(tt.g)
			if err != nil {
				t.Fatalf("EncodeGraph6: %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodeGraph6 = %q, want %q", got, tt.want)
			}
			back, err := DecodeGraph6(got)
			if err != nil {
				t.Fatalf("DecodeGraph6(%q): %v", got, err)
			}
			if back.N() != tt.g.N() || back.M() != tt.g.M() {
				t.Errorf("decoded %d vertices, %d edges; want %d, %d", back.N(), back.M(), tt.g.N(), tt.g.M())
			}
			for _, e := range tt.g.Edges() {
				if !back.HasEdge(e.U, e.V) {
					t.Errorf("decoded graph lacks edge %v", e)
				}
			}
		})
	}
}

func TestDecodeGraph6(t *testing.T) {
	g, err := DecodeGraph6(">>graph6<<Bw\n")
	if err != nil {
		t.Fatalf("DecodeGraph6 with header: %v", err)
	}
	if g.N() != 3 || g.M() != 3 {
		t.Errorf("got %d vertices, %d edges", g.N(), g.M())
	}

	for _, bad := range []string{"", "B", "Bww", "B w"} {
		if _, err := DecodeGraph6(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("DecodeGraph6(%q) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestReadGraph6Lines(t *testing.T) {
	input := "# triangles and friends\nBw\n\nC~\n  Bg  \n"
	gs, err := ReadGraph6Lines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadGraph6Lines: %v", err)
	}
	if len(gs) != 3 {
		t.Fatalf("got %d graphs, want 3", len(gs))
	}
	if gs[1].M() != 6 {
		t.Errorf("second graph has %d edges, want 6", gs[1].M())
	}

	_, err = ReadGraph6Lines(strings.NewReader("Bw\nC\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the bad line, got %v", err)
	}
}
