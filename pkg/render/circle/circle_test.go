package circle

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/okplanar/pkg/graph"
)

func k4() *graph.Graph {
	return graph.MustFromEdges(4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}})
}

func TestLayout(t *testing.T) {
	d, err := Layout(k4(), []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if d.Max != 1 {
		t.Errorf("Max = %d, want 1", d.Max)
	}

	want := []Point{{5, 0}, {0, 5}, {-5, 0}, {0, -5}}
	for v, p := range want {
		got := d.Vertices[v].Pos
		if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
			t.Errorf("vertex %d at %+v, want %+v", v, got, p)
		}
		if r := math.Hypot(got.X, got.Y); math.Abs(r-Radius) > 1e-9 {
			t.Errorf("vertex %d off the circle: r=%v", v, r)
		}
	}
}

func TestLayoutFollowsOrder(t *testing.T) {
	d, err := Layout(k4(), []int{2, 0, 3, 1})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if d.Vertices[2].Slot != 0 || d.Vertices[1].Slot != 3 {
		t.Errorf("slots = %d, %d", d.Vertices[2].Slot, d.Vertices[1].Slot)
	}
	// 0-1 and 2-3 are the crossing pair in this order.
	if d.Chords[0].Crossings != 1 || d.Chords[2].Crossings != 1 || d.Chords[4].Crossings != 0 {
		t.Errorf("chords = %+v", d.Chords)
	}
}

func TestLayoutBadOrder(t *testing.T) {
	if _, err := Layout(k4(), []int{0, 1, 1, 3}); err == nil {
		t.Error("expected error for a non-permutation")
	}
}

func TestToDOT(t *testing.T) {
	g := k4()
	g.SetLabel(0, "hub")
	d, err := Layout(g, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name: "maximum in blue",
			want: []string{
				`"0" [label="hub", pos="5.000,0.000!"];`,
				`"0" -- "2" [color=blue, penwidth=2];`,
				`"0" -- "1";`,
			},
			notWant: []string{"color=red"},
		},
		{
			name: "crossing counts",
			opts: Options{Threshold: 0, Counts: true},
			want: []string{`"1" -- "3" [color=blue, penwidth=2, label="1"];`, `"0" -- "1" [label="0"];`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(d, tt.opts)
			if !strings.HasPrefix(dot, "graph G {") {
				t.Errorf("missing header:\n%s", dot)
			}
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("missing %q in:\n%s", w, dot)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(dot, w) {
					t.Errorf("unexpected %q in:\n%s", w, dot)
				}
			}
		})
	}
}

func TestToDOTThreshold(t *testing.T) {
	g := graph.MustFromEdges(5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}})
	d, err := Layout(g, []int{0, 2, 4, 1, 3})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	dot := ToDOT(d, Options{Threshold: 1})
	if !strings.Contains(dot, "color=red") {
		t.Errorf("expected red chords above threshold:\n%s", dot)
	}
}

func TestToDOTPlanarDrawingIsAllBlue(t *testing.T) {
	g := graph.MustFromEdges(3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	d, err := Layout(g, []int{0, 1, 2})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if d.Max != 0 {
		t.Fatalf("Max = %d, want 0", d.Max)
	}
	dot := ToDOT(d, Options{})
	if got := strings.Count(dot, "[color=blue, penwidth=2]"); got != 3 {
		t.Errorf("blue chords = %d, want 3:\n%s", got, dot)
	}
}

func TestRenderSVG(t *testing.T) {
	d, err := Layout(k4(), []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	svg, err := RenderSVG(context.Background(), ToDOT(d, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}
