package circle

import (
	"math"

	"github.com/matzehuels/okplanar/pkg/graph"
)

// Radius of the circle, in inches (neato's unit for pinned positions).
const Radius = 5.0

// Point is a position in the plane.
type Point struct {
	X, Y float64
}

// Vertex is one placed vertex.
type Vertex struct {
	ID    int
	Label string
	Slot  int // index in the circular order
	Pos   Point
}

// Chord is one edge drawn as a straight segment.
type Chord struct {
	Edge      graph.Edge
	Crossings int
}

// Drawing is a circular drawing of a graph. Vertices are indexed by vertex
// id and Chords by edge id.
type Drawing struct {
	Vertices []Vertex
	Chords   []Chord
	Max      int
}

// Layout places the vertices of g on the circle in the given order.
func Layout(g *graph.Graph, order []int) (Drawing, error) {
	counts, err := graph.EdgeCrossings(g, order)
	if err != nil {
		return Drawing{}, err
	}

	n := g.N()
	d := Drawing{
		Vertices: make([]Vertex, n),
		Chords:   make([]Chord, g.M()),
	}
	for j, v := range order {
		angle := 2 * math.Pi * float64(j) / float64(n)
		d.Vertices[v] = Vertex{
			ID:    v,
			Label: g.Label(v),
			Slot:  j,
			Pos:   Point{X: Radius * math.Cos(angle), Y: Radius * math.Sin(angle)},
		}
	}
	for id, e := range g.Edges() {
		d.Chords[id] = Chord{Edge: e, Crossings: counts[id]}
		d.Max = max(d.Max, counts[id])
	}
	return d, nil
}
