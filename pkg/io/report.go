package io

import (
	"encoding/json"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/solver"
)

// Report output formats.
const (
	FormatYAML = "yaml"
)

// Report is the serialized outcome of one solve.
type Report struct {
	ID             string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name           string    `json:"name,omitempty" yaml:"name,omitempty"`
	Graph6         string    `json:"graph6" yaml:"graph6"`
	Method         string    `json:"method" yaml:"method"`
	Vertices       int       `json:"vertices" yaml:"vertices"`
	Edges          int       `json:"edges" yaml:"edges"`
	CrossingNumber int       `json:"crossing_number" yaml:"crossing_number"`
	Order          []int     `json:"order" yaml:"order,flow"`
	Labels         []string  `json:"labels,omitempty" yaml:"labels,flow,omitempty"`
	EdgeCrossings  []int     `json:"edge_crossings,omitempty" yaml:"edge_crossings,flow,omitempty"`
	ElapsedMS      float64   `json:"elapsed_ms" yaml:"elapsed_ms"`
	Cached         bool      `json:"cached,omitempty" yaml:"cached,omitempty"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// NewReport describes res for g. Labels are listed in circular order.
func NewReport(g *graph.Graph, res solver.Result, method string, elapsed time.Duration) (*Report, error) {
	g6, err := EncodeGraph6(g)
	if err != nil {
		return nil, err
	}
	counts, err := graph.EdgeCrossings(g, res.Order)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(res.Order))
	for i, v := range res.Order {
		labels[i] = g.Label(v)
	}
	return &Report{
		Graph6:         g6,
		Method:         method,
		Vertices:       g.N(),
		Edges:          g.M(),
		CrossingNumber: res.CrossingNumber,
		Order:          res.Order,
		Labels:         labels,
		EdgeCrossings:  counts,
		ElapsedMS:      float64(elapsed.Microseconds()) / 1000,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Result returns the solver result the report describes.
func (r *Report) Result() solver.Result {
	return solver.Result{Order: r.Order, CrossingNumber: r.CrossingNumber}
}

// WriteReport encodes r as JSON or YAML.
func WriteReport(w io.Writer, r *Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode JSON report")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode YAML report")
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown report format %q (must be json or yaml)", format)
}

// ReadReport decodes a report written by [WriteReport].
func ReadReport(rd io.Reader, format string) (*Report, error) {
	var r Report
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(rd).Decode(&r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON report")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML report")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown report format %q (must be json or yaml)", format)
	}
	return &r, nil
}
