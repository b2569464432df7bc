package io

import (
	"strings"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
)

const (
	graph6Header = ">>graph6<<"
	graph6Bias   = 63
	// graph6Max is the largest vertex count expressible with the 4-byte
	// size prefix.
	graph6Max = 258047
)

// EncodeGraph6 returns the graph6 string of g (no header, no newline).
//
// The encoding is the vertex count followed by the upper triangle of the
// adjacency matrix, read column by column and packed six bits per
// printable byte. Labels are not part of the encoding.
func EncodeGraph6(g *graph.Graph) (string, error) {
	n := g.N()
	if n > graph6Max {
		return "", errors.New(errors.ErrCodeTooLarge, "graph6 supports at most %d vertices", graph6Max)
	}

	var sb strings.Builder
	if n <= 62 {
		sb.WriteByte(byte(n + graph6Bias))
	} else {
		sb.WriteByte(126)
		sb.WriteByte(byte(n>>12&63 + graph6Bias))
		sb.WriteByte(byte(n>>6&63 + graph6Bias))
		sb.WriteByte(byte(n&63 + graph6Bias))
	}

	var (
		chunk byte
		bits  int
	)
	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			chunk <<= 1
			if g.HasEdge(i, j) {
				chunk |= 1
			}
			bits++
			if bits == 6 {
				sb.WriteByte(chunk + graph6Bias)
				chunk, bits = 0, 0
			}
		}
	}
	if bits > 0 {
		sb.WriteByte(chunk<<(6-bits) + graph6Bias)
	}
	return sb.String(), nil
}

// DecodeGraph6 parses one graph6 string, with or without the optional
// ">>graph6<<" header.
func DecodeGraph6(s string) (*graph.Graph, error) {
	if err := errors.ValidateGraph6(s); err != nil {
		return nil, err
	}
	data := []byte(strings.TrimPrefix(strings.TrimSpace(s), graph6Header))

	var n int
	switch {
	case data[0] != 126:
		n, data = int(data[0]-graph6Bias), data[1:]
	case len(data) >= 4 && data[1] != 126:
		n = int(data[1]-graph6Bias)<<12 | int(data[2]-graph6Bias)<<6 | int(data[3]-graph6Bias)
		data = data[4:]
	default:
		return nil, errors.New(errors.ErrCodeTooLarge, "graph6 graphs above %d vertices are not supported", graph6Max)
	}

	want := (n*(n-1)/2 + 5) / 6
	if len(data) != want {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph6 body has %d bytes, %d vertices need %d", len(data), n, want)
	}

	g := graph.New(n)
	k := 0
	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			b := data[k/6] - graph6Bias
			if b>>(5-k%6)&1 == 1 {
				if _, err := g.AddEdge(i, j); err != nil {
					return nil, err
				}
			}
			k++
		}
	}
	return g, nil
}
