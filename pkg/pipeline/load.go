package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	gio "github.com/matzehuels/okplanar/pkg/io"
	"github.com/matzehuels/okplanar/pkg/solver"
	"github.com/matzehuels/okplanar/pkg/solver/bicomp"
	"github.com/matzehuels/okplanar/pkg/solver/dp"
	"github.com/matzehuels/okplanar/pkg/solver/exhaustive"
	"github.com/matzehuels/okplanar/pkg/solver/sat"
)

// Load reads a graph either from path or, when g6 is non-empty, from an
// inline graph6 string. It returns the graph and a display name.
func Load(path, g6 string) (*graph.Graph, string, error) {
	if g6 != "" {
		g, err := gio.DecodeGraph6(g6)
		if err != nil {
			return nil, "", err
		}
		return g, strings.TrimSpace(g6), nil
	}
	if path == "" {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "no input: pass a file or a graph6 string")
	}
	g, err := gio.Import(path)
	if err != nil {
		return nil, "", err
	}
	return g, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), nil
}

// NewSolver builds the solver for a method. With decompose set the method
// solves blocks and the block-cut driver stitches them together.
func NewSolver(method string, ceiling int, decompose bool, logger *log.Logger) (solver.Solver, error) {
	var component solver.Solver
	switch method {
	case solver.MethodDP, "":
		method = solver.MethodDP
		component = dp.New(ceiling, logger)
	case solver.MethodSAT:
		component = sat.New(ceiling, logger)
	case solver.MethodExhaustive:
		component = exhaustive.New(ceiling)
	default:
		return nil, errors.ValidateMethod(method, solver.Methods())
	}
	if !decompose {
		return component, nil
	}
	return bicomp.New(component, method, logger), nil
}
