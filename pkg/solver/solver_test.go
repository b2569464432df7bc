package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/observability"
)

func TestVerify(t *testing.T) {
	k4 := graph.MustFromEdges(4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}})

	require.NoError(t, Verify(k4, Result{Order: []int{0, 1, 2, 3}, CrossingNumber: 1}))

	err := Verify(k4, Result{Order: []int{0, 1, 2, 3}, CrossingNumber: 0})
	assert.True(t, errors.Is(err, errors.ErrCodeInternal), "wrong crossing number: %v", err)

	err = Verify(k4, Result{Order: []int{0, 1, 2}, CrossingNumber: 1})
	assert.True(t, errors.Is(err, errors.ErrCodeInternal), "short order: %v", err)
}

func TestFinish(t *testing.T) {
	k4 := graph.MustFromEdges(4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}})
	order := []int{3, 2, 1, 0}

	res, err := Finish(k4, order)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CrossingNumber)
	assert.Equal(t, order, res.Order)

	order[0] = 9
	assert.Equal(t, 3, res.Order[0], "Finish must copy the order")
}

func TestTrivial(t *testing.T) {
	g := graph.MustFromEdges(3, [][2]int{{0, 1}, {1, 2}})
	res := Trivial(g)
	assert.Equal(t, []int{0, 1, 2}, res.Order)
	assert.Zero(t, res.CrossingNumber)
	assert.NoError(t, Verify(g, res))
}

func TestCeiling(t *testing.T) {
	assert.Equal(t, DefaultCeiling, Ceiling(0))
	assert.Equal(t, DefaultCeiling, Ceiling(-3))
	assert.Equal(t, 4, Ceiling(4))
}

func TestFunc(t *testing.T) {
	var s Solver = Func(func(_ context.Context, g *graph.Graph, _ int) (Result, error) {
		return Trivial(g), nil
	})
	res, err := s.Solve(context.Background(), graph.New(2), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, res.Order)
}

func TestUnsolved(t *testing.T) {
	err := Unsolved(graph.New(3), 2)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsolved))
	assert.Contains(t, err.Error(), "at most 2 crossings")
}

type recordingHooks struct {
	observability.NoopSolverHooks
	started, completed int
	lastK              int
	lastErr            error
}

func (h *recordingHooks) OnSolveStart(context.Context, string, int, int) { h.started++ }

func (h *recordingHooks) OnSolveComplete(_ context.Context, _ string, k int, _ time.Duration, err error) {
	h.completed++
	h.lastK, h.lastErr = k, err
}

func TestObserve(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetSolverHooks(hooks)
	t.Cleanup(observability.Reset)

	g := graph.MustFromEdges(3, [][2]int{{0, 1}, {1, 2}})
	ctx := context.Background()
	solve := func() (Result, error) { return Result{Order: []int{0, 1, 2}, CrossingNumber: 0}, nil }

	_, err := Observe(ctx, MethodDP, g, solve)
	require.NoError(t, err)
	assert.Equal(t, 1, hooks.started)
	assert.Equal(t, 1, hooks.completed)

	_, err = Observe(observability.AsComponent(ctx), MethodDP, g, solve)
	require.NoError(t, err)
	assert.Equal(t, 1, hooks.completed, "component solves are not reported")

	fail := errors.New(errors.ErrCodeUnsolved, "no order")
	_, err = Observe(ctx, MethodDP, g, func() (Result, error) { return Result{}, fail })
	assert.ErrorIs(t, err, fail)
	assert.Equal(t, 2, hooks.completed)
	assert.Equal(t, fail, hooks.lastErr)
}
