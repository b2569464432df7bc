package pipeline

import (
	"context"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/okplanar/pkg/graph"
	gio "github.com/matzehuels/okplanar/pkg/io"
	"github.com/matzehuels/okplanar/pkg/store"
)

// BatchItem is one graph of a batch.
type BatchItem struct {
	Name  string
	Graph *graph.Graph
}

// BatchResult is the outcome for one item. Exactly one of Report and Err
// is set.
type BatchResult struct {
	Index   int
	Name    string
	Report  *gio.Report
	Err     error
	Elapsed time.Duration
}

// BatchOptions configures [Runner.Batch].
type BatchOptions struct {
	// Workers bounds concurrent solves; zero means GOMAXPROCS.
	Workers int

	// RunID tags stored records; empty means a fresh ID.
	RunID string

	// Store receives one record per item when non-nil.
	Store store.Store

	// OnStart and OnResult are called from worker goroutines, serialized.
	OnStart  func(index int)
	OnResult func(BatchResult)
}

// Batch solves every item with opts. Failures of single items are reported
// in their BatchResult; the returned error is non-nil only when ctx ends
// the run early or opts are invalid. Results are in input order, and when
// ctx ends the run every item left without a report carries ctx's error.
func (r *Runner) Batch(ctx context.Context, items []BatchItem, opts Options, bopts BatchOptions) (string, []BatchResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", nil, err
	}
	opts.Formats = nil

	runID := bopts.RunID
	if runID == "" {
		runID = store.NewRunID()
	}
	workers := bopts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	r.Logger.Info("batch started", "run", runID, "graphs", len(items), "workers", workers, "options", opts.String())

	results := make([]BatchResult, len(items))
	var mu sync.Mutex
	notify := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if bopts.OnStart != nil {
				notify(func() { bopts.OnStart(i) })
			}
			res := r.solveItem(gctx, i, item, opts)
			results[i] = res
			if gctx.Err() != nil {
				return gctx.Err()
			}
			r.persist(gctx, runID, res, item, bopts.Store)
			if bopts.OnResult != nil {
				notify(func() { bopts.OnResult(res) })
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		// Items never scheduled, or cut short before a result, fail with
		// the cancellation.
		for i := range results {
			if results[i].Report == nil && results[i].Err == nil {
				results[i] = BatchResult{Index: i, Name: items[i].Name, Err: err}
			}
		}
	}
	return runID, results, err
}

func (r *Runner) solveItem(ctx context.Context, i int, item BatchItem, opts Options) BatchResult {
	start := time.Now()
	out := BatchResult{Index: i, Name: item.Name}
	item.Graph = orEmpty(item.Graph)

	opts.Name = item.Name
	res, err := r.Execute(ctx, item.Graph, opts)
	out.Elapsed = time.Since(start)
	if err != nil {
		out.Err = err
		r.Logger.Warn("batch item failed", "index", i, "name", item.Name, "err", err)
		return out
	}
	out.Report = res.Report
	return out
}

func (r *Runner) persist(ctx context.Context, runID string, res BatchResult, item BatchItem, s store.Store) {
	if s == nil {
		return
	}
	var rec *store.Record
	if res.Err != nil {
		g6, _ := gio.EncodeGraph6(orEmpty(item.Graph))
		rec = store.NewFailure(runID, res.Index, g6, res.Err)
		rec.Name = item.Name
	} else {
		rec = store.NewRecord(runID, res.Index, res.Report)
	}
	if err := s.Put(ctx, rec); err != nil {
		r.Logger.Warn("store write failed", "run", runID, "index", res.Index, "err", err)
	}
}

func orEmpty(g *graph.Graph) *graph.Graph {
	if g == nil {
		return graph.New(0)
	}
	return g
}

// Summary aggregates a batch.
type Summary struct {
	Total   int
	Solved  int
	Failed  int
	Cached  int
	MaxK    int
	Elapsed time.Duration
	// Histogram maps a crossing number to the number of graphs with it.
	Histogram map[int]int
}

// Summarize aggregates results.
func Summarize(results []BatchResult) Summary {
	s := Summary{Total: len(results), Histogram: map[int]int{}}
	for _, res := range results {
		s.Elapsed += res.Elapsed
		if res.Report == nil {
			s.Failed++
			continue
		}
		s.Solved++
		if res.Report.Cached {
			s.Cached++
		}
		k := res.Report.CrossingNumber
		s.Histogram[k]++
		s.MaxK = max(s.MaxK, k)
	}
	return s
}

// Crossings returns the histogram keys in ascending order.
func (s Summary) Crossings() []int {
	return slices.Sorted(maps.Keys(s.Histogram))
}
