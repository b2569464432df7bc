package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	gio "github.com/matzehuels/okplanar/pkg/io"
	"github.com/matzehuels/okplanar/pkg/pipeline"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	solveFlags
	workers int    // concurrent solves, zero keeps the config value
	tui     bool   // live bubbletea view instead of log lines
	store   string // store backend override
}

// batchCommand creates the batch command for solving many graphs.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Solve every graph of a graph6 file",
		Long: `Solve every graph of a graph6 file (one graph per line, "-" for stdin) and
print a summary. Each outcome is stored as a record of one run, so results can
be queried later (okplanar serve exposes them under /v1/runs/{id}).

  geng -c 7 | okplanar batch - --workers 8
  okplanar batch graphs.g6 --tui --store mongo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], opts)
		},
	}

	opts.solveFlags.register(cmd)
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent solves (default from config, 0 = one per CPU)")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show a live progress view")
	cmd.Flags().StringVar(&opts.store, "store", "", "result store: jsonl, mongo, memory, none (default from config)")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, input string, opts batchOpts) error {
	logger := loggerFromContext(ctx)

	items, err := readBatch(input)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		printWarning("No graphs in %s", input)
		return nil
	}

	st, err := c.openStore(ctx, opts.store)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close(context.Background())
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	popts := opts.options(c.Config)
	popts.Logger = logger
	bopts := pipeline.BatchOptions{
		Workers: opts.workers,
		Store:   st,
	}
	if bopts.Workers == 0 {
		bopts.Workers = c.Config.Batch.Workers
	}

	start := time.Now()
	var (
		runID   string
		results []pipeline.BatchResult
	)
	if opts.tui {
		runID, results, err = runBatchTUI(ctx, runner, items, popts, bopts)
	} else {
		bopts.OnResult = func(res pipeline.BatchResult) {
			if res.Err != nil {
				logger.Warn("failed", "graph", res.Name, "err", res.Err)
				return
			}
			logger.Debug("solved", "graph", res.Name, "k", res.Report.CrossingNumber, "cached", res.Report.Cached)
		}
		runID, results, err = runner.Batch(ctx, items, popts, bopts)
	}
	if err != nil {
		return err
	}

	printBatchSummary(runID, pipeline.Summarize(results), time.Since(start), st != nil)
	for _, res := range results {
		if res.Err != nil {
			printDetail("%s: %v", res.Name, res.Err)
		}
	}
	return nil
}

// readBatch reads graph6 lines from path, or stdin for "-". Items are
// named by their graph6 encoding.
func readBatch(path string) ([]pipeline.BatchItem, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	graphs, err := gio.ReadGraph6Lines(r)
	if err != nil {
		return nil, err
	}
	items := make([]pipeline.BatchItem, len(graphs))
	for i, g := range graphs {
		name, err := gio.EncodeGraph6(g)
		if err != nil {
			return nil, err
		}
		items[i] = pipeline.BatchItem{Name: name, Graph: g}
	}
	return items, nil
}

// runBatchTUI runs the batch under the live view. Quitting the view
// cancels the remaining solves.
func runBatchTUI(ctx context.Context, runner *pipeline.Runner, items []pipeline.BatchItem, opts pipeline.Options, bopts pipeline.BatchOptions) (string, []pipeline.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newBatchModel(len(items), cancel), tea.WithContext(ctx), tea.WithOutput(os.Stderr))

	bopts.OnStart = func(i int) { p.Send(itemStartedMsg{index: i}) }
	bopts.OnResult = func(res pipeline.BatchResult) { p.Send(itemDoneMsg{result: res}) }

	type outcome struct {
		runID   string
		results []pipeline.BatchResult
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		runID, results, err := runner.Batch(ctx, items, opts, bopts)
		p.Send(batchDoneMsg{err: err})
		done <- outcome{runID, results, err}
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-done
		return "", nil, fmt.Errorf("batch view: %w", err)
	}
	out := <-done
	return out.runID, out.results, out.err
}

// printBatchSummary prints the crossing-number histogram and run totals.
func printBatchSummary(runID string, sum pipeline.Summary, wall time.Duration, stored bool) {
	rows := make([][]string, 0, len(sum.Histogram))
	for _, k := range sum.Crossings() {
		rows = append(rows, []string{strconv.Itoa(k), strconv.Itoa(sum.Histogram[k])})
	}
	if sum.Failed > 0 {
		rows = append(rows, []string{"failed", strconv.Itoa(sum.Failed)})
	}
	failedRow := len(rows) - 1

	printSuccess("Solved %d of %d graphs", sum.Solved, sum.Total)
	printTable([]string{"k", "Graphs"}, rows, func(row int) bool {
		return sum.Failed > 0 && row == failedRow
	})
	printKeyValue("Max k", strconv.Itoa(sum.MaxK))
	printKeyValue("Cached", strconv.Itoa(sum.Cached))
	printKeyValue("Wall time", wall.Round(time.Millisecond).String())
	printKeyValue("Solver time", sum.Elapsed.Round(time.Millisecond).String())
	if stored {
		printKeyValue("Run", runID)
	}
}
