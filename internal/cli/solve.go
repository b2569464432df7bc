package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	solveFlags
	g6        string        // inline graph6 input
	outputs   []string      // output files, format inferred from extension
	format    string        // explicit format for a single output or stdout
	timeout   time.Duration // overall time limit, zero keeps the config value
	threshold int           // chords above this count are drawn red
	counts    bool          // label chords with their crossing count
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Compute the outer k-planar crossing number of a graph",
		Long: `Compute the outer k-planar crossing number of a graph and an optimal circular
vertex order.

The input is a DOT (.dot, .gv), JSON (.json) or graph6 (.g6) file, or an
inline graph6 string given with --g6. Outputs are chosen by extension:

  okplanar solve k5.dot                     # print the crossing number and order
  okplanar solve --g6 'D~{' -o k5.svg       # circular drawing, neato layout
  okplanar solve k5.dot -o k5.dot.out -f dot
  okplanar solve k5.dot -f yaml             # report on stdout

Results are cached, so solving the same graph again is instant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runSolve(cmd.Context(), input, opts)
		},
	}

	opts.solveFlags.register(cmd)
	cmd.Flags().StringVar(&opts.g6, "g6", "", "inline graph6 input instead of a file")
	cmd.Flags().StringSliceVarP(&opts.outputs, "output", "o", nil, "output file(s): .dot, .svg, .json, .yaml")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format for a single output or stdout: dot, svg, json, yaml")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "give up after this long (default from config, 0 = none)")
	cmd.Flags().IntVar(&opts.threshold, "threshold", 0, "draw chords crossed more than this many times in red")
	cmd.Flags().BoolVar(&opts.counts, "counts", false, "label chords with their crossing counts")

	return cmd
}

// target is one artifact to write; an empty path means stdout.
type target struct {
	path   string
	format string
}

// targets resolves --output and --format into artifacts to write.
func (o *solveOpts) targets() ([]target, error) {
	if o.format != "" {
		if err := pipeline.ValidateFormat(o.format); err != nil {
			return nil, err
		}
		switch len(o.outputs) {
		case 0:
			return []target{{format: o.format}}, nil
		case 1:
			return []target{{path: o.outputs[0], format: o.format}}, nil
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "--format applies to a single output, got %d", len(o.outputs))
	}
	out := make([]target, 0, len(o.outputs))
	for _, path := range o.outputs {
		format, err := pipeline.FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		out = append(out, target{path: path, format: format})
	}
	return out, nil
}

func (c *CLI) runSolve(ctx context.Context, input string, opts solveOpts) error {
	logger := loggerFromContext(ctx)

	targets, err := opts.targets()
	if err != nil {
		return err
	}
	g, name, err := pipeline.Load(input, opts.g6)
	if err != nil {
		return err
	}
	logger.Debug("loaded graph", "name", name, "vertices", g.N(), "edges", g.M())

	popts := opts.options(c.Config)
	popts.Name = name
	popts.Threshold = opts.threshold
	popts.Counts = opts.counts
	popts.Logger = logger
	for _, t := range targets {
		if !slices.Contains(popts.Formats, t.format) {
			popts.Formats = append(popts.Formats, t.format)
		}
	}

	timeout := opts.timeout
	if timeout == 0 {
		timeout = c.Config.Solver.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Solving %s (%d vertices, %d edges)...", name, g.N(), g.M()))
	spinner.Start()
	result, err := runner.Execute(ctx, g, popts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()

	toStdout := false
	for _, t := range targets {
		data := result.Artifacts[t.format]
		if t.path == "" {
			toStdout = true
			if _, err := stdout.Write(data); err != nil {
				return err
			}
			continue
		}
		if err := writeFile(t.path, data); err != nil {
			return err
		}
		logger.Debug("wrote output", "path", t.path, "bytes", len(data))
	}
	if toStdout {
		return nil
	}

	rep := result.Report
	fmt.Fprintf(stdout, "Crossing number: %d\n", rep.CrossingNumber)
	printKeyValue("Order", strings.Join(rep.Labels, " "))
	printKeyValue("Elapsed", result.Stats.SolveTime.Round(time.Microsecond).String())
	printStats(result.Stats.Vertices, result.Stats.Edges, result.CacheInfo.SolveHit)
	for _, t := range targets {
		printFile(t.path)
	}
	if len(targets) == 0 && input != "" {
		printNewline()
		printNextStep("Draw it", fmt.Sprintf("%s solve %s -o %s.svg", appName, input, strings.TrimSuffix(input, filepath.Ext(input))))
	}
	return nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
