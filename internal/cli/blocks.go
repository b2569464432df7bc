package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/graph/bctree"
	"github.com/matzehuels/okplanar/pkg/pipeline"
)

// blocksCommand creates the blocks command for inspecting the block-cut tree.
func (c *CLI) blocksCommand() *cobra.Command {
	var (
		flags solveFlags
		g6    string
		solve bool
	)

	cmd := &cobra.Command{
		Use:   "blocks [file]",
		Short: "Print the block-cut tree of a graph",
		Long: `Print the biconnected components (blocks) and cut vertices of a graph.

With --solve every block is solved on its own; the crossing number of the
whole graph is the maximum over its blocks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			g, name, err := pipeline.Load(input, g6)
			if err != nil {
				return err
			}
			opts := flags.options(c.Config)
			if !solve {
				opts.Method = ""
			}
			return c.runBlocks(cmd.Context(), g, name, opts)
		},
	}

	cmd.Flags().StringVar(&g6, "g6", "", "inline graph6 input instead of a file")
	cmd.Flags().BoolVar(&solve, "solve", false, "solve every block and report its crossing number")
	cmd.Flags().StringVarP(&flags.method, "method", "m", "", "solver for --solve: dp (default), sat, exhaustive")
	cmd.Flags().IntVarP(&flags.ceiling, "ceiling", "k", 0, "largest crossing bound to try")

	return cmd
}

// runBlocks prints the tree of g. A non-empty opts.Method also solves each
// block with that method.
func (c *CLI) runBlocks(ctx context.Context, g *graph.Graph, name string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	tree, err := bctree.Build(ctx, g)
	if err != nil {
		return err
	}
	prog.done("decomposed", "graph", name, "blocks", tree.NumBlocks(), "cuts", len(tree.Cuts()))

	headers := []string{"Block", "Vertices", "Edges", "Cut vertices"}
	if opts.Method != "" {
		headers = append(headers, "k")
	}

	rows := make([][]string, 0, tree.NumBlocks())
	maxK := 0
	for i, node := range tree.Nodes[:tree.NumBlocks()] {
		var labels, cuts []string
		for _, v := range node.Vertices {
			labels = append(labels, g.Label(v))
			if tree.IsCut(v) {
				cuts = append(cuts, g.Label(v))
			}
		}
		row := []string{
			strconv.Itoa(i),
			strings.Join(labels, " "),
			strconv.Itoa(node.Graph.M()),
			strings.Join(cuts, " "),
		}
		if opts.Method != "" {
			k, err := c.solveBlock(ctx, node.Graph, opts)
			if err != nil {
				return fmt.Errorf("block %d: %w", i, err)
			}
			maxK = max(maxK, k)
			row = append(row, strconv.Itoa(k))
		}
		rows = append(rows, row)
	}

	fmt.Fprintln(stdout, StyleTitle.Render(name))
	printTable(headers, rows, nil)
	printKeyValue("Blocks", strconv.Itoa(tree.NumBlocks()))
	printKeyValue("Cut vertices", strconv.Itoa(len(tree.Cuts())))
	if opts.Method != "" {
		fmt.Fprintf(stdout, "Crossing number: %d\n", maxK)
	}
	return nil
}

func (c *CLI) solveBlock(ctx context.Context, g *graph.Graph, opts pipeline.Options) (int, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return 0, err
	}
	s, err := pipeline.NewSolver(opts.Method, opts.Ceiling, false, c.Logger)
	if err != nil {
		return 0, err
	}
	res, err := s.Solve(ctx, g, 0)
	if err != nil {
		return 0, err
	}
	return res.CrossingNumber, nil
}
