// Package cli implements the okplanar command-line interface.
//
// # Commands
//
//   - solve: compute the outer k-planar crossing number of one graph and
//     write the circular drawing as DOT, SVG, JSON or YAML
//   - blocks: print the block-cut tree of a graph
//   - batch: solve every graph of a graph6 file, optionally with a live view
//   - serve: run the HTTP API
//   - cache, config, completion: housekeeping
//
// # Configuration
//
// Defaults come from config.toml (see the config package); flags given on
// the command line override it.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through context.Context so helpers need no extra parameters.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/okplanar/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "okplanar finds circular drawings with few crossings per edge",
		Long: `okplanar computes the outer k-planar crossing number of a graph: the smallest k
such that the vertices can be placed on a circle with every straight edge
crossed at most k times. It reports an optimal circular order and can draw it.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/okplanar/config.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.blocksCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
