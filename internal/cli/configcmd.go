package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/okplanar/pkg/config"
)

// configCommand creates the config command that prints the effective
// configuration.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration okplanar runs with: the built-in defaults overlaid
with the config file. Redirect it to create a config file to edit:

  okplanar config > ~/.config/okplanar/config.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Config.Write(stdout)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return fmt.Errorf("locate config: %w", err)
				}
				path = p
			}
			fmt.Fprintln(stdout, path)
			return nil
		},
	})

	return cmd
}
