package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/okplanar/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			switch cfg.Backend {
			case cache.BackendFile:
			case cache.BackendBadger:
				if err := os.RemoveAll(cfg.Dir); err != nil {
					return fmt.Errorf("remove %s: %w", cfg.Dir, err)
				}
				printSuccess("Removed badger cache")
				printDetail("Directory: %s", cfg.Dir)
				return nil
			default:
				return fmt.Errorf("cache clear supports the file and badger backends, not %q", cfg.Backend)
			}

			if _, err := os.Stat(cfg.Dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(cfg.Dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Dir == "" {
				return fmt.Errorf("no cache directory configured")
			}
			fmt.Fprintln(stdout, c.Config.Cache.Dir)
			return nil
		},
	}
}
