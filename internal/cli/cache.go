package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/cache"
	"github.com/sdjayna/penplot/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached document and SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer backend.Close()

			clearer, ok := backend.(cache.Clearer)
			if !ok {
				printInfo("Caching is disabled")
				return nil
			}
			n, err := clearer.Clear(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("%s", cacheLocation(c.Config.Cache, backend))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			switch {
			case cfg.Backend == config.BackendRedis:
				fmt.Fprintln(cmd.OutOrStdout(), "redis://"+cfg.RedisAddr)
				return nil
			case cfg.Backend == config.BackendNone:
				return fmt.Errorf("caching is disabled")
			case cfg.Dir != "":
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Dir)
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheLocation describes an open cache backend.
func cacheLocation(cfg config.Cache, backend cache.Cache) string {
	if fc, ok := backend.(*cache.FileCache); ok {
		return "Directory: " + fc.Dir()
	}
	return "Redis: " + cfg.RedisAddr
}
