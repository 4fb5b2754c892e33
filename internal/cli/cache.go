package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/santamap/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the basemap tile cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached tiles",
		Long: `Remove cached tiles from the disk cache and, when --redis-addr is set,
every key under the santamap: prefix in Redis.

Only cache entries are deleted. Other files in the cache directory are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			dir, err := cfg.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			removed := 0
			if _, err := os.Stat(dir); err == nil {
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				if removed, err = fc.Clear(); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
			}
			printSuccess("Cleared %d cached tiles", removed)
			printDetail("Directory: %s", dir)

			if cfg.RedisAddr == "" {
				return nil
			}
			n, err := clearRedis(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("clear redis cache: %w", err)
			}
			printSuccess("Cleared %d cached tiles from redis", n)
			printDetail("Address: %s", cfg.RedisAddr)
			return nil
		},
	}
}

func clearRedis(ctx context.Context, cfg *config) (int, error) {
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	rc, err := cache.NewRedisCache(pingCtx, cfg.redisConfig())
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return rc.Clear(ctx)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			dir, err := cfg.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
