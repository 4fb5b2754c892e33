// Package cli implements the santamap command-line interface.
//
// The root command renders the map with no required arguments. Every flag
// can also come from a SANTAMAP_* environment variable or a config file;
// flags win over the environment, which wins over the file, which wins over
// the pipeline defaults.
//
// # Commands
//
//   - santamap: render the map to santa_traditions_map.png
//   - santamap locations: print the enriched location table
//   - santamap cache: inspect or clear the tile cache
//   - santamap completion: generate shell completions
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/santamap/pkg/buildinfo"
	"github.com/matzehuels/santamap/pkg/cache"
	"github.com/matzehuels/santamap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "santamap"

	// memoryTTL bounds how long tiles stay in the in-process layer.
	memoryTTL = time.Hour

	redisPingTimeout = 2 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.mapCommand()
	root.Version = buildinfo.Version
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.locationsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config) (*pipeline.Runner, error) {
	tiles, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(tiles, loggerFromContext(ctx)), nil
}

// newCache builds the tile cache: an in-memory layer over Redis when an
// address is configured, otherwise over the on-disk cache. An unreachable
// Redis degrades to the disk cache with a warning.
func (c *CLI) newCache(ctx context.Context, cfg *config) (cache.Cache, error) {
	if cfg.NoCache {
		return cache.NewNullCache(), nil
	}
	logger := loggerFromContext(ctx)

	var back cache.Cache
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(pingCtx, cfg.redisConfig())
		if err != nil {
			logger.Warn("redis unavailable, using disk cache", "err", err)
		} else {
			back = rc
		}
	}
	if back == nil {
		dir, err := cfg.cacheDir()
		if err != nil {
			logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			logger.Warn("cache directory not usable, caching disabled", "dir", dir, "err", err)
			return cache.NewNullCache(), nil
		}
		back = fc
	}
	return cache.Layered(cache.NewMemoryCache(memoryTTL, 10*time.Minute), back, memoryTTL), nil
}
