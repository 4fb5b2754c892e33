package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/santamap/pkg/cache"
	"github.com/matzehuels/santamap/pkg/errors"
	"github.com/matzehuels/santamap/pkg/pipeline"
)

// envPrefix namespaces environment overrides, e.g. SANTAMAP_BUFFER_KM.
const envPrefix = "SANTAMAP"

// Flag names double as config file keys.
const (
	flagConfig         = "config"
	flagVerbose        = "verbose"
	flagLocations      = "locations"
	flagBufferKm       = "buffer-km"
	flagSegments       = "segments"
	flagCacheDir       = "cache-dir"
	flagNoCache        = "no-cache"
	flagRedisAddr      = "redis-addr"
	flagOutput         = "output"
	flagWidth          = "width"
	flagHeight         = "height"
	flagTitle          = "title"
	flagSeed           = "seed"
	flagNoBasemap      = "no-basemap"
	flagTileURL        = "tile-url"
	flagTileZoom       = "tile-zoom"
	flagBasemapTimeout = "basemap-timeout"
	flagAttribution    = "attribution"
	flagUserAgent      = "user-agent"
	flagTileTTL        = "tile-ttl"
	flagMetricsFile    = "metrics-file"
)

// config is the merged view of flags, environment, and config file.
type config struct {
	Output         string        `yaml:"output"`
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	Title          string        `yaml:"title,omitempty"`
	Seed           uint64        `yaml:"seed"`
	BufferKm       float64       `yaml:"buffer-km"`
	Segments       int           `yaml:"segments"`
	LocationsFile  string        `yaml:"locations,omitempty"`
	NoBasemap      bool          `yaml:"no-basemap"`
	TileURL        string        `yaml:"tile-url"`
	TileZoom       int           `yaml:"tile-zoom"`
	BasemapTimeout time.Duration `yaml:"basemap-timeout"`
	Attribution    string        `yaml:"attribution,omitempty"`
	UserAgent      string        `yaml:"user-agent,omitempty"`
	TileTTL        time.Duration `yaml:"tile-ttl"`
	MetricsFile    string        `yaml:"metrics-file,omitempty"`
	CacheDir       string        `yaml:"cache-dir,omitempty"`
	NoCache        bool          `yaml:"no-cache"`
	RedisAddr      string        `yaml:"redis-addr,omitempty"`
	Verbose        bool          `yaml:"verbose"`

	source string
}

// addSharedFlags registers flags every command understands.
func addSharedFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "config file (default $XDG_CONFIG_HOME/santamap/config.{toml,yaml})")
	fs.BoolP(flagVerbose, "v", false, "enable verbose logging")
	fs.String(flagLocations, "", "TOML location table replacing the built-in one")
	fs.Float64(flagBufferKm, pipeline.DefaultBufferKm, "influence buffer radius in kilometres")
	fs.Int(flagSegments, pipeline.DefaultSegments, "vertices per buffer ring")
	fs.String(flagCacheDir, "", "tile cache directory (default per-user cache dir)")
	fs.Bool(flagNoCache, false, "disable the tile cache")
	fs.String(flagRedisAddr, "", "share tiles through Redis at host:port")
	fs.Duration(flagTileTTL, cache.DefaultTileTTL, "how long cached tiles stay fresh")
}

// addMapFlags registers the flags that only affect rendering.
func addMapFlags(fs *pflag.FlagSet) {
	fs.StringP(flagOutput, "o", pipeline.DefaultOutput, "output PNG path")
	fs.Int(flagWidth, pipeline.DefaultWidth, "canvas width in pixels")
	fs.Int(flagHeight, 0, "canvas height in pixels (default derived from the viewport)")
	fs.String(flagTitle, "", "title banner text")
	fs.Uint64(flagSeed, pipeline.DefaultSeed, "seed for decorative snowfall")
	fs.Bool(flagNoBasemap, false, "skip the tile basemap")
	fs.String(flagTileURL, pipeline.DefaultTileURL, "XYZ tile URL template with {z}, {x}, {y}")
	fs.Int(flagTileZoom, pipeline.DefaultTileZoom, "tile zoom level")
	fs.Duration(flagBasemapTimeout, pipeline.DefaultBasemapTimeout, "time budget for fetching the basemap")
	fs.String(flagAttribution, "", "basemap attribution text")
	fs.String(flagUserAgent, "", "User-Agent sent to the tile server (default santamap/<version>)")
	fs.String(flagMetricsFile, "", "write Prometheus metrics to this file after the run")
}

// loadConfig resolves settings with flags over SANTAMAP_* variables over
// the config file over flag defaults. A missing default config file is not
// an error; a missing explicit one is.
func loadConfig(fs *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "bind flags")
	}

	explicit, _ := fs.GetString(flagConfig)
	if explicit == "" {
		explicit = os.Getenv(envPrefix + "_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); explicit != "" || !notFound {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	return &config{
		Output:         v.GetString(flagOutput),
		Width:          v.GetInt(flagWidth),
		Height:         v.GetInt(flagHeight),
		Title:          v.GetString(flagTitle),
		Seed:           v.GetUint64(flagSeed),
		BufferKm:       v.GetFloat64(flagBufferKm),
		Segments:       v.GetInt(flagSegments),
		LocationsFile:  v.GetString(flagLocations),
		NoBasemap:      v.GetBool(flagNoBasemap),
		TileURL:        v.GetString(flagTileURL),
		TileZoom:       v.GetInt(flagTileZoom),
		BasemapTimeout: v.GetDuration(flagBasemapTimeout),
		Attribution:    v.GetString(flagAttribution),
		UserAgent:      v.GetString(flagUserAgent),
		TileTTL:        v.GetDuration(flagTileTTL),
		MetricsFile:    v.GetString(flagMetricsFile),
		CacheDir:       v.GetString(flagCacheDir),
		NoCache:        v.GetBool(flagNoCache),
		RedisAddr:      v.GetString(flagRedisAddr),
		Verbose:        v.GetBool(flagVerbose),
		source:         v.ConfigFileUsed(),
	}, nil
}

// options converts the CLI view into pipeline options.
func (c *config) options(logger *log.Logger) pipeline.Options {
	return pipeline.Options{
		Output:         c.Output,
		Width:          c.Width,
		Height:         c.Height,
		BufferKm:       c.BufferKm,
		Segments:       c.Segments,
		Title:          c.Title,
		Seed:           c.Seed,
		LocationsFile:  c.LocationsFile,
		NoBasemap:      c.NoBasemap,
		TileURL:        c.TileURL,
		TileZoom:       c.TileZoom,
		BasemapTimeout: c.BasemapTimeout,
		Attribution:    c.Attribution,
		UserAgent:      c.UserAgent,
		TileTTL:        c.TileTTL,
		Logger:         logger,
	}
}

func (c *config) cacheDir() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	return cache.DefaultDir()
}

// redisConfig namespaces every key under "santamap:".
func (c *config) redisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:        c.RedisAddr,
		Prefix:      appName + ":",
		DialTimeout: redisPingTimeout,
	}
}

// configCommand creates the "config" command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration a run would use.

Sources, highest priority first:
  1. Command-line flags
  2. Environment variables (SANTAMAP_*, e.g. SANTAMAP_BUFFER_KM)
  3. Config file ($XDG_CONFIG_HOME/santamap/config.toml or .yaml)
  4. Built-in defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			out := cmd.OutOrStdout()
			source := cfg.source
			if source == "" {
				source = "none"
			}
			fmt.Fprintln(out, StyleDim.Render("# config file: "+source))
			fmt.Fprint(out, string(data))
			return nil
		},
	}
	addMapFlags(cmd.Flags())
	return cmd
}
