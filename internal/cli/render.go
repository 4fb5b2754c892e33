package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/santamap/pkg/observability"
	"github.com/matzehuels/santamap/pkg/pipeline"
)

// mapCommand creates the root command, which renders the map.
func (c *CLI) mapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Render the holiday Santa traditions map",
		Long: `Render a fairy-tale world map of gift-bringer traditions.

Each Santa figure is drawn as a bauble with a 300 km influence buffer,
colored by tradition and labelled with its approximate UTC offset.
An OpenStreetMap basemap is used when reachable; without network access
the map is still produced on a plain background.`,
		Example: `  santamap
  santamap -o christmas.png --width 2400
  santamap --no-basemap --buffer-km 500
  SANTAMAP_TILE_ZOOM=3 santamap`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose, _ := cmd.Flags().GetBool(flagVerbose); verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Verbose {
				c.SetLogLevel(LogDebug)
			}
			_, err = c.runMap(cmd.Context(), cfg)
			return err
		},
	}

	addSharedFlags(cmd.PersistentFlags())
	addMapFlags(cmd.Flags())
	cmd.AddCommand(c.configCommand())

	return cmd
}

// runMap executes the pipeline and prints a summary.
func (c *CLI) runMap(ctx context.Context, cfg *config) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)

	var metrics *observability.Prometheus
	if cfg.MetricsFile != "" {
		metrics = observability.NewPrometheus()
		metrics.Install()
		defer observability.Reset()
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, cfg.options(logger))

	// Metrics are written for failed runs too.
	if metrics != nil {
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Warn("could not write metrics", "path", cfg.MetricsFile, "err", werr)
		} else {
			logger.Debug("wrote metrics", "path", cfg.MetricsFile)
		}
	}
	if err != nil {
		return nil, err
	}
	prog.done("Map complete")

	printSummary(result)
	return result, nil
}

// printSummary prints the run outcome to stdout.
func printSummary(r *pipeline.Result) {
	printSuccess("Placed %d Santa figures", r.Stats.FeatureCount)
	printFile(r.Path)
	printKeyValue("Size", fmt.Sprintf("%dx%d, %s", r.Stats.Width, r.Stats.Height, formatBytes(r.Bytes)))
	if r.Basemap.Available() {
		printKeyValue("Basemap", StyleSuccess.Render(r.Basemap.Status()))
	} else {
		printKeyValue("Basemap", StyleWarning.Render(r.Basemap.Status()))
	}
	printKeyValue("Run", r.RunID)
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
