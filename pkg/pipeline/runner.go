package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/santamap/pkg/basemap"
	"github.com/matzehuels/santamap/pkg/cache"
	"github.com/matzehuels/santamap/pkg/errors"
	"github.com/matzehuels/santamap/pkg/features"
	"github.com/matzehuels/santamap/pkg/locations"
	"github.com/matzehuels/santamap/pkg/observability"
	"github.com/matzehuels/santamap/pkg/render/mapimg"
	"github.com/matzehuels/santamap/pkg/render/palette"
	"github.com/matzehuels/santamap/pkg/render/sink"
)

// Runner executes the pipeline with a tile cache.
//
// The Runner is stateless except for the cache, HTTP client, and logger;
// it doesn't store pipeline results.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	// HTTPClient fetches tiles. Nil uses the basemap client's default.
	HTTPClient *http.Client
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs load → enrich → basemap → render → write.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	renderer, err := mapimg.New(opts.RenderOptions())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid render options")
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	var table *locations.Table
	result.Stats.LoadTime, err = stage(ctx, observability.StageLoad, func() error {
		table, err = loadTable(opts.LocationsFile)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("loaded locations", "records", table.Len(), "source", tableSource(opts.LocationsFile), "duration", result.Stats.LoadTime)

	// Stage 2: Enrich
	result.Stats.EnrichTime, _ = stage(ctx, observability.StageEnrich, func() error {
		result.Features = features.Enrich(table, opts.FeatureOptions())
		return nil
	})
	result.Stats.FeatureCount = len(result.Features)
	warnUncolored(logger, opts.Palette, result.Features)
	logger.Info("derived geometry",
		"features", result.Stats.FeatureCount,
		"buffer_km", opts.BufferKm,
		"duration", result.Stats.EnrichTime)

	// Stage 3: Basemap (never fatal)
	layout := renderer.Layout()
	result.Stats.BasemapTime, _ = stage(ctx, observability.StageBasemap, func() error {
		result.Basemap = r.fetchBasemap(ctx, opts, logger, layout.Map.Dx(), layout.Map.Dy())
		return nil
	})
	observability.Pipeline().OnBasemap(ctx, result.Basemap.Available(), result.Basemap.Reason)
	logger.Info("basemap", "status", result.Basemap.Status(), "duration", result.Stats.BasemapTime)

	// Stage 4: Render
	var data []byte
	result.Stats.RenderTime, err = stage(ctx, observability.StageRender, func() error {
		img, err := renderer.Render(result.Features, result.Basemap)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "render map")
		}
		data, err = sink.RenderPNG(img)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Stats.Width, result.Stats.Height = layout.Canvas.Dx(), layout.Canvas.Dy()
	logger.Info("rendered map",
		"size", layout.Canvas.Size().String(),
		"bytes", len(data),
		"duration", result.Stats.RenderTime)

	// Stage 5: Write
	result.Stats.WriteTime, err = stage(ctx, observability.StageWrite, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sink.WriteFile(opts.Output, data); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", opts.Output)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Path = opts.Output
	result.Bytes = len(data)
	logger.Info("wrote image", "path", result.Path, "duration", result.Stats.WriteTime)

	return result, nil
}

func (r *Runner) fetchBasemap(ctx context.Context, opts Options, logger *log.Logger, width, height int) basemap.Layer {
	if opts.NoBasemap {
		return basemap.Unavailable("disabled")
	}

	clientOpts := []basemap.ClientOption{basemap.WithCache(r.Cache), basemap.WithTTL(opts.TileTTL)}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, basemap.WithUserAgent(opts.UserAgent))
	}
	if r.HTTPClient != nil {
		clientOpts = append(clientOpts, basemap.WithHTTPClient(r.HTTPClient))
	}
	client := basemap.NewClient(opts.TileURL, clientOpts...)
	return basemap.NewFetcher(client, opts.TileZoom, opts.BasemapTimeout, logger).Fetch(ctx, opts.Viewport, width, height)
}

// warnUncolored logs each tradition that will be drawn in the fallback color.
func warnUncolored(logger *log.Logger, p *palette.Palette, fs []features.Feature) {
	seen := make(map[string]bool)
	for _, f := range fs {
		if p.Has(f.Tradition) || seen[f.Tradition] {
			continue
		}
		seen[f.Tradition] = true
		logger.Warn("no color for tradition, using fallback", "tradition", f.Tradition, "location", f.Name)
	}
}

// stage times fn and reports it to the pipeline hooks.
func stage(ctx context.Context, name string, fn func() error) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, name, d, err)
	return d, err
}

func loadTable(path string) (*locations.Table, error) {
	if path == "" {
		return locations.Default()
	}
	return locations.Load(path)
}

func tableSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
