package basemap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/santamap/pkg/cache"
	"github.com/matzehuels/santamap/pkg/geo"
)

// DefaultZoom is coarse on purpose: zoom 2 needs at most 16 tiles for the world.
const DefaultZoom = 2

// DefaultTimeout bounds the whole fetch, not a single tile.
const DefaultTimeout = 10 * time.Second

// maxTiles caps one mosaic at 2048 × 2048 pixels. The world needs 64 tiles
// at zoom 3, so deeper zooms only fit small viewports.
const maxTiles = 64

// Fetcher turns a viewport into a basemap Layer.
type Fetcher struct {
	Client  *Client
	Zoom    int
	Timeout time.Duration
	Logger  *log.Logger
}

// NewFetcher creates a fetcher. A zero timeout takes DefaultTimeout.
func NewFetcher(client *Client, zoom int, timeout time.Duration, logger *log.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{Client: client, Zoom: zoom, Timeout: timeout, Logger: logger}
}

// Fetch builds the basemap for a geographic viewport at width × height
// pixels. Failures are logged and reported through Layer.Reason.
func (f *Fetcher) Fetch(ctx context.Context, viewport orb.Bound, width, height int) Layer {
	layer, err := f.fetch(ctx, viewport, width, height)
	if err != nil {
		reason := describe(err)
		f.Logger.Warn("basemap unavailable, drawing without it", "reason", reason)
		return Unavailable(reason)
	}
	f.Logger.Debug("basemap ready", "zoom", layer.Zoom, "tiles", layer.Tiles)
	return layer
}

func (f *Fetcher) fetch(ctx context.Context, viewport orb.Bound, width, height int) (Layer, error) {
	if f.Client == nil {
		return Layer{}, errors.New("no tile client configured")
	}
	if err := ValidateTemplate(f.Client.Template()); err != nil {
		return Layer{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	view := geo.MercatorBound(viewport)
	r, err := TilesFor(view, f.Zoom)
	if err != nil {
		return Layer{}, err
	}
	if n := r.Count(); n > maxTiles {
		return Layer{}, fmt.Errorf("zoom %d needs %d tiles for this viewport, limit is %d", r.Zoom, n, maxTiles)
	}

	f.Logger.Debug("fetching basemap tiles", "zoom", r.Zoom, "tiles", r.Count())
	mosaic, err := Mosaic(ctx, f.Client, r)
	if err != nil {
		return Layer{}, err
	}

	img, err := Fit(mosaic, r.Bounds(), view, width, height)
	if err != nil {
		return Layer{}, err
	}
	return Layer{Image: img, Bounds: view, Zoom: r.Zoom, Tiles: r.Count()}, nil
}

func describe(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out fetching tiles"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, cache.ErrNotFound):
		return "tile not found: " + err.Error()
	}
	return err.Error()
}
