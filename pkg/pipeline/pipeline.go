// Package pipeline runs the Santa map end to end.
//
// The stages run strictly in order, once each:
//
//  1. Load: decode the location table (built-in or from a file)
//  2. Enrich: derive points, buffers, and UTC offsets
//  3. Basemap: fetch tiles, or record why they are unavailable
//  4. Render: draw the map and encode it as PNG
//  5. Write: replace the output file atomically
//
// A basemap failure never fails the run. Every other stage failure is
// fatal and returned as a coded [errors.Error].
//
// # Usage
//
//	runner := pipeline.NewRunner(tileCache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Output: "map.png"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Path, result.Basemap.Status())
//
// [errors.Error]: github.com/matzehuels/santamap/pkg/errors.Error
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/santamap/pkg/basemap"
	"github.com/matzehuels/santamap/pkg/cache"
	"github.com/matzehuels/santamap/pkg/errors"
	"github.com/matzehuels/santamap/pkg/features"
	"github.com/matzehuels/santamap/pkg/geo"
	"github.com/matzehuels/santamap/pkg/render/mapimg"
	"github.com/matzehuels/santamap/pkg/render/palette"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config files
// =============================================================================

const (
	// DefaultOutput is written in the working directory.
	DefaultOutput = "santa_traditions_map.png"

	// DefaultWidth is the canvas width in pixels.
	DefaultWidth = mapimg.DefaultWidth

	// DefaultBufferKm is the decorative influence radius.
	DefaultBufferKm = geo.DefaultBufferMeters / 1000

	// DefaultSegments is the number of vertices on each buffer ring.
	DefaultSegments = geo.DefaultSegments

	// DefaultTileZoom keeps the world to a handful of tiles.
	DefaultTileZoom = basemap.DefaultZoom

	// DefaultBasemapTimeout bounds the whole tile fetch.
	DefaultBasemapTimeout = basemap.DefaultTimeout

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultTileURL is the OpenStreetMap standard layer.
	DefaultTileURL = basemap.DefaultURL

	// DefaultAttribution is required by the OpenStreetMap tile policy.
	DefaultAttribution = "Basemap © OpenStreetMap contributors"

	maxBufferKm = 5000
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
type Options struct {
	Output   string  `json:"output" yaml:"output"`
	Width    int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int     `json:"height,omitempty" yaml:"height,omitempty"` // 0 derives from viewport
	BufferKm float64 `json:"buffer_km,omitempty" yaml:"buffer_km,omitempty"`
	Segments int     `json:"segments,omitempty" yaml:"segments,omitempty"`
	Title    string  `json:"title,omitempty" yaml:"title,omitempty"`
	Seed     uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`

	// LocationsFile replaces the built-in table when set.
	LocationsFile string `json:"locations_file,omitempty" yaml:"locations_file,omitempty"`

	// Basemap options. TileZoom 0 means DefaultTileZoom.
	NoBasemap      bool          `json:"no_basemap,omitempty" yaml:"no_basemap,omitempty"`
	TileURL        string        `json:"tile_url,omitempty" yaml:"tile_url,omitempty"`
	TileZoom       int           `json:"tile_zoom,omitempty" yaml:"tile_zoom,omitempty"`
	BasemapTimeout time.Duration `json:"basemap_timeout,omitempty" yaml:"basemap_timeout,omitempty"`
	Attribution    string        `json:"attribution,omitempty" yaml:"attribution,omitempty"`
	// UserAgent identifies the client to the tile server. Empty uses
	// "santamap/<version>".
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	// TileTTL is how long cached tiles stay fresh. Zero means cache.DefaultTileTTL.
	TileTTL time.Duration `json:"tile_ttl,omitempty" yaml:"tile_ttl,omitempty"`

	// Viewport is the drawn extent in EPSG:4326.
	Viewport orb.Bound `json:"-" yaml:"-"`

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-" yaml:"-"`
	Palette *palette.Palette `json:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.BufferKm == 0 {
		o.BufferKm = DefaultBufferKm
	}
	if o.Segments == 0 {
		o.Segments = DefaultSegments
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.TileURL == "" {
		o.TileURL = DefaultTileURL
	}
	if o.TileZoom == 0 {
		o.TileZoom = DefaultTileZoom
	}
	if o.BasemapTimeout == 0 {
		o.BasemapTimeout = DefaultBasemapTimeout
	}
	if o.Attribution == "" && o.TileURL == DefaultTileURL {
		o.Attribution = DefaultAttribution
	}
	if o.Viewport.IsZero() {
		o.Viewport = geo.DefaultViewport
	}
	if o.Title == "" {
		o.Title = mapimg.DefaultTitle
	}
	if o.TileTTL == 0 {
		o.TileTTL = cache.DefaultTileTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Palette == nil {
		o.Palette = palette.Default()
	}
}

// Validate checks option ranges. Call after SetDefaults.
func (o *Options) Validate() error {
	if err := errors.ValidateOutputPath(o.Output); err != nil {
		return err
	}
	if o.BufferKm <= 0 || o.BufferKm > maxBufferKm {
		return errors.New(errors.ErrCodeInvalidInput, "buffer radius must be between 0 and %d km, got %g", maxBufferKm, o.BufferKm)
	}
	if o.Segments < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "segments must be positive, got %d", o.Segments)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", o.Width, o.Height)
	}
	if err := geo.ValidateViewport(o.Viewport); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid viewport")
	}
	if o.NoBasemap {
		return nil
	}
	if o.TileZoom < 0 || o.TileZoom > basemap.MaxZoom {
		return errors.New(errors.ErrCodeInvalidInput, "tile zoom must be between 0 and %d, got %d", basemap.MaxZoom, o.TileZoom)
	}
	if o.TileTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tile ttl must be positive, got %s", o.TileTTL)
	}
	if o.BasemapTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "basemap timeout must be positive, got %s", o.BasemapTimeout)
	}
	if err := basemap.ValidateTemplate(o.TileURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid tile URL")
	}
	return nil
}

// ValidateAndSetDefaults applies defaults then validates.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// FeatureOptions returns buffer construction options.
func (o *Options) FeatureOptions() features.Options {
	return features.Options{RadiusMeters: o.BufferKm * 1000, Segments: o.Segments}
}

// RenderOptions returns renderer options.
func (o *Options) RenderOptions() mapimg.Options {
	return mapimg.Options{
		Width:       o.Width,
		Height:      o.Height,
		Viewport:    o.Viewport,
		Title:       o.Title,
		Footer:      mapimg.DefaultFooter(o.BufferKm),
		Seed:        o.Seed,
		Palette:     o.Palette,
		Attribution: o.Attribution,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and metrics.
	RunID string
	// Path is the written image file.
	Path string
	// Bytes is the size of the written PNG.
	Bytes    int
	Features []features.Feature
	Basemap  basemap.Layer
	Stats    Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FeatureCount int
	Width        int
	Height       int
	LoadTime     time.Duration
	EnrichTime   time.Duration
	BasemapTime  time.Duration
	RenderTime   time.Duration
	WriteTime    time.Duration
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.LoadTime + s.EnrichTime + s.BasemapTime + s.RenderTime + s.WriteTime
}
