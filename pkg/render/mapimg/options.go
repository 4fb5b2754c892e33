package mapimg

import (
	"fmt"
	"image"
	"math"

	"github.com/paulmach/orb"

	"github.com/matzehuels/santamap/pkg/geo"
	"github.com/matzehuels/santamap/pkg/land"
	"github.com/matzehuels/santamap/pkg/render/palette"
)

const (
	DefaultWidth      = 1600
	DefaultTitle      = "Holiday Santa Traditions Map (Fairy-tale edition)"
	DefaultSnowflakes = 1400
	DefaultSeed       = 42

	minWidth = 320
	maxSide  = 8000

	// referenceWidth is the canvas width at which one point equals
	// referenceScale pixels. Everything text-sized scales with width.
	referenceWidth = 1600.0
	referenceScale = 1.45
)

// Options configures a render.
type Options struct {
	Width int
	// Height of the whole canvas. Zero derives it from the viewport aspect.
	Height     int
	Viewport   orb.Bound
	Title      string
	Footer     string
	Seed       uint64
	Snowflakes int
	Palette    *palette.Palette
	// Land is drawn under the buffers and holds the snow. Nil uses land.Default.
	Land *land.Mask
	// Attribution is printed in the footer when a basemap is drawn.
	Attribution string
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Viewport.IsZero() {
		o.Viewport = geo.DefaultViewport
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Snowflakes == 0 {
		o.Snowflakes = DefaultSnowflakes
	}
	if o.Palette == nil {
		o.Palette = palette.Default()
	}
}

// Validate checks option ranges after SetDefaults.
func (o Options) Validate() error {
	if o.Width < minWidth || o.Width > maxSide {
		return fmt.Errorf("width must be between %d and %d, got %d", minWidth, maxSide, o.Width)
	}
	if o.Height != 0 && o.Height > maxSide {
		return fmt.Errorf("height must be at most %d, got %d", maxSide, o.Height)
	}
	if err := geo.ValidateViewport(o.Viewport); err != nil {
		return err
	}
	if o.Snowflakes < 0 {
		return fmt.Errorf("snowflakes must be >= 0, got %d", o.Snowflakes)
	}
	l := o.Layout()
	if l.Map.Dy() < 50 {
		return fmt.Errorf("height %d leaves no room for the map", o.Height)
	}
	return nil
}

// Layout is the pixel geometry of a canvas.
type Layout struct {
	Canvas image.Rectangle
	// Map is where the viewport is drawn; title and footer bands surround it.
	Map   image.Rectangle
	Scale float64
}

// Layout computes canvas geometry. Call after SetDefaults.
func (o Options) Layout() Layout {
	scale := float64(o.Width) / referenceWidth * referenceScale
	header := int(math.Round(44 * scale))
	footer := int(math.Round(22 * scale))

	height := o.Height
	if height == 0 {
		height = header + int(math.Round(float64(o.Width)*geo.AspectRatio(o.Viewport))) + footer
	}
	return Layout{
		Canvas: image.Rect(0, 0, o.Width, height),
		Map:    image.Rect(0, header, o.Width, height-footer),
		Scale:  scale,
	}
}
