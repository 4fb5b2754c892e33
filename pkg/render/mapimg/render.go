package mapimg

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/santamap/pkg/basemap"
	"github.com/matzehuels/santamap/pkg/features"
	"github.com/matzehuels/santamap/pkg/fonts"
	"github.com/matzehuels/santamap/pkg/land"
)

var (
	nightSky   = color.NRGBA{R: 15, G: 20, B: 36, A: 255}
	nightHaze  = color.NRGBA{R: 28, G: 36, B: 60, A: 255}
	oceanColor = color.NRGBA{R: 36, G: 87, B: 122, A: 242}
	inkColor   = color.NRGBA{R: 13, G: 20, B: 31, A: 255}
	landColor  = color.NRGBA{R: 250, G: 250, B: 247, A: 250}
	coastColor = color.NRGBA{R: 153, G: 173, B: 184, A: 255}
)

// Renderer draws features onto a canvas. It holds no per-render state and
// can be reused.
type Renderer struct {
	opts   Options
	layout Layout
	faces  faces
}

type faces struct {
	title, label, place, legend, legendTitle, footer font.Face
}

// New validates opts and loads fonts and, unless opts.Land is set, the
// built-in land mask.
func New(opts Options) (*Renderer, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Land == nil {
		mask, err := land.Default()
		if err != nil {
			return nil, fmt.Errorf("load land: %w", err)
		}
		opts.Land = mask
	}
	l := opts.Layout()

	r := &Renderer{opts: opts, layout: l}
	specs := []struct {
		dst   *font.Face
		style fonts.Style
		pt    float64
	}{
		{&r.faces.title, fonts.Bold, 20},
		{&r.faces.label, fonts.Bold, 9.2},
		{&r.faces.place, fonts.Regular, 8.4},
		{&r.faces.legend, fonts.Regular, 10.5},
		{&r.faces.legendTitle, fonts.Bold, 11.5},
		{&r.faces.footer, fonts.Italic, 8.5},
	}
	for _, s := range specs {
		f, err := fonts.Face(s.style, s.pt*l.Scale)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		*s.dst = f
	}
	return r, nil
}

// Layout returns the canvas geometry.
func (r *Renderer) Layout() Layout { return r.layout }

// Render draws the map. The basemap layer is drawn only when available.
func (r *Renderer) Render(fs []features.Feature, layer basemap.Layer) (image.Image, error) {
	for _, f := range fs {
		if len(f.Buffer) == 0 || len(f.Buffer[0]) < 4 {
			return nil, fmt.Errorf("feature %q has no buffer ring", f.Name)
		}
	}

	l := r.layout
	dc := gg.NewContext(l.Canvas.Dx(), l.Canvas.Dy())
	proj := newProjector(r.opts.Viewport, l.Map)

	r.drawBackground(dc)
	if layer.Available() {
		r.drawBasemap(dc, layer)
	} else {
		r.drawGraticule(dc, proj)
	}
	r.drawLand(dc, proj, !layer.Available())
	r.drawSnow(dc, proj, rand.New(rand.NewPCG(r.opts.Seed, r.opts.Seed^0x5a17a)))

	dc.Push()
	dc.DrawRectangle(float64(l.Map.Min.X), float64(l.Map.Min.Y), float64(l.Map.Dx()), float64(l.Map.Dy()))
	dc.Clip()
	for _, f := range fs {
		r.drawBuffer(dc, proj, f)
	}
	for _, f := range fs {
		r.drawMarker(dc, proj, f)
	}
	for _, f := range fs {
		if f.Hat {
			r.drawHat(dc, proj, f)
		}
	}
	for i, f := range fs {
		r.drawLabel(dc, proj, i, f)
	}
	dc.Pop()

	r.drawLegend(dc, fs)
	r.drawTitle(dc)
	r.drawFooter(dc, layer.Available())

	return dc.Image(), nil
}
