package mapimg

import (
	"math"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/matzehuels/santamap/pkg/features"
	"github.com/matzehuels/santamap/pkg/geo"
	"github.com/matzehuels/santamap/pkg/render/palette"
)

const bufferAlpha = 0.18

var hatRed = palette.WithAlpha(mustHex("#db1f29"), 1)

// drawBuffer fills the buffer ring. Rings crossing the antimeridian are
// unwrapped and drawn once more shifted by a full world width so both
// halves appear.
func (r *Renderer) drawBuffer(dc *gg.Context, p projector, f features.Feature) {
	c := r.opts.Palette.Color(f.Tradition)
	ring := geo.Unwrap(f.Buffer)[0]

	shifts := []float64{0}
	bound := ring.Bound()
	if bound.Max.Lon() > 180 {
		shifts = append(shifts, -p.worldWidth())
	}
	if bound.Min.Lon() < -180 {
		shifts = append(shifts, p.worldWidth())
	}

	for _, dx := range shifts {
		tracePolygon(dc, p, ring, dx)
		dc.SetColor(palette.WithAlpha(c, bufferAlpha))
		dc.FillPreserve()
		dc.SetColor(palette.WithAlpha(palette.Darken(c, 0.15), 0.5))
		dc.SetLineWidth(math.Max(1, 0.8*r.layout.Scale))
		dc.Stroke()
	}
}

func tracePolygon(dc *gg.Context, p projector, ring orb.Ring, dx float64) {
	dc.NewSubPath()
	for i, v := range ring {
		x, y := p.point(v.Lon(), v.Lat())
		if i == 0 {
			dc.MoveTo(x+dx, y)
			continue
		}
		dc.LineTo(x+dx, y)
	}
	dc.ClosePath()
}

// drawMarker draws a Christmas bauble: glow, body with white rim, cap, and
// a shine highlight.
func (r *Renderer) drawMarker(dc *gg.Context, p projector, f features.Feature) {
	s := r.layout.Scale
	c := r.opts.Palette.Color(f.Tradition)
	x, y := p.point(f.Point.Lon(), f.Point.Lat())

	dc.SetColor(palette.WithAlpha(c, 0.20))
	dc.DrawCircle(x, y, 9*s)
	dc.Fill()

	dc.SetColor(palette.WithAlpha(palette.Lighten(c, 0.35), 1))
	dc.DrawRectangle(x-1.6*s, y-6.6*s, 3.2*s, 2*s)
	dc.Fill()

	dc.DrawCircle(x, y, 5*s)
	dc.SetColor(palette.WithAlpha(c, 0.98))
	dc.FillPreserve()
	dc.SetRGBA(1, 1, 1, 1)
	dc.SetLineWidth(math.Max(1, 0.9*s))
	dc.Stroke()

	dc.SetRGBA(1, 1, 1, 0.65)
	dc.DrawCircle(x-1.6*s, y-1.6*s, 1.4*s)
	dc.Fill()
}

// drawHat puts a Santa hat just above the marker: red cone, white brim,
// pom-pom.
func (r *Renderer) drawHat(dc *gg.Context, p projector, f features.Feature) {
	s := 11 * r.layout.Scale
	px, py := p.point(f.Point.Lon(), f.Point.Lat())
	x0, y0 := px, py-7*r.layout.Scale-0.3*s

	dc.MoveTo(x0-0.55*s, y0+0.10*s)
	dc.LineTo(x0+0.55*s, y0+0.10*s)
	dc.LineTo(x0+0.10*s, y0-0.95*s)
	dc.ClosePath()
	dc.SetColor(hatRed)
	dc.FillPreserve()
	dc.SetRGBA(1, 1, 1, 1)
	dc.SetLineWidth(math.Max(0.8, 0.5*r.layout.Scale))
	dc.Stroke()

	dc.SetRGBA(1, 1, 1, 1)
	dc.DrawRoundedRectangle(x0-0.62*s, y0+0.02*s, 1.24*s, 0.26*s, 0.12*s)
	dc.Fill()

	dc.DrawCircle(x0+0.15*s, y0-0.93*s, 0.16*s)
	dc.Fill()
}
