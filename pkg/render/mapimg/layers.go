package mapimg

import (
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/matzehuels/santamap/pkg/basemap"
)

func (r *Renderer) drawBackground(dc *gg.Context) {
	l := r.layout
	sky := gg.NewLinearGradient(0, 0, 0, float64(l.Canvas.Dy()))
	sky.AddColorStop(0, nightSky)
	sky.AddColorStop(1, nightHaze)
	dc.SetFillStyle(sky)
	dc.DrawRectangle(0, 0, float64(l.Canvas.Dx()), float64(l.Canvas.Dy()))
	dc.Fill()

	dc.SetColor(oceanColor)
	dc.DrawRectangle(float64(l.Map.Min.X), float64(l.Map.Min.Y), float64(l.Map.Dx()), float64(l.Map.Dy()))
	dc.Fill()
}

// drawBasemap paints the tiles muted so markers stay readable, then washes
// them with the ocean color to match the night palette.
func (r *Renderer) drawBasemap(dc *gg.Context, layer basemap.Layer) {
	m := r.layout.Map
	img := imaging.AdjustSaturation(layer.Image, -45)
	img = imaging.AdjustBrightness(img, -6)
	if b := img.Bounds(); b.Dx() != m.Dx() || b.Dy() != m.Dy() {
		img = imaging.Resize(img, m.Dx(), m.Dy(), imaging.Lanczos)
	}
	dc.DrawImage(img, m.Min.X, m.Min.Y)

	dc.SetRGBA(36/255.0, 87/255.0, 122/255.0, 0.22)
	dc.DrawRectangle(float64(m.Min.X), float64(m.Min.Y), float64(m.Dx()), float64(m.Dy()))
	dc.Fill()
}

// drawGraticule stands in for the basemap: meridians and parallels every 30°.
// Land drawn afterwards hides it, so it only shows over the ocean.
func (r *Renderer) drawGraticule(dc *gg.Context, p projector) {
	vp := r.opts.Viewport
	dc.SetRGBA(1, 1, 1, 0.08)
	dc.SetLineWidth(math.Max(1, 0.6*r.layout.Scale))

	for lon := math.Ceil(vp.Min.Lon()/30) * 30; lon <= vp.Max.Lon(); lon += 30 {
		x0, y0 := p.point(lon, vp.Max.Lat())
		x1, y1 := p.point(lon, vp.Min.Lat())
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}
	for lat := math.Ceil(vp.Min.Lat()/30) * 30; lat <= vp.Max.Lat(); lat += 30 {
		x0, y0 := p.point(vp.Min.Lon(), lat)
		x1, y1 := p.point(vp.Max.Lon(), lat)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}

	// equator a touch brighter
	if vp.Min.Lat() < 0 && vp.Max.Lat() > 0 {
		dc.SetRGBA(1, 1, 1, 0.14)
		x0, y0 := p.point(vp.Min.Lon(), 0)
		x1, y1 := p.point(vp.Max.Lon(), 0)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}
}

// drawLand traces every land polygon. Without a basemap the land is filled
// snow white; over tiles only the coastline is drawn.
func (r *Renderer) drawLand(dc *gg.Context, p projector, fill bool) {
	dc.SetLineWidth(math.Max(1, 0.8*r.layout.Scale))
	for _, poly := range r.opts.Land.Polygons() {
		for _, ring := range poly {
			tracePolygon(dc, p, ring, 0)
		}
		if fill {
			dc.SetColor(landColor)
			dc.FillPreserve()
		}
		dc.SetColor(coastColor)
		dc.Stroke()
	}
}

// snowMaxLat keeps flakes off the stretched polar rows of the projection.
const snowMaxLat = 85

// drawSnow scatters snowflakes over land. Positions are rejection sampled
// in lon/lat, so a viewport with little land gets fewer flakes rather than
// an endless loop. Large flakes get six arms; small ones are dots.
func (r *Renderer) drawSnow(dc *gg.Context, p projector, rng *rand.Rand) {
	vp := r.opts.Viewport
	minLon, maxLon := vp.Min.Lon(), vp.Max.Lon()
	minLat, maxLat := vp.Min.Lat(), math.Min(vp.Max.Lat(), snowMaxLat)
	if maxLat <= minLat {
		return
	}
	s := r.layout.Scale

	placed := 0
	for tries := 0; placed < r.opts.Snowflakes && tries < r.opts.Snowflakes*60; tries++ {
		pt := orb.Point{
			minLon + rng.Float64()*(maxLon-minLon),
			minLat + rng.Float64()*(maxLat-minLat),
		}
		if !r.opts.Land.Contains(pt) {
			continue
		}
		placed++

		x, y := p.point(pt.Lon(), pt.Lat())
		size := (1.2 + rng.Float64()*3.6) * s
		alpha := 0.08 + rng.Float64()*0.14
		rot := rng.Float64() * math.Pi / 3

		dc.SetRGBA(0.80, 0.92, 1.0, alpha)
		if size < 2.5*s {
			dc.DrawCircle(x, y, size/2)
			dc.Fill()
			continue
		}
		dc.SetLineWidth(math.Max(0.8, 0.5*s))
		for arm := range 6 {
			a := rot + float64(arm)*math.Pi/3
			dc.DrawLine(x, y, x+size*math.Cos(a), y+size*math.Sin(a))
		}
		dc.Stroke()
	}
}
