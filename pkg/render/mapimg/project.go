package mapimg

import (
	"image"
	"math"

	"github.com/paulmach/orb"

	"github.com/matzehuels/santamap/pkg/geo"
)

// projector maps EPSG:4326 coordinates to canvas pixels.
type projector struct {
	view orb.Bound // EPSG:3857
	rect image.Rectangle
	sx   float64
	sy   float64
}

func newProjector(viewport orb.Bound, rect image.Rectangle) projector {
	view := geo.MercatorBound(viewport)
	return projector{
		view: view,
		rect: rect,
		sx:   float64(rect.Dx()) / (view.Max.X() - view.Min.X()),
		sy:   float64(rect.Dy()) / (view.Max.Y() - view.Min.Y()),
	}
}

// metersPerDegree converts longitude to Web Mercator x. Longitudes outside
// [-180, 180] stay linear so unwrapped rings project continuously.
const metersPerDegree = orb.EarthRadius * math.Pi / 180

func (p projector) point(lon, lat float64) (x, y float64) {
	my := geo.ToWebMercator(orb.Point{0, lat}).Y()
	mx := lon * metersPerDegree
	x = float64(p.rect.Min.X) + (mx-p.view.Min.X())*p.sx
	y = float64(p.rect.Min.Y) + (p.view.Max.Y()-my)*p.sy
	return x, y
}

// worldWidth is the pixel width of 360 degrees of longitude.
func (p projector) worldWidth() float64 {
	return 2 * geo.MercatorExtent * p.sx
}
