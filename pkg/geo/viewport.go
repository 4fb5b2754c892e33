package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// DefaultViewport is the drawn extent in EPSG:4326: all longitudes,
// latitude -60 to 80. Antarctica and the high Arctic are left out.
var DefaultViewport = orb.Bound{Min: orb.Point{-180, -60}, Max: orb.Point{180, 80}}

// MercatorBound projects a geographic bound to EPSG:3857.
func MercatorBound(b orb.Bound) orb.Bound {
	return orb.Bound{Min: ToWebMercator(b.Min), Max: ToWebMercator(b.Max)}
}

// AspectRatio returns height/width of the viewport as drawn in Web Mercator.
func AspectRatio(b orb.Bound) float64 {
	m := MercatorBound(b)
	w := m.Max.X() - m.Min.X()
	if w <= 0 {
		return 0
	}
	return (m.Max.Y() - m.Min.Y()) / w
}

// ValidateViewport checks that b is a non-empty geographic extent.
func ValidateViewport(b orb.Bound) error {
	switch {
	case b.Min.Lon() < -180 || b.Max.Lon() > 180:
		return fmt.Errorf("viewport longitude must be within [-180, 180], got [%g, %g]", b.Min.Lon(), b.Max.Lon())
	case b.Min.Lat() < -90 || b.Max.Lat() > 90:
		return fmt.Errorf("viewport latitude must be within [-90, 90], got [%g, %g]", b.Min.Lat(), b.Max.Lat())
	case b.Min.Lon() >= b.Max.Lon() || b.Min.Lat() >= b.Max.Lat():
		return fmt.Errorf("viewport is empty")
	}
	return nil
}
