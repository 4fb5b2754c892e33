package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// DefaultBufferMeters is the decorative influence radius around each figure.
const DefaultBufferMeters = 300_000.0

// DefaultSegments is the number of vertices used to approximate a buffer.
const DefaultSegments = 64

// minSegments keeps very coarse requests from degenerating into a triangle.
const minSegments = 8

// Buffer returns a polygon approximating a disk of radiusMeters around
// center. The disk is built in an azimuthal-equidistant projection centered
// on the point and reprojected to EPSG:4326. The ring is closed (first
// vertex repeated) and wound counter-clockwise in projected space.
func Buffer(center orb.Point, radiusMeters float64, segments int) orb.Polygon {
	if segments < minSegments {
		segments = minSegments
	}
	fwd, inv := AzimuthalEquidistant(center)
	origin := fwd(center)

	ring := make(orb.Ring, 0, segments+1)
	for i := range segments {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		sin, cos := math.Sincos(theta)
		ring = append(ring, inv(orb.Point{
			origin.X() + radiusMeters*cos,
			origin.Y() + radiusMeters*sin,
		}))
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// CrossesAntimeridian reports whether consecutive ring vertices jump by more
// than 180° of longitude, which happens for buffers wrapped around ±180° or
// enclosing a pole.
func CrossesAntimeridian(poly orb.Polygon) bool {
	for _, ring := range poly {
		for i := 1; i < len(ring); i++ {
			if math.Abs(ring[i].Lon()-ring[i-1].Lon()) > 180 {
				return true
			}
		}
	}
	return false
}

// Unwrap shifts ring longitudes so consecutive vertices never jump by more
// than 180°. The result may extend past ±180°, which keeps a wrapped buffer
// drawable as a single shape.
func Unwrap(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		r := make(orb.Ring, len(ring))
		copy(r, ring)
		for j := 1; j < len(r); j++ {
			d := r[j].Lon() - r[j-1].Lon()
			switch {
			case d > 180:
				r[j][0] -= 360 * math.Ceil((d-180)/360)
			case d < -180:
				r[j][0] += 360 * math.Ceil((-d-180)/360)
			}
		}
		out[i] = r
	}
	return out
}
