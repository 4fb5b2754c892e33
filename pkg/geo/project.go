package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// MaxMercatorLatitude is the latitude at which Web Mercator becomes square.
// Latitudes beyond it are clamped before projection.
const MaxMercatorLatitude = 85.05112878

// MercatorExtent is the half-width of the EPSG:3857 world in meters.
const MercatorExtent = 20037508.342789244

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// AzimuthalEquidistant returns the forward and inverse spherical
// azimuthal-equidistant projections centered on center (lon, lat in degrees).
// Projected coordinates are meters east/north of the center.
func AzimuthalEquidistant(center orb.Point) (fwd, inv orb.Projection) {
	lon0 := center.Lon() * deg2rad
	lat0 := center.Lat() * deg2rad
	sinLat0, cosLat0 := math.Sincos(lat0)
	r := orb.EarthRadius

	fwd = func(p orb.Point) orb.Point {
		lon := p.Lon() * deg2rad
		lat := p.Lat() * deg2rad
		sinLat, cosLat := math.Sincos(lat)
		sinDLon, cosDLon := math.Sincos(lon - lon0)

		cosC := sinLat0*sinLat + cosLat0*cosLat*cosDLon
		cosC = math.Max(-1, math.Min(1, cosC))
		c := math.Acos(cosC)

		k := 1.0
		if s := math.Sin(c); s > 1e-12 {
			k = c / s
		}
		return orb.Point{
			r * k * cosLat * sinDLon,
			r * k * (cosLat0*sinLat - sinLat0*cosLat*cosDLon),
		}
	}

	inv = func(p orb.Point) orb.Point {
		x, y := p.X(), p.Y()
		rho := math.Hypot(x, y)
		if rho < 1e-9 {
			return center
		}
		c := rho / r
		sinC, cosC := math.Sincos(c)

		lat := math.Asin(math.Max(-1, math.Min(1, cosC*sinLat0+y*sinC*cosLat0/rho)))
		lon := lon0 + math.Atan2(x*sinC, rho*cosLat0*cosC-y*sinLat0*sinC)
		return orb.Point{normalizeLon(lon * rad2deg), lat * rad2deg}
	}
	return fwd, inv
}

// ToWebMercator projects a single EPSG:4326 point to EPSG:3857 meters.
// Latitude is clamped to ±MaxMercatorLatitude so polar vertices stay finite.
func ToWebMercator(p orb.Point) orb.Point {
	lat := math.Max(-MaxMercatorLatitude, math.Min(MaxMercatorLatitude, p.Lat()))
	return project.Point(orb.Point{p.Lon(), lat}, project.WGS84.ToMercator)
}

// FromWebMercator converts EPSG:3857 meters back to EPSG:4326 degrees.
func FromWebMercator(p orb.Point) orb.Point {
	return project.Point(p, project.Mercator.ToWGS84)
}

// PolygonToWebMercator returns a projected copy of poly; the input is not
// modified.
func PolygonToWebMercator(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		pr := make(orb.Ring, len(ring))
		for j, p := range ring {
			pr[j] = ToWebMercator(p)
		}
		out[i] = pr
	}
	return out
}

// normalizeLon wraps a longitude into [-180, 180].
func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
