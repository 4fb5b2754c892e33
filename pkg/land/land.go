// Package land provides a coarse world land mask.
//
// The outlines in land.geojson are generalized to a few degrees: enough to
// read continents on a world map and to keep decorative snow off the ocean,
// not for analysis. Polygons are split at the antimeridian so every ring
// stays within [-180, 180].
//
//	mask, err := land.Default()
//	if err != nil {
//	    return err
//	}
//	mask.Contains(orb.Point{25.7, 66.5}) // Rovaniemi: true
package land

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

//go:embed land.geojson
var defaultGeoJSON []byte

// Mask is a set of land polygons in EPSG:4326.
type Mask struct {
	polygons orb.MultiPolygon
	bounds   []orb.Bound
}

var (
	defaultMask     *Mask
	defaultMaskErr  error
	defaultMaskOnce sync.Once
)

// Default returns the built-in mask, decoded on first use.
func Default() (*Mask, error) {
	defaultMaskOnce.Do(func() {
		defaultMask, defaultMaskErr = Parse(defaultGeoJSON)
	})
	return defaultMask, defaultMaskErr
}

// Parse decodes a GeoJSON FeatureCollection. Polygon and MultiPolygon
// features become land; other geometry types are rejected.
func Parse(data []byte) (*Mask, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode land: %w", err)
	}

	var mp orb.MultiPolygon
	for i, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			mp = append(mp, g)
		case orb.MultiPolygon:
			mp = append(mp, g...)
		default:
			return nil, fmt.Errorf("land feature %d: unsupported geometry %s", i, f.Geometry.GeoJSONType())
		}
	}
	if len(mp) == 0 {
		return nil, fmt.Errorf("land has no polygons")
	}
	return newMask(mp), nil
}

// newMask wraps polygons in a mask.
func newMask(mp orb.MultiPolygon) *Mask {
	m := &Mask{polygons: mp, bounds: make([]orb.Bound, len(mp))}
	for i, p := range mp {
		m.bounds[i] = p.Bound()
	}
	return m
}

// Polygons returns the land polygons. Callers must not modify them.
func (m *Mask) Polygons() orb.MultiPolygon { return m.polygons }

// Contains reports whether p (lon, lat) is on land.
func (m *Mask) Contains(p orb.Point) bool {
	for i, poly := range m.polygons {
		if m.bounds[i].Contains(p) && planar.PolygonContains(poly, p) {
			return true
		}
	}
	return false
}
