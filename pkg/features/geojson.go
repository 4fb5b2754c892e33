package features

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Kind values for the "kind" property of exported features.
const (
	KindPoint  = "point"
	KindBuffer = "buffer"
)

// GeoJSON returns a collection holding each feature twice: once as its
// point and once as its buffer polygon. Both carry the same properties.
func GeoJSON(fs []Feature) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range fs {
		fc.Append(newGeoJSONFeature(f, f.Point, KindPoint))
		fc.Append(newGeoJSONFeature(f, f.Buffer, KindBuffer))
	}
	return fc
}

func newGeoJSONFeature(f Feature, g orb.Geometry, kind string) *geojson.Feature {
	gf := geojson.NewFeature(g)
	gf.Properties["kind"] = kind
	gf.Properties["name"] = f.Name
	gf.Properties["tradition"] = f.Tradition
	gf.Properties["place"] = f.Place
	gf.Properties["utc_offset"] = f.UTCOffset
	gf.Properties["timezone"] = f.TimezoneLabel
	if f.Description != "" {
		gf.Properties["description"] = f.Description
	}
	return gf
}
