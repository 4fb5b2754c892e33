// Package features joins location records with their derived geometry and
// time-zone attributes.
//
// A [Feature] is what the renderer consumes: the authored record, its point,
// the buffer polygon approximating the influence radius, and the UTC offset
// derived from longitude. Features are built in one pass by [Enrich] and are
// not modified afterwards.
package features

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/santamap/pkg/geo"
	"github.com/matzehuels/santamap/pkg/locations"
)

// Feature is a location record enriched with derived attributes.
type Feature struct {
	locations.Record

	Point         orb.Point
	Buffer        orb.Polygon
	UTCOffset     int
	TimezoneLabel string
}

// Label is the marker caption, e.g. "Père Noël · UTC+1".
func (f Feature) Label() string {
	return fmt.Sprintf("%s · %s", f.Name, f.TimezoneLabel)
}

// Options controls buffer construction.
type Options struct {
	RadiusMeters float64
	Segments     int
}

func (o *Options) setDefaults() {
	if o.RadiusMeters <= 0 {
		o.RadiusMeters = geo.DefaultBufferMeters
	}
	if o.Segments <= 0 {
		o.Segments = geo.DefaultSegments
	}
}

// Enrich builds one Feature per record, in table order.
func Enrich(table *locations.Table, opts Options) []Feature {
	opts.setDefaults()

	records := table.Records()
	out := make([]Feature, 0, len(records))
	for _, r := range records {
		out = append(out, enrich(r, opts))
	}
	return out
}

func enrich(r locations.Record, opts Options) Feature {
	p := orb.Point{r.Longitude, r.Latitude}
	offset := geo.UTCOffset(r.Longitude)
	return Feature{
		Record:        r,
		Point:         p,
		Buffer:        geo.Buffer(p, opts.RadiusMeters, opts.Segments),
		UTCOffset:     offset,
		TimezoneLabel: geo.TimezoneLabel(offset),
	}
}
