package basemap

import (
	"image"

	"github.com/paulmach/orb"
)

// Layer is the outcome of a basemap fetch.
type Layer struct {
	// Image covers Bounds exactly, already resampled to the canvas size.
	Image image.Image
	// Bounds is the covered extent in EPSG:3857 meters.
	Bounds orb.Bound
	Zoom   int
	Tiles  int
	// Reason explains why the layer is unavailable. Empty when available.
	Reason string
}

// Unavailable returns a layer that will not be drawn.
func Unavailable(reason string) Layer {
	return Layer{Reason: reason}
}

// Available reports whether the layer has an image to draw.
func (l Layer) Available() bool {
	return l.Image != nil
}

// Status is a short human description for logs and summaries.
func (l Layer) Status() string {
	if l.Available() {
		return "available"
	}
	if l.Reason == "" {
		return "unavailable"
	}
	return "unavailable: " + l.Reason
}
