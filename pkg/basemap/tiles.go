package basemap

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/santamap/pkg/geo"
)

// TileSize is the edge length of a raster tile in pixels.
const TileSize = 256

// MaxZoom is the deepest zoom level accepted.
const MaxZoom = 19

// DefaultURL is the OpenStreetMap standard tile layer.
const DefaultURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// TileRange is an inclusive block of tiles at one zoom level.
type TileRange struct {
	Zoom       int
	MinX, MaxX int
	MinY, MaxY int
}

// Count returns the number of tiles in the range.
func (r TileRange) Count() int {
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

// Bounds returns the EPSG:3857 extent covered by the whole range.
func (r TileRange) Bounds() orb.Bound {
	size := tileMeters(r.Zoom)
	e := geo.MercatorExtent
	return orb.Bound{
		Min: orb.Point{-e + float64(r.MinX)*size, e - float64(r.MaxY+1)*size},
		Max: orb.Point{-e + float64(r.MaxX+1)*size, e - float64(r.MinY)*size},
	}
}

// TilesFor returns the tiles at zoom covering a EPSG:3857 bound.
func TilesFor(merc orb.Bound, zoom int) (TileRange, error) {
	if zoom < 0 || zoom > MaxZoom {
		return TileRange{}, fmt.Errorf("zoom %d out of range [0, %d]", zoom, MaxZoom)
	}
	n := 1 << zoom
	size := tileMeters(zoom)
	e := geo.MercatorExtent

	col := func(x float64) int { return clampInt(int(math.Floor((x+e)/size)), 0, n-1) }
	row := func(y float64) int { return clampInt(int(math.Floor((e-y)/size)), 0, n-1) }

	// Max edges are exclusive: a bound ending exactly on a tile edge must
	// not pull in the next tile.
	const eps = 1e-6
	return TileRange{
		Zoom: zoom,
		MinX: col(merc.Min.X()),
		MaxX: col(merc.Max.X() - eps),
		MinY: row(merc.Max.Y()),
		MaxY: row(merc.Min.Y() + eps),
	}, nil
}

// TileURL expands the {z}, {x}, {y} placeholders of an XYZ template.
func TileURL(template string, z, x, y int) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(template)
}

// ValidateTemplate checks that template has all three placeholders.
func ValidateTemplate(template string) error {
	for _, p := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(template, p) {
			return fmt.Errorf("tile URL %q is missing %s", template, p)
		}
	}
	return nil
}

func tileMeters(zoom int) float64 {
	return 2 * geo.MercatorExtent / float64(int(1)<<zoom)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
