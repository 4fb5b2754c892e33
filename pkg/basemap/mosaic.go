package basemap

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/paulmach/orb"
)

// Mosaic fetches every tile in r and pastes them into one image.
// The first failing tile aborts the mosaic. Ranges above maxTiles are
// rejected before anything is allocated.
func Mosaic(ctx context.Context, c *Client, r TileRange) (*image.NRGBA, error) {
	if n := r.Count(); n <= 0 || n > maxTiles {
		return nil, fmt.Errorf("mosaic of %d tiles outside 1..%d", n, maxTiles)
	}
	cols := r.MaxX - r.MinX + 1
	rows := r.MaxY - r.MinY + 1
	dst := imaging.New(cols*TileSize, rows*TileSize, color.Transparent)

	for ty := r.MinY; ty <= r.MaxY; ty++ {
		for tx := r.MinX; tx <= r.MaxX; tx++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			data, err := c.Tile(ctx, r.Zoom, tx, ty)
			if err != nil {
				return nil, fmt.Errorf("tile %d/%d/%d: %w", r.Zoom, tx, ty, err)
			}
			tile, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("decode tile %d/%d/%d: %w", r.Zoom, tx, ty, err)
			}
			if b := tile.Bounds(); b.Dx() != TileSize || b.Dy() != TileSize {
				tile = imaging.Resize(tile, TileSize, TileSize, imaging.Lanczos)
			}
			pos := image.Pt((tx-r.MinX)*TileSize, (ty-r.MinY)*TileSize)
			dst = imaging.Paste(dst, tile, pos)
		}
	}
	return dst, nil
}

// Fit crops a mosaic covering mosaicBounds down to view and resamples it to
// width × height pixels. Both bounds are EPSG:3857.
func Fit(mosaic image.Image, mosaicBounds, view orb.Bound, width, height int) (*image.NRGBA, error) {
	mw := mosaicBounds.Max.X() - mosaicBounds.Min.X()
	mh := mosaicBounds.Max.Y() - mosaicBounds.Min.Y()
	if mw <= 0 || mh <= 0 {
		return nil, fmt.Errorf("empty mosaic bounds")
	}

	size := mosaic.Bounds().Size()
	sx := float64(size.X) / mw
	sy := float64(size.Y) / mh

	crop := image.Rect(
		int(math.Floor((view.Min.X()-mosaicBounds.Min.X())*sx)),
		int(math.Floor((mosaicBounds.Max.Y()-view.Max.Y())*sy)),
		int(math.Ceil((view.Max.X()-mosaicBounds.Min.X())*sx)),
		int(math.Ceil((mosaicBounds.Max.Y()-view.Min.Y())*sy)),
	).Intersect(image.Rect(0, 0, size.X, size.Y))
	if crop.Empty() {
		return nil, fmt.Errorf("viewport does not overlap the mosaic")
	}

	return imaging.Resize(imaging.Crop(mosaic, crop), width, height, imaging.Lanczos), nil
}
