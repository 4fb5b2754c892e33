// Package basemap fetches XYZ raster tiles and stitches them into a single
// background image for the map.
//
// The basemap is optional decoration. [Fetcher.Fetch] never returns an
// error: any failure (network, timeout, bad status, undecodable tile)
// produces a [Layer] that reports itself unavailable, and the map is drawn
// without it.
//
// Tiles are fetched one at a time, each attempted once, behind a rate
// limiter, and stored in a [cache.Cache] so repeated runs do not hit the
// tile server again.
package basemap
