// Package render groups the map drawing packages.
//
//   - [palette]: tradition colors and the fallback color
//   - [mapimg]: the raster map renderer (basemap, land, buffers, markers, labels, legend)
//   - [sink]: PNG encoding and atomic file output
//
// Rendering is pure: given the same features, basemap layer, and options,
// the produced image is identical.
//
// [palette]: github.com/matzehuels/santamap/pkg/render/palette
// [mapimg]: github.com/matzehuels/santamap/pkg/render/mapimg
// [sink]: github.com/matzehuels/santamap/pkg/render/sink
package render
