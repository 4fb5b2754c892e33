// Package mapimg draws the Santa traditions map as a raster image.
//
// Everything is projected to Web Mercator (EPSG:3857) and fitted to the
// configured viewport. Layers are painted back to front:
//
//  1. night-sky background and ocean fill
//  2. basemap tiles when the [basemap.Layer] is available, otherwise a
//     faint graticule
//  3. decorative snowflakes, placed from a seeded generator
//  4. buffer polygons, semi-transparent
//  5. ornament markers and Santa hats
//  6. labels, legend, title, and footer
//
// Output depends only on the features, the options, and the basemap image,
// so a render without a basemap is byte-for-byte reproducible.
//
// [basemap.Layer]: github.com/matzehuels/santamap/pkg/basemap.Layer
package mapimg
