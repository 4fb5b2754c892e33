// Package geo builds the map geometry: points, 300 km "influence" buffers,
// Web Mercator projection, and decorative time-zone offsets.
//
// # Buffers
//
// Buffering directly in degrees distorts the radius more and more with
// latitude. [Buffer] therefore projects the center into a spherical
// azimuthal-equidistant projection centered on the point itself (linear
// units: meters), draws the disk there, and projects each vertex back to
// EPSG:4326. Distances from the center are exact on the sphere, so the
// resulting ring is a geodesic circle. It is still an approximation: the
// Earth is treated as a sphere of radius [orb.EarthRadius].
//
// Near the poles the ring can cross the pole or the antimeridian, which
// yields self-intersecting or wrapped polygons in longitude/latitude. These
// are returned unchanged and drawn as they come out.
//
// # Time zones
//
// [UTCOffset] is round(lon / 15). It ignores DST and political boundaries
// on purpose; the labels are decoration.
package geo
