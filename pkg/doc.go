// Package pkg provides the libraries behind santamap, a renderer for a
// fairy-tale world map of holiday gift-bringer traditions.
//
// # Overview
//
// The pkg directory is organized by concern:
//
//  1. [locations] - The Santa figure table (built-in TOML or a user file)
//  2. [geo] and [features] - Points, 300 km buffers, and UTC offsets
//  3. [basemap] - Tile fetching with caching and graceful degradation
//  4. [render] and [land] - Palette, land mask, map drawing, and PNG output
//  5. [pipeline] - Orchestration (load → enrich → basemap → render → write)
//  6. [cache], [observability], [errors] - Shared infrastructure
//
// # Architecture
//
// The data flow through one run:
//
//	locations.toml
//	     ↓
//	[locations] package (decode + validate)
//	     ↓
//	[features] package (geo.Buffer, geo.UTCOffset)
//	     ↓
//	[basemap] package (tiles → mosaic, or a reason it is missing)
//	     ↓
//	[render/mapimg] package (draw) → [render/sink] package (PNG, atomic write)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Output:    "santa_traditions_map.png",
//	    NoBasemap: true,
//	})
//
// [locations]: github.com/matzehuels/santamap/pkg/locations
// [geo]: github.com/matzehuels/santamap/pkg/geo
// [features]: github.com/matzehuels/santamap/pkg/features
// [basemap]: github.com/matzehuels/santamap/pkg/basemap
// [render]: github.com/matzehuels/santamap/pkg/render
// [land]: github.com/matzehuels/santamap/pkg/land
// [render/mapimg]: github.com/matzehuels/santamap/pkg/render/mapimg
// [render/sink]: github.com/matzehuels/santamap/pkg/render/sink
// [pipeline]: github.com/matzehuels/santamap/pkg/pipeline
// [cache]: github.com/matzehuels/santamap/pkg/cache
// [observability]: github.com/matzehuels/santamap/pkg/observability
// [errors]: github.com/matzehuels/santamap/pkg/errors
package pkg
