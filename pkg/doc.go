// Package pkg provides the core libraries for ringplace.
//
// # Overview
//
// Ringplace distributes N points as evenly as possible around a ring of integer
// lattice points. Each point lies on the grid, inside the annulus between a
// minimum and maximum radius, and as close as possible to the angle it would
// take on a perfect circle. The pkg directory is organized into these areas:
//
//  1. [placement] - The placement algorithm (bands, slots, strategies, stats)
//  2. [pipeline] - Orchestration (generate → render) with caching
//  3. [render] - Output formats (JSON, CSV, SVG, DOT, PNG)
//  4. [cache] - File, Redis and null caches plus key derivation
//  5. [plan] - Named, persisted placements (file, MongoDB, memory)
//  6. [config] - TOML configuration, defaults and presets
//
// # Architecture
//
// The typical data flow through ringplace:
//
//	count + band + offset
//	         ↓
//	    [placement] package (one lattice point per slot)
//	         ↓
//	    [pipeline] package (cache lookup, offset translation)
//	         ↓
//	    [render] package
//	         ↓
//	    JSON/CSV/SVG/DOT/PNG output
//
// # Quick Start
//
//	pts, err := placement.GeneratePoints(12, 10, 12, placement.Point{X: 100, Y: 100})
//	if err != nil {
//	    return err
//	}
//	for _, p := range pts {
//	    fmt.Println(p)
//	}
//
// Use [placement.Generate] for per-slot detail such as target angles,
// deviations and duplicate slots.
//
// # Main Packages
//
// [placement] - For every slot k the target angle is 2πk/N. The chosen point
// is the lattice point in the band whose angle deviates least from the target,
// ties broken by closeness to the mid radius. Two strategies produce identical
// results: an indexed sweep over all band points and a per-slot wedge search.
//
// [pipeline] - The [pipeline.Runner] used by the CLI and the HTTP server. It
// caches placements in the centered frame so that offsets share entries.
//
// [render] - Renderers for each output format. DOT and PNG go through Graphviz.
//
// [cache] - The [cache.Cache] interface with file, Redis and null backends,
// and the [cache.Keyer] that derives content-addressed keys.
//
// [plan] - Saved placements addressed by id or name.
//
// [errors] - Coded errors shared by every package and mapped to exit messages
// and HTTP statuses.
//
// [observability] - Hooks for timing placement, render and HTTP operations.
//
// [buildinfo] - Version metadata injected at link time.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test -run Example ./...  # Examples only
//
// [placement]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/placement
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/cache
// [plan]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/plan
// [config]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/buildinfo
// [placement.GeneratePoints]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/placement#GeneratePoints
// [placement.Generate]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/placement#Generate
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/pipeline#Runner
// [cache.Cache]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/cache#Cache
// [cache.Keyer]: https://pkg.go.dev/github.com/matzehuels/ringplace/pkg/cache#Keyer
package pkg
