// Package model defines the core data structures used throughout
// the panorama-downloader application.
//
// # SourceDescriptor
//
// SourceDescriptor is the typed result of classifying an input URL:
//
//	desc := source.Classify(rawURL)
//	fmt.Println(desc.Kind)       // How tile URLs are built
//	fmt.Println(desc.PanoramaID) // Extracted identifier, if any
//
// # Grid and Tiles
//
// GridDimensions describes the tile grid for one panorama, TileCoordinate
// addresses a single tile within it, and TileRecord tracks a tile's on-disk
// location:
//
//	grid := model.StreetViewGrid(5) // 64x32
//	name := model.TileFileName("abc", model.TileCoordinate{X: 3, Y: 1}, 5, true)
//	// "abc_x3-y1-zoom5-nbt1-fover2.jpg"
//
// # Jobs
//
// PanoramaJob aggregates one descriptor, one grid, and the output locations
// for a single download-and-stitch run. Tile directories are addressed
// deterministically by panorama id so re-running a job is idempotent.
package model
