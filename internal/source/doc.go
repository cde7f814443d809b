// Package source classifies input URLs and builds tile URLs for every
// supported panorama source kind.
//
// Three kinds of input are recognized, in priority order:
//
//  1. Template URLs carrying literal [%X] and [%Y] placeholders
//  2. Parameterized tile URLs carrying x=<digits> and y=<digits> parameters
//  3. Everything else, treated as a Google Street View URL
//
// # Classification
//
//	desc, err := source.Classify("https://example.com/tile?x=[%X]&y=[%Y]&z=5")
//	// desc.Kind == model.SourceTemplate, desc.Zoom == 5
//
// Identifier extraction is independent of classification: an id=<token>
// parameter anywhere in the URL wins; Street View URLs additionally yield
// their panoid= parameter or 1s<token> path segment.
//
// # Tile URLs
//
//	url := source.TileURL(desc, "panoid", model.TileCoordinate{X: 3, Y: 1}, 5)
//
// For Street View the fixed streetviewpixels endpoint is used; template and
// parameterized sources substitute the coordinate into the caller's URL.
package source
