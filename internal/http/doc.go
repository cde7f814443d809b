// Package http provides an HTTP client configured for tile servers.
//
// The Client in this package handles:
//   - Browser-like User-Agent headers (some tile servers reject default agents)
//   - Lightweight existence probes via HEAD requests (5 second timeout)
//   - Image downloads with content-type enforcement (10 second timeout)
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Cheap existence check, no body download
//	if client.Exists(ctx, tileURL) {
//	    // tile is present at this coordinate
//	}
//
//	// Download a tile; fails unless the response is an image
//	data, err := client.FetchImage(ctx, tileURL)
//
// FetchImage returns ErrNotImage when a server answers with an HTML error
// page or other non-image body, which callers count as a failed tile rather
// than writing garbage to disk.
package http
