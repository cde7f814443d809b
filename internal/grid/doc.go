// Package grid discovers the tile grid dimensions of a panorama source
// that does not encode its own bounds.
//
// A brute-force scan of the theoretical coordinate space is too slow for
// large zoom levels, so the Resolver probes for the maximal valid (x, y)
// with a two-phase search per axis: a coarse strided pass followed by a
// fine pass around the best coarse hit. Probe count per axis is roughly
// ceiling/stride + window instead of the full ceiling.
//
//	resolver := grid.NewResolver(client, 8, logf)
//	dims := resolver.Resolve(ctx, urlFor, 5)
//
// Probing is a heuristic: when the detected grid covers less than 10% of
// the theoretical space the result is discarded and the full theoretical
// bounds are used instead, because some tile servers 404 unpredictably on
// boundary probes. Callers must tolerate an over- or under-sized grid;
// unfetchable tiles are simply absent from the final canvas.
package grid
