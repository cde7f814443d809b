// Package fetch downloads a panorama's tile grid to disk.
//
// # Fetcher
//
// The Fetcher walks a grid in x-major order (all y for a given x before
// advancing x) and downloads each coordinate through a bounded worker pool:
//
//	fetcher := fetch.NewFetcher(client, 8, logf, nil)
//	tally := fetcher.FetchGrid(ctx, tileDir, desc, panoID, grid)
//
// # Idempotence
//
// Tiles already on disk are counted as successful without issuing a
// request, so re-running an interrupted job resumes where it stopped.
//
// # Early abort
//
// Once at least 50 tiles have been attempted with fewer than 5 successes
// the remaining scan is abandoned: the job is systemically broken (wrong
// identifier, dead host) and exhausting the grid would only waste time.
//
// # Zoom fallback
//
// Street View downloads without a forced zoom try zoom 5 first and repeat
// the entire grid at zoom 4 when fewer than 10 tiles succeeded. This is a
// full second pass, not a per-tile retry; panoramas published before the
// high-resolution rollout simply have no zoom-5 tiles.
package fetch
