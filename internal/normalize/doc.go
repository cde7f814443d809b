// Package normalize reconciles inconsistent tile dimensions before
// stitching.
//
// Tile servers are observed to serve edge tiles at smaller dimensions than
// interior tiles. Stitching requires uniform tile size, so the normalizer
// scans every tile image in a job's directory, determines the dominant
// dimension (the one with the largest pixel area), and resizes every
// outlier to it with Lanczos resampling at JPEG quality 95:
//
//	resized, err := normalize.Tiles(ctx, tileDir, logf)
//	if errors.Is(err, model.ErrNoTiles) {
//	    // directory held no readable images
//	}
//
// Unreadable or corrupt tiles are skipped with a warning rather than
// failing the job.
package normalize
