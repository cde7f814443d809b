package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"panorama-downloader/internal/model"
	"panorama-downloader/internal/source"
)

// Heuristic constants, tuned empirically. The abort pair recognizes a
// systemically broken job; the fallback threshold decides whether a
// Street View zoom-5 attempt was good enough to keep.
const (
	abortMinAttempts     = 50
	abortMaxSuccesses    = 5
	fallbackMinSuccesses = 10
	progressEvery        = 10
)

// ImageFetcher downloads one tile body.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Fetcher downloads tile grids with per-tile skip/fail semantics.
//
// All failure handling is local: a tile that cannot be downloaded is
// counted in the tally and the scan continues. The fetcher never returns
// an error for individual tiles; the orchestrator judges the tally.
type Fetcher struct {
	client  ImageFetcher
	workers int
	log     func(string)
	onTile  func(done, total int)
}

// NewFetcher creates a Fetcher.
//
// workers bounds concurrent tile downloads; at 1 the grid is scanned
// strictly sequentially. log receives human-readable progress lines and
// onTile is called after every attempted tile with the running count; both
// may be nil.
func NewFetcher(client ImageFetcher, workers int, log func(string), onTile func(done, total int)) *Fetcher {
	if workers <= 0 {
		workers = 1
	}
	return &Fetcher{client: client, workers: workers, log: log, onTile: onTile}
}

// FetchGrid downloads every coordinate of grid into dir for a template or
// parameterized source and returns the tally.
func (f *Fetcher) FetchGrid(ctx context.Context, dir string, desc model.SourceDescriptor, panoID string, grid model.GridDimensions) model.DownloadTally {
	streetView := desc.Kind == model.SourceStreetView
	return f.fetchGrid(ctx, dir, grid,
		func(c model.TileCoordinate) string {
			return source.TileURL(desc, panoID, c, grid.Zoom)
		},
		func(c model.TileCoordinate) string {
			return model.TileFileName(panoID, c, grid.Zoom, streetView)
		},
	)
}

// FetchStreetView downloads a Street View panorama's grid into dir.
//
// forcedZoom < 0 selects auto mode: zoom 5 is attempted first and the
// entire grid is re-attempted at zoom 4 when fewer than 10 tiles succeeded.
// The grid actually fetched is returned alongside the tally of the final
// attempt.
func (f *Fetcher) FetchStreetView(ctx context.Context, dir, panoID string, forcedZoom int) (model.DownloadTally, model.GridDimensions) {
	auto := forcedZoom < 0
	zoom := forcedZoom
	if auto {
		zoom = 5
	}

	f.logf("Attempting download at zoom %d", zoom)
	grid := model.StreetViewGrid(zoom)
	tally := f.fetchStreetViewGrid(ctx, dir, panoID, grid)

	if auto && tally.Successful < fallbackMinSuccesses {
		f.logf("Zoom 5 download failed, falling back to zoom 4")
		grid = model.StreetViewGrid(4)
		tally = f.fetchStreetViewGrid(ctx, dir, panoID, grid)
	}

	return tally, grid
}

func (f *Fetcher) fetchStreetViewGrid(ctx context.Context, dir, panoID string, grid model.GridDimensions) model.DownloadTally {
	return f.fetchGrid(ctx, dir, grid,
		func(c model.TileCoordinate) string {
			return source.StreetViewTileURL(panoID, c, grid.Zoom)
		},
		func(c model.TileCoordinate) string {
			return model.TileFileName(panoID, c, grid.Zoom, true)
		},
	)
}

// fetchGrid is the shared grid scan. Coordinates are dispatched in x-major
// order through an errgroup bounded at f.workers; the early-abort flag is
// re-checked before every dispatch, so overshoot past the attempt threshold
// is bounded by the worker count.
func (f *Fetcher) fetchGrid(ctx context.Context, dir string, grid model.GridDimensions, urlFor, nameFor func(model.TileCoordinate) string) model.DownloadTally {
	os.MkdirAll(dir, 0755)

	total := grid.TileCount()
	f.logf("Grid size: %dx%d (%d tiles)", grid.Width, grid.Height, total)

	var (
		successful atomic.Int64
		failed     atomic.Int64
		aborted    atomic.Bool
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

dispatch:
	for x := 0; x < grid.Width; x++ {
		for y := 0; y < grid.Height; y++ {
			if aborted.Load() || gctx.Err() != nil {
				break dispatch
			}
			c := model.TileCoordinate{X: x, Y: y}
			g.Go(func() error {
				// A dispatch may have raced the abort decision.
				if aborted.Load() {
					return nil
				}
				path := filepath.Join(dir, nameFor(c))

				if _, err := os.Stat(path); err == nil {
					successful.Add(1)
				} else if err := f.downloadTile(gctx, urlFor(c), path); err == nil {
					s := successful.Add(1)
					if s%progressEvery == 0 {
						elapsed := time.Since(start).Seconds()
						rate := 0.0
						if elapsed > 0 {
							rate = float64(s) / elapsed
						}
						f.logf("  Progress: %d/%d tiles (%.1f tiles/sec)", s, total, rate)
					}
				} else {
					failed.Add(1)
				}

				s, fl := successful.Load(), failed.Load()
				attempted := s + fl
				if attempted >= abortMinAttempts && s < abortMaxSuccesses && !aborted.Swap(true) {
					f.logf("Low success rate after %d attempts, stopping", attempted)
				}
				if f.onTile != nil {
					f.onTile(int(attempted), total)
				}
				return nil
			})
		}
	}
	g.Wait()

	tally := model.DownloadTally{
		Successful: int(successful.Load()),
		Failed:     int(failed.Load()),
	}
	f.logf("Zoom %d: %d successful, %d failed (%.1f%% success)",
		grid.Zoom, tally.Successful, tally.Failed, tally.SuccessRate()*100)
	return tally
}

// downloadTile fetches one tile and writes the raw body verbatim. Any
// partially written file is removed on failure so idempotent re-runs never
// trust a truncated tile.
func (f *Fetcher) downloadTile(ctx context.Context, url, path string) error {
	data, err := f.client.FetchImage(ctx, url)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func (f *Fetcher) logf(format string, args ...any) {
	if f.log != nil {
		f.log(fmt.Sprintf(format, args...))
	}
}
