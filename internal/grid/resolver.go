package grid

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"panorama-downloader/internal/model"
)

// Coarse strides and fine search windows per axis. The X axis is wider, so
// it gets a larger stride and window.
const (
	coarseStrideX = 4
	coarseStrideY = 2
	fineBackX     = 8
	fineAheadX    = 16
	fineBackY     = 4
	fineAheadY    = 8
)

// fallbackCoverage is the minimum fraction of the theoretical grid the
// probe result must cover to be trusted.
const fallbackCoverage = 0.1

// Prober is the existence check the resolver issues per coordinate.
type Prober interface {
	Exists(ctx context.Context, url string) bool
}

// Resolver discovers grid dimensions by existence probing.
type Resolver struct {
	prober  Prober
	workers int
	log     func(string)
}

// NewResolver creates a Resolver. workers bounds concurrent probes within
// one pass; log receives human-readable progress lines and may be nil.
func NewResolver(prober Prober, workers int, log func(string)) *Resolver {
	if workers <= 0 {
		workers = 1
	}
	return &Resolver{prober: prober, workers: workers, log: log}
}

// Resolve determines the grid for a source whose bounds are unknown.
//
// urlFor builds the probe URL for a coordinate; the resolver is agnostic to
// whether that is template substitution or query rewriting. The X axis is
// probed with y fixed at 0 and vice versa. The two passes per axis are
// sequential (the fine pass needs the coarse result); probes within a pass
// run concurrently.
func (r *Resolver) Resolve(ctx context.Context, urlFor func(x, y int) string, zoom int) model.GridDimensions {
	ceilX, ceilY := model.SearchCeiling(zoom)
	r.logf("Searching grid up to %dx%d for zoom %d", ceilX, ceilY, zoom)

	maxX := r.probeAxis(ctx, ceilX, coarseStrideX, fineBackX, fineAheadX, func(x int) string {
		return urlFor(x, 0)
	})
	maxY := r.probeAxis(ctx, ceilY, coarseStrideY, fineBackY, fineAheadY, func(y int) string {
		return urlFor(0, y)
	})

	detected := (maxX + 1) * (maxY + 1)
	theoretical := ceilX * ceilY
	if float64(detected) < fallbackCoverage*float64(theoretical) {
		r.logf("Probing found only %d tiles vs %d theoretical, using full theoretical bounds", detected, theoretical)
		maxX = ceilX - 1
		maxY = ceilY - 1
	}

	dims := model.GridDimensions{Width: maxX + 1, Height: maxY + 1, Zoom: zoom}
	r.logf("Grid boundaries: %dx%d (%d tiles)", dims.Width, dims.Height, dims.TileCount())
	return dims
}

// probeAxis runs the coarse then fine pass along one axis and returns the
// greatest coordinate that answered present, or 0 when none did.
func (r *Resolver) probeAxis(ctx context.Context, ceiling, stride, back, ahead int, urlAt func(int) string) int {
	var coarse []int
	for v := 0; v < ceiling; v += stride {
		coarse = append(coarse, v)
	}
	max := r.probePass(ctx, coarse, urlAt)
	if max < 0 {
		max = 0
	}

	lo := max - back
	if lo < 0 {
		lo = 0
	}
	hi := max + ahead
	if hi > ceiling {
		hi = ceiling
	}
	var fine []int
	for v := lo; v < hi; v++ {
		fine = append(fine, v)
	}
	if fineMax := r.probePass(ctx, fine, urlAt); fineMax > max {
		max = fineMax
	}
	return max
}

// probePass probes every coordinate in vals concurrently and returns the
// greatest one found present, or -1 when none answered.
func (r *Resolver) probePass(ctx context.Context, vals []int, urlAt func(int) string) int {
	var (
		mu  sync.Mutex
		max = -1
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, v := range vals {
		v := v
		g.Go(func() error {
			if r.prober.Exists(ctx, urlAt(v)) {
				mu.Lock()
				if v > max {
					max = v
				}
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	return max
}

func (r *Resolver) logf(format string, args ...any) {
	if r.log != nil {
		r.log(fmt.Sprintf(format, args...))
	}
}
