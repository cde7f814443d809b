package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"panorama-downloader/internal/config"
	"panorama-downloader/internal/fetch"
	"panorama-downloader/internal/grid"
	httpx "panorama-downloader/internal/http"
	ioutils "panorama-downloader/internal/io"
	"panorama-downloader/internal/model"
	"panorama-downloader/internal/normalize"
	"panorama-downloader/internal/source"
	"panorama-downloader/internal/stitch"
)

// Mode selects which phases of the pipeline a job runs.
type Mode string

const (
	// ModeFull downloads, normalizes, and stitches.
	ModeFull Mode = "full"
	// ModeDownload stops after the tile download.
	ModeDownload Mode = "download"
	// ModeNormalize only normalizes an existing tile directory.
	ModeNormalize Mode = "normalize"
	// ModeStitch only stitches an existing tile directory.
	ModeStitch Mode = "stitch"
)

// eventBuffer sizes the event channel. Progress events are dropped when
// the consumer falls this far behind; log lines are never dropped.
const eventBuffer = 256

// Request describes one panorama job.
type Request struct {
	// RawURL is the source URL to classify and download from.
	RawURL string

	// Identifier optionally supplies a panorama id when the URL carries
	// none. It is sanitized before use.
	Identifier string

	// Name optionally selects single-name output mode.
	Name string

	// Mode defaults to ModeFull when empty.
	Mode Mode
}

// Runner sequences the pipeline phases for one run (a single job or a
// batch) and publishes typed events while doing so.
//
// A Runner is single-use: exactly one of Run or RunBatch may be called,
// and the event channel is closed when it returns. The consumer drains
// Events concurrently:
//
//	runner := pipeline.New(settings)
//	go consume(runner.Events())
//	err := runner.Run(ctx, pipeline.Request{RawURL: url})
type Runner struct {
	settings *config.Settings
	client   *httpx.Client
	events   chan Event

	// now is a hook for tests that pin timestamp-derived names.
	now func() time.Time
}

// New creates a Runner with a buffered event channel.
func New(settings *config.Settings) *Runner {
	return &Runner{
		settings: settings,
		client:   httpx.NewClient(),
		events:   make(chan Event, eventBuffer),
		now:      time.Now,
	}
}

// Events returns the stream the Runner publishes to. It is closed after
// the terminal Finished event.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Run executes a single job, emits Finished, and closes the event stream.
//
// The returned error is the job's fatal error: a *model.ValidationError
// for a malformed URL, model.ErrIdentifierMissing when the caller must
// supply an id and resubmit, model.ErrDownloadFailed when zero tiles
// succeeded, or model.ErrNoTiles from the normalize/stitch phases.
func (r *Runner) Run(ctx context.Context, req Request) error {
	defer close(r.events)

	err := r.runJob(ctx, req)
	if err != nil {
		r.logError(fmt.Sprintf("Job failed: %v", err))
	}
	r.events <- Finished{Err: err}
	return err
}

// RunBatch executes jobs sequentially with per-job error isolation: a
// fatal error aborts only its own job and the batch continues. The
// returned slice holds one entry per request.
func (r *Runner) RunBatch(ctx context.Context, reqs []Request) []error {
	defer close(r.events)

	errs := make([]error, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		r.log(fmt.Sprintf("=== Job %d/%d: %s", i+1, len(reqs), req.RawURL))
		if errs[i] = r.runJob(ctx, req); errs[i] != nil {
			r.logError(fmt.Sprintf("Job %d/%d failed: %v", i+1, len(reqs), errs[i]))
		}
	}
	r.events <- Finished{}
	return errs
}

func (r *Runner) runJob(ctx context.Context, req Request) error {
	job, err := r.prepare(req)
	if err != nil {
		return err
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeFull
	}
	r.log(fmt.Sprintf("Starting %s job %s (%s source, panorama %s)",
		mode, job.ID, job.Descriptor.Kind, job.PanoramaID))

	if mode == ModeFull || mode == ModeDownload {
		if err := r.download(ctx, job); err != nil {
			return err
		}
	}
	if mode == ModeFull || mode == ModeNormalize {
		if err := r.normalize(ctx, job); err != nil {
			return err
		}
	}
	if mode == ModeFull || mode == ModeStitch {
		if err := r.stitch(ctx, job); err != nil {
			return err
		}
		r.finalize(ctx, job)
	}

	return nil
}

// prepare classifies the URL and resolves the panorama identifier. A
// caller-supplied identifier wins over the extracted one; sources without
// either get a URL-derived folder name, except Street View where the id
// is part of the tile endpoint and the caller must supply it.
func (r *Runner) prepare(req Request) (*model.PanoramaJob, error) {
	desc, err := source.Classify(req.RawURL)
	if err != nil {
		return nil, err
	}

	job := model.NewJob(desc, r.settings.OutputDir, req.Name)
	if req.Identifier != "" {
		job.PanoramaID = model.SanitizeID(req.Identifier)
	}
	if job.PanoramaID == "" {
		if desc.Kind == model.SourceStreetView {
			return nil, fmt.Errorf("cannot build tile URLs for %s: %w", desc.RawURL, model.ErrIdentifierMissing)
		}
		job.PanoramaID = source.FolderName(desc)
		if job.Name == "" {
			job.Name = r.now().Format("20060102150405")
		}
	}
	return job, nil
}

func (r *Runner) download(ctx context.Context, job *model.PanoramaJob) error {
	onTile := func(done, total int) {
		if total > 0 {
			r.sendProgress("Downloading tiles", float64(done)/float64(total)*100)
		}
	}
	fetcher := fetch.NewFetcher(r.client, r.settings.DownloadWorkers, r.log, onTile)

	var tally model.DownloadTally
	if job.Descriptor.Kind == model.SourceStreetView {
		tally, job.Grid = fetcher.FetchStreetView(ctx, job.TileDir(), job.PanoramaID, r.settings.ForcedZoom())
	} else {
		zoom := job.Descriptor.Zoom
		resolver := grid.NewResolver(r.client, r.settings.ProbeWorkers, r.log)
		job.Grid = resolver.Resolve(ctx, func(x, y int) string {
			return source.TileURL(job.Descriptor, job.PanoramaID, model.TileCoordinate{X: x, Y: y}, zoom)
		}, zoom)
		tally = fetcher.FetchGrid(ctx, job.TileDir(), job.Descriptor, job.PanoramaID, job.Grid)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if tally.Successful == 0 {
		return fmt.Errorf("%d attempts, none succeeded: %w", tally.Attempted(), model.ErrDownloadFailed)
	}
	r.sendProgress("Downloading tiles", 100)
	return nil
}

func (r *Runner) normalize(ctx context.Context, job *model.PanoramaJob) error {
	r.sendProgress("Normalizing tiles", 0)
	resized, err := normalize.Tiles(ctx, job.TileDir(), r.log)
	if err != nil {
		return err
	}
	if resized > 0 {
		r.log(fmt.Sprintf("Normalized %d undersized tiles", resized))
	}
	r.sendProgress("Normalizing tiles", 100)
	return nil
}

func (r *Runner) stitch(ctx context.Context, job *model.PanoramaJob) error {
	r.sendProgress("Stitching", 0)
	if err := ioutils.EnsureDir(job.OutputDir); err != nil {
		return err
	}
	if err := stitch.Panorama(ctx, job.TileDir(), job.PanoramaPath(), r.log); err != nil {
		return err
	}
	r.log(fmt.Sprintf("Panorama saved to %s", job.PanoramaPath()))
	r.sendProgress("Stitching", 100)
	return nil
}

// finalize runs the best-effort post-stitch steps: the shortcut sidecar,
// the optional preview, and tile cleanup. Failures here are logged, never
// escalated.
func (r *Runner) finalize(ctx context.Context, job *model.PanoramaJob) {
	if r.settings.WriteShortcut {
		if err := ioutils.WriteShortcut(ctx, job.ShortcutPath(), job.Descriptor.RawURL); err != nil {
			r.logError(fmt.Sprintf("Could not write shortcut: %v", err))
		}
	}
	if r.settings.GeneratePreview {
		if err := stitch.Preview(job.PanoramaPath(), job.PreviewPath(), r.settings.PreviewMaxWidth); err != nil {
			r.logError(fmt.Sprintf("Could not generate preview: %v", err))
		} else {
			r.log(fmt.Sprintf("Preview saved to %s", job.PreviewPath()))
		}
	}
	if r.settings.DeleteTilesAfterStitch {
		if err := os.RemoveAll(job.TileDir()); err != nil {
			r.logError(fmt.Sprintf("Could not remove tile directory: %v", err))
		} else {
			r.log("Removed tile directory")
		}
	}
}

func (r *Runner) log(text string) {
	r.events <- LogLine{Text: text}
}

func (r *Runner) logError(text string) {
	r.events <- LogLine{Text: text, IsError: true}
}

// sendProgress drops the event when the consumer is behind; progress is
// advisory and must never block a download worker.
func (r *Runner) sendProgress(label string, percent float64) {
	select {
	case r.events <- Progress{Label: label, Percent: percent}:
	default:
	}
}
