// Package pipeline sequences the panorama phases for one run and
// publishes progress over a typed event stream.
//
// The phases are: classify the source URL, resolve the panorama
// identifier, discover or derive the tile grid, fetch the tiles,
// normalize their dimensions, stitch the panorama, then the best-effort
// post-stitch steps (shortcut sidecar, optional preview, tile cleanup).
// A Mode can stop after the download or run only the normalize or stitch
// phase against an existing tile directory.
//
// # Event stream
//
// The Runner never renders anything itself. It publishes Progress,
// LogLine, and a terminal Finished event on a buffered channel; the CLI
// and the TUI are just different consumers of the same stream.
//
//	runner := pipeline.New(settings)
//	go func() {
//	    for ev := range runner.Events() {
//	        ...
//	    }
//	}()
//	err := runner.Run(ctx, pipeline.Request{RawURL: url})
//
// # Error model
//
// Per-tile failures never surface here; the fetcher absorbs them into its
// tally. A job's fatal errors are typed: *model.ValidationError,
// model.ErrIdentifierMissing (recoverable: the caller supplies an id and
// resubmits), model.ErrDownloadFailed, and model.ErrNoTiles. In batch
// mode a fatal error aborts only its own job.
package pipeline
