package model

import "errors"

// ValidationError reports a malformed or unusable input URL, such as an
// empty string or a URL without an http/https scheme.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid source URL: " + e.Reason
}

var (
	// ErrIdentifierMissing is returned when no panorama identifier could be
	// extracted from the input URL. Recoverable: the caller may supply one
	// and resubmit the job.
	ErrIdentifierMissing = errors.New("no panorama identifier found in URL")

	// ErrDownloadFailed is returned when zero tiles succeeded after all
	// fallback attempts. Fatal for the affected job.
	ErrDownloadFailed = errors.New("download failed: no tiles downloaded")

	// ErrNoTiles is returned when normalization or stitching is invoked on
	// a directory containing no readable tile images.
	ErrNoTiles = errors.New("no tiles found")
)
