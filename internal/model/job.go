package model

import (
	"path/filepath"

	"github.com/google/uuid"
)

// PanoramaJob aggregates everything one download-and-stitch run needs:
// the classified source, the resolved grid, and the output locations.
//
// Lifecycle: created when a URL is accepted; the tile set is populated
// during fetch; the tile directory is removed only if the caller opted into
// post-stitch cleanup and stitching succeeded.
type PanoramaJob struct {
	// ID is a unique job identifier used to correlate log lines in batch runs.
	ID string

	// Descriptor is the classified source this job downloads from.
	Descriptor SourceDescriptor

	// PanoramaID is the identifier tiles are stored under. Usually the
	// descriptor's extracted id, but may be caller-supplied (sanitized)
	// or derived from the URL for template sources.
	PanoramaID string

	// Grid is the tile grid, resolved before fetching begins.
	Grid GridDimensions

	// OutputDir is where the tile directory and final panorama are written.
	OutputDir string

	// Name selects single-name mode: when non-empty the panorama is saved
	// as "<Name>_panorama.jpg" instead of "<PanoramaID>.jpg".
	Name string
}

// NewJob creates a job for a classified source.
func NewJob(desc SourceDescriptor, outputDir, name string) *PanoramaJob {
	return &PanoramaJob{
		ID:         uuid.NewString(),
		Descriptor: desc,
		PanoramaID: desc.PanoramaID,
		OutputDir:  outputDir,
		Name:       name,
	}
}

// TileDir returns the directory tiles are downloaded into.
func (j *PanoramaJob) TileDir() string {
	return filepath.Join(j.OutputDir, j.PanoramaID)
}

// PanoramaPath returns the path of the final stitched panorama.
func (j *PanoramaJob) PanoramaPath() string {
	if j.Name != "" {
		return filepath.Join(j.OutputDir, j.Name+"_panorama.jpg")
	}
	return filepath.Join(j.OutputDir, j.PanoramaID+".jpg")
}

// PreviewPath returns the path of the optional downscaled preview image.
func (j *PanoramaJob) PreviewPath() string {
	base := j.PanoramaPath()
	return base[:len(base)-len(".jpg")] + "_preview.jpg"
}

// ShortcutPath returns the path of the optional .url sidecar pointing back
// at the original source URL.
func (j *PanoramaJob) ShortcutPath() string {
	return filepath.Join(j.OutputDir, j.PanoramaID+".url")
}
