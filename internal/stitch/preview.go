package stitch

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"golang.org/x/image/draw"
)

// previewQuality trades size for fidelity; previews are for quick checks,
// not archival.
const previewQuality = 90

// Preview writes a downscaled copy of the panorama at panoramaPath to
// previewPath.
//
// The aspect ratio is preserved: the preview is at most maxWidth pixels
// wide, and a panorama already narrower than maxWidth is re-encoded at its
// original size.
//
// The Catmull-Rom algorithm is used for high-quality downscaling.
//
// Example:
//
//	// A 16384x8192 panorama becomes a 2048x1024 preview
//	err := stitch.Preview(job.PanoramaPath(), job.PreviewPath(), 2048)
func Preview(panoramaPath, previewPath string, maxWidth int) error {
	f, err := os.Open(panoramaPath)
	if err != nil {
		return fmt.Errorf("opening panorama: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding panorama: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > maxWidth {
		height = height * maxWidth / width
		width = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	out, err := os.Create(previewPath)
	if err != nil {
		return fmt.Errorf("creating preview: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: previewQuality}); err != nil {
		return fmt.Errorf("encoding preview: %w", err)
	}
	return nil
}
