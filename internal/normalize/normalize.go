package normalize

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"

	"panorama-downloader/internal/model"
)

// jpegQuality preserves as much tile detail as JPEG re-encoding allows.
const jpegQuality = 95

type dimension struct {
	width  int
	height int
}

func (d dimension) area() int {
	return d.width * d.height
}

// Tiles resizes every tile in dir that does not match the dominant tile
// dimension. Returns the number of tiles resized, or model.ErrNoTiles when
// the directory contains no readable images.
//
// The scan honors ctx between tiles; resizing already-started files is not
// interrupted.
func Tiles(ctx context.Context, dir string, log func(string)) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.jpg"))
	if err != nil {
		return 0, err
	}

	logf := func(format string, args ...any) {
		if log != nil {
			log(fmt.Sprintf(format, args...))
		}
	}

	// First pass: size histogram from image headers only.
	sizes := make(map[dimension]int)
	var largest dimension
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		d, err := decodeDimension(path)
		if err != nil {
			logf("Skipping unreadable tile %s: %v", filepath.Base(path), err)
			continue
		}
		sizes[d]++
		if d.area() > largest.area() {
			largest = d
		}
	}

	if len(sizes) == 0 {
		return 0, model.ErrNoTiles
	}

	logf("Tile size distribution:")
	for _, d := range sortedDimensions(sizes) {
		logf("  %dx%d: %d tiles", d.width, d.height, sizes[d])
	}
	logf("Normalizing all tiles to %dx%d", largest.width, largest.height)

	// Second pass: resize outliers in place.
	resized := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return resized, err
		}
		d, err := decodeDimension(path)
		if err != nil || d == largest {
			continue
		}

		img, err := imaging.Open(path)
		if err != nil {
			logf("Error resizing %s: %v", filepath.Base(path), err)
			continue
		}
		out := imaging.Resize(img, largest.width, largest.height, imaging.Lanczos)
		if err := imaging.Save(out, path, imaging.JPEGQuality(jpegQuality)); err != nil {
			logf("Error resizing %s: %v", filepath.Base(path), err)
			continue
		}
		resized++
	}

	logf("Resized %d tiles", resized)
	return resized, nil
}

// decodeDimension reads an image's pixel size from its header without
// decoding the full bitmap.
func decodeDimension(path string) (dimension, error) {
	f, err := os.Open(path)
	if err != nil {
		return dimension{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return dimension{}, err
	}
	return dimension{width: cfg.Width, height: cfg.Height}, nil
}

func sortedDimensions(sizes map[dimension]int) []dimension {
	dims := make([]dimension, 0, len(sizes))
	for d := range sizes {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool {
		if dims[i].width != dims[j].width {
			return dims[i].width < dims[j].width
		}
		return dims[i].height < dims[j].height
	})
	return dims
}
