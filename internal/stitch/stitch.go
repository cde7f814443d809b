package stitch

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"panorama-downloader/internal/model"
)

// jpegQuality is the encoding quality for the assembled panorama.
const jpegQuality = 95

// placedTile is a tile that parsed cleanly out of its filename.
type placedTile struct {
	coord model.TileCoordinate
	path  string
}

// Panorama assembles every tile in tileDir into a single panorama image
// written to outPath.
//
// The grid position of each tile is recovered from its filename, so the
// function needs no knowledge of how the grid was resolved. The canvas is
// sized from the maximum observed x and y coordinates and the dimensions of
// the first tile; coordinates with no tile on disk are left black. After
// assembly the canvas is corrected to a 2:1 aspect ratio and saved as JPEG.
//
// Parameters:
//   - ctx: Context for cancellation between tile placements
//   - tileDir: Directory containing the downloaded tiles
//   - outPath: Destination path for the finished panorama (.jpg)
//   - log: Progress sink, may be nil
//
// Returns model.ErrNoTiles if the directory contains no tile whose filename
// carries grid coordinates.
//
// Example usage:
//
//	err := stitch.Panorama(ctx, job.TileDir(), job.PanoramaPath(), logf)
func Panorama(ctx context.Context, tileDir, outPath string, log func(string)) error {
	if log == nil {
		log = func(string) {}
	}

	tiles, err := collectTiles(tileDir)
	if err != nil {
		return err
	}
	if len(tiles) == 0 {
		return model.ErrNoTiles
	}

	first, err := imaging.Open(tiles[0].path)
	if err != nil {
		return fmt.Errorf("opening tile %s: %w", filepath.Base(tiles[0].path), err)
	}
	tileW := first.Bounds().Dx()
	tileH := first.Bounds().Dy()

	maxX, maxY := 0, 0
	for _, t := range tiles {
		if t.coord.X > maxX {
			maxX = t.coord.X
		}
		if t.coord.Y > maxY {
			maxY = t.coord.Y
		}
	}

	canvasW := (maxX + 1) * tileW
	canvasH := (maxY + 1) * tileH
	log(fmt.Sprintf("Stitching %d tiles onto a %dx%d canvas", len(tiles), canvasW, canvasH))

	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	placed := 0
	for _, t := range tiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := imaging.Open(t.path)
		if err != nil {
			log(fmt.Sprintf("Skipping unreadable tile %s: %v", filepath.Base(t.path), err))
			continue
		}
		px := t.coord.X * tileW
		py := t.coord.Y * tileH
		if px+img.Bounds().Dx() > canvasW || py+img.Bounds().Dy() > canvasH {
			log(fmt.Sprintf("Skipping out-of-bounds tile %s", filepath.Base(t.path)))
			continue
		}
		rect := image.Rect(px, py, px+img.Bounds().Dx(), py+img.Bounds().Dy())
		draw.Draw(canvas, rect, img, image.Point{}, draw.Src)
		placed++
	}

	final := correctAspect(canvas, log)

	if err := imaging.Save(final, outPath, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("saving panorama: %w", err)
	}
	log(fmt.Sprintf("Placed %d/%d tiles, panorama saved as %dx%d",
		placed, len(tiles), final.Bounds().Dx(), final.Bounds().Dy()))
	return nil
}

// collectTiles lists the .jpg files in dir whose names carry grid
// coordinates. Files that don't parse are ignored.
func collectTiles(dir string) ([]placedTile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading tile directory: %w", err)
	}

	var tiles []placedTile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jpg" {
			continue
		}
		coord, _, ok := model.ParseTileFileName(e.Name())
		if !ok {
			continue
		}
		tiles = append(tiles, placedTile{coord: coord, path: filepath.Join(dir, e.Name())})
	}
	return tiles, nil
}

// correctAspect forces the canvas to the 2:1 width:height ratio of an
// equirectangular panorama. Canvases taller than width/2 are cropped from
// the bottom; shorter ones are padded with black rows at the bottom.
func correctAspect(canvas *image.RGBA, log func(string)) *image.RGBA {
	width := canvas.Bounds().Dx()
	height := canvas.Bounds().Dy()
	target := width / 2

	switch {
	case height > target:
		log(fmt.Sprintf("Cropping %d bottom rows for 2:1 aspect", height-target))
		cropped := image.NewRGBA(image.Rect(0, 0, width, target))
		draw.Draw(cropped, cropped.Bounds(), canvas, image.Point{}, draw.Src)
		return cropped
	case height < target:
		log(fmt.Sprintf("Padding %d black rows for 2:1 aspect", target-height))
		padded := image.NewRGBA(image.Rect(0, 0, width, target))
		draw.Draw(padded, canvas.Bounds(), canvas, image.Point{}, draw.Src)
		return padded
	default:
		return canvas
	}
}
