package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// TileRecord tracks one downloaded tile on disk.
//
// PixelWidth and PixelHeight are zero until the tile has been fetched and
// decoded. Records are owned exclusively by the job that created them.
type TileRecord struct {
	Coordinate  TileCoordinate
	LocalPath   string
	PixelWidth  int
	PixelHeight int
}

// DownloadTally counts tile download outcomes for one zoom attempt.
// It is mutated only by the tile fetcher and read by the orchestrator
// for logging and zoom-fallback decisions.
type DownloadTally struct {
	Successful int
	Failed     int
}

// Attempted returns the total number of tiles attempted.
func (t DownloadTally) Attempted() int {
	return t.Successful + t.Failed
}

// SuccessRate returns the fraction of attempts that succeeded, in [0, 1].
func (t DownloadTally) SuccessRate() float64 {
	attempted := t.Attempted()
	if attempted == 0 {
		return 0
	}
	return float64(t.Successful) / float64(attempted)
}

// tileNamePattern matches the coordinate segment embedded in tile filenames.
var tileNamePattern = regexp.MustCompile(`x(\d+)-y(\d+)-zoom(\d+)`)

// invalidIDChars matches characters not allowed in a panorama identifier.
var invalidIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// TileFileName returns the deterministic filename for a tile.
//
// The layout is "<id>_x<X>-y<Y>-zoom<Z>.jpg"; Street View tiles carry the
// additional fixed "-nbt1-fover2" suffix their endpoint parameters imply:
//
//	TileFileName("abc", TileCoordinate{X: 3, Y: 1}, 5, false)
//	// "abc_x3-y1-zoom5.jpg"
//	TileFileName("abc", TileCoordinate{X: 3, Y: 1}, 5, true)
//	// "abc_x3-y1-zoom5-nbt1-fover2.jpg"
func TileFileName(id string, c TileCoordinate, zoom int, streetView bool) string {
	if streetView {
		return fmt.Sprintf("%s_x%d-y%d-zoom%d-nbt1-fover2.jpg", id, c.X, c.Y, zoom)
	}
	return fmt.Sprintf("%s_x%d-y%d-zoom%d.jpg", id, c.X, c.Y, zoom)
}

// ParseTileFileName extracts the coordinate and zoom embedded in a tile
// filename. It reports ok == false when the name carries no coordinate
// segment, which lets directory scans skip foreign files.
func ParseTileFileName(name string) (c TileCoordinate, zoom int, ok bool) {
	m := tileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return TileCoordinate{}, 0, false
	}
	c.X, _ = strconv.Atoi(m[1])
	c.Y, _ = strconv.Atoi(m[2])
	zoom, _ = strconv.Atoi(m[3])
	return c, zoom, true
}

// SanitizeID makes a caller-supplied panorama identifier safe for use in
// file and directory names by replacing every character outside
// [A-Za-z0-9_-] with an underscore.
func SanitizeID(id string) string {
	return invalidIDChars.ReplaceAllString(id, "_")
}
