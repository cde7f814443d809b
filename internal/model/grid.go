package model

// TileCoordinate addresses a single tile within a panorama grid.
// Coordinates are zero-based: x in [0, width), y in [0, height).
type TileCoordinate struct {
	X int
	Y int
}

// GridDimensions describes the tile grid for one panorama at one zoom level.
//
// Invariant: Width >= 1 and Height >= 1. For Street View sources the
// theoretical grid is Width == 2^(zoom+1), Height == 2^zoom.
type GridDimensions struct {
	Width  int
	Height int
	Zoom   int
}

// TileCount returns the total number of tiles in the grid.
func (g GridDimensions) TileCount() int {
	return g.Width * g.Height
}

// StreetViewGrid returns the theoretical Street View grid for a zoom level:
// 2^(zoom+1) columns by 2^zoom rows.
//
//	StreetViewGrid(5) // 64x32
//	StreetViewGrid(4) // 32x16
func StreetViewGrid(zoom int) GridDimensions {
	return GridDimensions{
		Width:  1 << (zoom + 1),
		Height: 1 << zoom,
		Zoom:   zoom,
	}
}

// SearchCeiling returns the maximal grid extent probed when discovering
// unknown grid bounds. Zoom levels 4 and 5 use the empirically common
// panorama grids; other levels fall back to the theoretical formula.
func SearchCeiling(zoom int) (maxX, maxY int) {
	switch zoom {
	case 5:
		return 64, 32
	case 4:
		return 32, 16
	default:
		return 1 << (zoom + 1), 1 << zoom
	}
}
