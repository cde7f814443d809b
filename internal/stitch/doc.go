// Package stitch assembles downloaded tiles into one equirectangular
// panorama image.
//
// Tiles are located by parsing the x<digits>-y<digits>-zoom<digits>
// segment back out of each filename, so stitching works on any directory
// the fetcher produced, regardless of which coordinates actually
// downloaded. The canvas is sized from the maximum observed coordinate;
// missing tiles simply leave black canvas.
//
//	err := stitch.Panorama(ctx, tileDir, outPath, logf)
//
// # Aspect correction
//
// Panorama tile grids include letterboxed bottom rows whose count varies
// per panorama, so the finished canvas is corrected to the 2:1 ratio an
// equirectangular image requires: taller canvases are cropped from the
// bottom, shorter ones padded with black rows.
//
// # Preview
//
// Preview writes a downscaled copy of a finished panorama for quick
// inspection without opening the full-size image.
package stitch
