package source

import (
	"fmt"
	"strconv"
	"strings"

	"panorama-downloader/internal/model"
)

// streetViewEndpoint is the tile endpoint used for all Street View fetches.
const streetViewEndpoint = "https://streetviewpixels-pa.googleapis.com/v1/tile" +
	"?cb_client=maps_sv.tactile&panoid=%s&x=%d&y=%d&zoom=%d&nbt=1&fover=2"

// Classify parses a raw URL string into a typed source descriptor.
//
// Classification rules, in priority order:
//
//  1. Both [%X] and [%Y] placeholder tokens present: Template
//  2. Both x=<digits> and y=<digits> query parameters present: ParameterizedCoords
//  3. Otherwise: StreetView
//
// Returns a *model.ValidationError when the string is empty or lacks an
// http/https scheme. Identifier and zoom extraction never fail; a missing
// identifier leaves PanoramaID empty for the caller to resolve.
func Classify(rawURL string) (model.SourceDescriptor, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return model.SourceDescriptor{}, &model.ValidationError{Reason: "empty URL"}
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return model.SourceDescriptor{}, &model.ValidationError{Reason: "missing http/https scheme"}
	}

	desc := model.SourceDescriptor{RawURL: trimmed}

	switch {
	case strings.Contains(trimmed, "[%X]") && strings.Contains(trimmed, "[%Y]"):
		desc.Kind = model.SourceTemplate
	case paramXPattern.MatchString(trimmed) && paramYPattern.MatchString(trimmed):
		desc.Kind = model.SourceParameterizedCoords
	default:
		desc.Kind = model.SourceStreetView
	}

	desc.PanoramaID = extractIdentifier(trimmed, desc.Kind)
	if desc.Kind != model.SourceStreetView {
		desc.Zoom = extractZoom(trimmed)
	}

	return desc, nil
}

// extractIdentifier searches the URL text for a panorama identifier.
//
// An id=<token> parameter wins regardless of source kind (the match is a
// substring search, so panoid=<token> satisfies it too). Street View URLs
// additionally accept the URL-encoded panoid%3D<token> form and the
// 1s<token> path segment, tried in that order. Returns "" when nothing
// matches.
func extractIdentifier(rawURL string, kind model.SourceKind) string {
	if m := idPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}

	if kind != model.SourceStreetView {
		return ""
	}

	for _, re := range streetViewIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractZoom searches for zoom=<digits> then z=<digits>, case-insensitive.
// Defaults to zoom level 5 when the URL names neither.
func extractZoom(rawURL string) int {
	if m := zoomPattern.FindStringSubmatch(rawURL); m != nil {
		if z, err := strconv.Atoi(m[1]); err == nil {
			return z
		}
	}
	if m := zPattern.FindStringSubmatch(rawURL); m != nil {
		if z, err := strconv.Atoi(m[1]); err == nil {
			return z
		}
	}
	return 5
}

// TileURL builds the download URL for one tile coordinate.
//
// Street View sources use the fixed streetviewpixels endpoint with the
// given panorama id. Template sources substitute the [%X]/[%Y] placeholder
// tokens. Parameterized sources rewrite the x= and y= query values in place.
func TileURL(desc model.SourceDescriptor, panoID string, c model.TileCoordinate, zoom int) string {
	switch desc.Kind {
	case model.SourceStreetView:
		return StreetViewTileURL(panoID, c, zoom)
	case model.SourceTemplate:
		url := strings.ReplaceAll(desc.RawURL, "[%X]", strconv.Itoa(c.X))
		return strings.ReplaceAll(url, "[%Y]", strconv.Itoa(c.Y))
	default:
		url := paramXPattern.ReplaceAllString(desc.RawURL, "${1}"+strconv.Itoa(c.X))
		return paramYPattern.ReplaceAllString(url, "${1}"+strconv.Itoa(c.Y))
	}
}

// StreetViewTileURL builds the streetviewpixels endpoint URL for one tile.
func StreetViewTileURL(panoID string, c model.TileCoordinate, zoom int) string {
	return fmt.Sprintf(streetViewEndpoint, panoID, c.X, c.Y, zoom)
}

// FolderName derives a tile-directory name for sources without an
// extractable identifier. Google photosphere URLs yield a stable prefix of
// their gps-cs-s token; everything else falls back to a zoom-based name.
func FolderName(desc model.SourceDescriptor) string {
	if strings.Contains(desc.RawURL, "googleapis.com") {
		if m := photospherePattern.FindStringSubmatch(desc.RawURL); m != nil {
			token := m[1]
			if len(token) > 20 {
				token = token[:20]
			}
			return "photosphere_" + model.SanitizeID(token)
		}
		return fmt.Sprintf("photosphere_zoom%d", desc.Zoom)
	}
	return fmt.Sprintf("tiles_zoom%d", desc.Zoom)
}
