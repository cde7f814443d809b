package model

// SourceKind identifies how tile URLs are constructed for a panorama source.
type SourceKind int

const (
	// SourceStreetView is a Google Street View URL. Tiles are fetched from
	// the fixed streetviewpixels endpoint, keyed by panorama id.
	SourceStreetView SourceKind = iota

	// SourceTemplate is a URL containing literal [%X] and [%Y] placeholder
	// tokens that are substituted per tile coordinate.
	SourceTemplate

	// SourceParameterizedCoords is a concrete tile URL whose x= and y=
	// query parameters are rewritten per tile coordinate.
	SourceParameterizedCoords
)

// String returns a human-readable name for the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceStreetView:
		return "streetview"
	case SourceTemplate:
		return "template"
	case SourceParameterizedCoords:
		return "parameterized"
	}
	return "unknown"
}

// SourceDescriptor is the typed result of classifying an input URL.
//
// A descriptor is immutable once classified. PanoramaID may be empty when no
// identifier could be extracted from the URL text; the pipeline must not
// proceed past classification until the caller supplies one.
//
// Zoom carries the zoom hint extracted from Template and ParameterizedCoords
// URLs (default 5 when the URL names none). StreetView zoom selection is a
// fetch-time concern and is not recorded here.
type SourceDescriptor struct {
	// Kind determines how tile and probe URLs are built.
	Kind SourceKind

	// RawURL is the original input URL, unmodified.
	RawURL string

	// PanoramaID is the identifier extracted from the URL text.
	// Empty when none was found.
	PanoramaID string

	// Zoom is the zoom hint for Template/ParameterizedCoords sources.
	Zoom int
}

// HasIdentifier reports whether an identifier was extracted from the URL.
func (d *SourceDescriptor) HasIdentifier() bool {
	return d.PanoramaID != ""
}
