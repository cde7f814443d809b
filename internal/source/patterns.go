package source

import "regexp"

// Patterns are compiled once; all URL searches are case-insensitive except
// the [%X]/[%Y] placeholder tokens, which are literal.
var (
	// x=/y= query-style parameters with digit values, separated by ? or &.
	paramXPattern = regexp.MustCompile(`(?i)([?&]x=)\d+`)
	paramYPattern = regexp.MustCompile(`(?i)([?&]y=)\d+`)

	// id=<token> anywhere in the URL. Also matches the tail of panoid=.
	idPattern = regexp.MustCompile(`(?i)id=([A-Za-z0-9_-]+)`)

	// Street View fallbacks, tried in order: URL-encoded panoid, plain
	// panoid, then the 1s<token> segment of the maps data blob.
	streetViewIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)panoid%3D([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`(?i)panoid=([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`1s([A-Za-z0-9_-]+)`),
	}

	// zoom=<digits> preferred over z=<digits>.
	zoomPattern = regexp.MustCompile(`(?i)zoom=(\d+)`)
	zPattern    = regexp.MustCompile(`(?i)z=(\d+)`)

	// Google photosphere token used for folder naming.
	photospherePattern = regexp.MustCompile(`gps-cs-s/([^=]+)`)
)
