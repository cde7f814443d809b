package source

import (
	"errors"
	"strings"
	"testing"

	"panorama-downloader/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantKind model.SourceKind
		wantID   string
		wantZoom int
	}{
		{
			name:     "template placeholders",
			url:      "https://example.com/tile?x=[%X]&y=[%Y]&z=5",
			wantKind: model.SourceTemplate,
			wantZoom: 5,
		},
		{
			name:     "template with explicit zoom",
			url:      "https://example.com/t/[%X]/[%Y]?zoom=3",
			wantKind: model.SourceTemplate,
			wantZoom: 3,
		},
		{
			name:     "parameterized coordinates",
			url:      "https://example.com/tile?x=0&y=0&z=4",
			wantKind: model.SourceParameterizedCoords,
			wantZoom: 4,
		},
		{
			name:     "parameterized uppercase params",
			url:      "https://example.com/tile?X=12&Y=7",
			wantKind: model.SourceParameterizedCoords,
			wantZoom: 5,
		},
		{
			name:     "parameterized with id",
			url:      "https://x.com/y?id=ABC123&x=1&y=2&z=5",
			wantKind: model.SourceParameterizedCoords,
			wantID:   "ABC123",
			wantZoom: 5,
		},
		{
			name:     "street view with panoid",
			url:      "https://www.google.com/maps/@?api=1&map_action=pano&panoid=CAoSLEFGMVFpcE",
			wantKind: model.SourceStreetView,
			wantID:   "CAoSLEFGMVFpcE",
		},
		{
			name:     "street view encoded panoid",
			url:      "https://www.google.com/maps/data=!3m1!panoid%3DaB3_x-Yz!4m2",
			wantKind: model.SourceStreetView,
			wantID:   "aB3_x-Yz",
		},
		{
			name:     "street view 1s token",
			url:      "https://www.google.com/maps/@48.8,2.3,3a,75y/data=!3m7!1e1!3m5!1sXyZ_9-AbC!2e0",
			wantKind: model.SourceStreetView,
			wantID:   "XyZ_9-AbC",
		},
		{
			name:     "street view without identifier",
			url:      "https://www.google.com/maps/@48.8,2.3,3a,75y",
			wantKind: model.SourceStreetView,
			wantID:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Classify(tt.url)
			if err != nil {
				t.Fatalf("Classify(%q) error: %v", tt.url, err)
			}
			if desc.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", desc.Kind, tt.wantKind)
			}
			if desc.PanoramaID != tt.wantID {
				t.Errorf("PanoramaID = %q, want %q", desc.PanoramaID, tt.wantID)
			}
			if desc.Kind != model.SourceStreetView && desc.Zoom != tt.wantZoom {
				t.Errorf("Zoom = %d, want %d", desc.Zoom, tt.wantZoom)
			}
			if desc.RawURL != tt.url {
				t.Errorf("RawURL = %q, want original input", desc.RawURL)
			}
		})
	}
}

func TestClassifyInvalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"no scheme", "example.com/tile?x=[%X]&y=[%Y]"},
		{"ftp scheme", "ftp://example.com/tile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.url)
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Classify(%q) error = %v, want ValidationError", tt.url, err)
			}
		})
	}
}

func TestTileURL(t *testing.T) {
	c := model.TileCoordinate{X: 7, Y: 3}

	t.Run("street view", func(t *testing.T) {
		desc := model.SourceDescriptor{Kind: model.SourceStreetView}
		got := TileURL(desc, "myPanoId", c, 5)
		want := "https://streetviewpixels-pa.googleapis.com/v1/tile?cb_client=maps_sv.tactile&panoid=myPanoId&x=7&y=3&zoom=5&nbt=1&fover=2"
		if got != want {
			t.Errorf("got %q\nwant %q", got, want)
		}
	})

	t.Run("template substitution", func(t *testing.T) {
		desc := model.SourceDescriptor{
			Kind:   model.SourceTemplate,
			RawURL: "https://example.com/tile?x=[%X]&y=[%Y]&z=5",
		}
		got := TileURL(desc, "", c, 5)
		if got != "https://example.com/tile?x=7&y=3&z=5" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("parameterized substitution", func(t *testing.T) {
		desc := model.SourceDescriptor{
			Kind:   model.SourceParameterizedCoords,
			RawURL: "https://example.com/tile?x=0&y=0&z=5",
		}
		got := TileURL(desc, "", c, 5)
		if got != "https://example.com/tile?x=7&y=3&z=5" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("parameterized preserves other params", func(t *testing.T) {
		desc := model.SourceDescriptor{
			Kind:   model.SourceParameterizedCoords,
			RawURL: "https://example.com/tile?size=512&x=10&y=20&fmt=jpg",
		}
		got := TileURL(desc, "", c, 5)
		if got != "https://example.com/tile?size=512&x=7&y=3&fmt=jpg" {
			t.Errorf("got %q", got)
		}
	})
}

func TestFolderName(t *testing.T) {
	tests := []struct {
		name string
		desc model.SourceDescriptor
		want string
	}{
		{
			name: "photosphere token",
			desc: model.SourceDescriptor{
				RawURL: "https://lh3.googleapis.com/gps-cs-s/AB12cd34EF56gh78IJ90kl12MN=x[%X]-y[%Y]",
				Zoom:   5,
			},
			want: "photosphere_AB12cd34EF56gh78IJ90",
		},
		{
			name: "googleapis without token",
			desc: model.SourceDescriptor{
				RawURL: "https://tiles.googleapis.com/v1/custom?x=[%X]&y=[%Y]",
				Zoom:   4,
			},
			want: "photosphere_zoom4",
		},
		{
			name: "generic template",
			desc: model.SourceDescriptor{
				RawURL: "https://example.com/tile?x=[%X]&y=[%Y]",
				Zoom:   5,
			},
			want: "tiles_zoom5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FolderName(tt.desc); got != tt.want {
				t.Errorf("FolderName() = %q, want %q", got, tt.want)
			}
			if strings.ContainsAny(tt.want, "/\\") {
				t.Fatal("folder names must not contain path separators")
			}
		})
	}
}
