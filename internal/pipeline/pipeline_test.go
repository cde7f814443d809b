package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"panorama-downloader/internal/config"
	"panorama-downloader/internal/model"
)

// tileJPEG returns an encoded 64x64 JPEG tile.
func tileJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(64, 64, color.NRGBA{R: 120, G: 40, B: 200, A: 255})
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// tileServer serves a grid of tiles at /tiles/<x>_<y>.jpg for x < width
// and y < height. Anything else is a 404.
func tileServer(t *testing.T, width, height int) *httptest.Server {
	t.Helper()
	body := tileJPEG(t)
	handler := func(w http.ResponseWriter, r *http.Request) {
		var x, y int
		if _, err := fmt.Sscanf(r.URL.Path, "/tiles/%d_%d.jpg", &x, &y); err != nil {
			http.NotFound(w, r)
			return
		}
		if x < 0 || x >= width || y < 0 || y >= height {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		if r.Method == http.MethodHead {
			return
		}
		w.Write(body)
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

// drain collects every event until the stream closes.
func drain(events <-chan Event) func() []Event {
	done := make(chan []Event, 1)
	go func() {
		var all []Event
		for ev := range events {
			all = append(all, ev)
		}
		done <- all
	}()
	return func() []Event { return <-done }
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	settings := config.DefaultSettings()
	settings.OutputDir = t.TempDir()
	settings.DownloadWorkers = 2
	settings.ProbeWorkers = 2
	return settings
}

func TestRunFullPipeline(t *testing.T) {
	server := tileServer(t, 2, 1)
	settings := testSettings(t)

	runner := New(settings)
	wait := drain(runner.Events())

	// zoom=1 keeps the theoretical grid at 4x2, so probing detects 2x1.
	url := server.URL + "/tiles/[%X]_[%Y].jpg?id=pano1&zoom=1"
	err := runner.Run(context.Background(), Request{RawURL: url})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	panoPath := filepath.Join(settings.OutputDir, "pano1.jpg")
	img, err := imaging.Open(panoPath)
	if err != nil {
		t.Fatalf("opening panorama: %v", err)
	}
	if img.Bounds().Dx() != 128 || img.Bounds().Dy() != 64 {
		t.Errorf("panorama size = %dx%d, want 128x64", img.Bounds().Dx(), img.Bounds().Dy())
	}

	// Cleanup and sidecar policy.
	if _, err := os.Stat(filepath.Join(settings.OutputDir, "pano1")); !os.IsNotExist(err) {
		t.Error("tile directory was not removed after stitch")
	}
	shortcut, err := os.ReadFile(filepath.Join(settings.OutputDir, "pano1.url"))
	if err != nil {
		t.Fatalf("reading shortcut: %v", err)
	}
	if !strings.Contains(string(shortcut), "URL="+url) {
		t.Errorf("shortcut content = %q", shortcut)
	}

	events := wait()
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}
	last, ok := events[len(events)-1].(Finished)
	if !ok {
		t.Fatalf("last event = %T, want Finished", events[len(events)-1])
	}
	if last.Err != nil {
		t.Errorf("Finished.Err = %v", last.Err)
	}
	var sawDownload bool
	for _, ev := range events {
		if p, ok := ev.(Progress); ok && p.Label == "Downloading tiles" {
			sawDownload = true
		}
	}
	if !sawDownload {
		t.Error("no download progress events emitted")
	}
}

func TestRunStreetViewWithoutIdentifier(t *testing.T) {
	runner := New(testSettings(t))
	wait := drain(runner.Events())

	err := runner.Run(context.Background(), Request{RawURL: "https://maps.example.com/panorama/view"})
	if !errors.Is(err, model.ErrIdentifierMissing) {
		t.Fatalf("Run() error = %v, want ErrIdentifierMissing", err)
	}

	events := wait()
	last := events[len(events)-1].(Finished)
	if !errors.Is(last.Err, model.ErrIdentifierMissing) {
		t.Errorf("Finished.Err = %v, want ErrIdentifierMissing", last.Err)
	}
}

func TestRunAllTilesFail(t *testing.T) {
	server := tileServer(t, 0, 0) // 404 everywhere
	runner := New(testSettings(t))
	wait := drain(runner.Events())

	url := server.URL + "/tiles/[%X]_[%Y].jpg?id=dead&zoom=1"
	err := runner.Run(context.Background(), Request{RawURL: url})
	if !errors.Is(err, model.ErrDownloadFailed) {
		t.Fatalf("Run() error = %v, want ErrDownloadFailed", err)
	}
	wait()
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	server := tileServer(t, 2, 1)
	settings := testSettings(t)

	runner := New(settings)
	wait := drain(runner.Events())

	errs := runner.RunBatch(context.Background(), []Request{
		{RawURL: "not-a-url"},
		{RawURL: server.URL + "/tiles/[%X]_[%Y].jpg?id=pano2&zoom=1"},
	})

	var verr *model.ValidationError
	if !errors.As(errs[0], &verr) {
		t.Errorf("errs[0] = %v, want ValidationError", errs[0])
	}
	if errs[1] != nil {
		t.Errorf("errs[1] = %v, want nil", errs[1])
	}
	if _, err := os.Stat(filepath.Join(settings.OutputDir, "pano2.jpg")); err != nil {
		t.Errorf("second job's panorama missing: %v", err)
	}

	events := wait()
	if _, ok := events[len(events)-1].(Finished); !ok {
		t.Errorf("last event = %T, want Finished", events[len(events)-1])
	}
}

func TestPrepareIdentifierResolution(t *testing.T) {
	settings := testSettings(t)

	t.Run("caller-supplied id is sanitized", func(t *testing.T) {
		r := New(settings)
		job, err := r.prepare(Request{
			RawURL:     "https://maps.example.com/panorama/view",
			Identifier: "my id!",
		})
		if err != nil {
			t.Fatalf("prepare() error = %v", err)
		}
		if job.PanoramaID != "my_id_" {
			t.Errorf("PanoramaID = %q, want my_id_", job.PanoramaID)
		}
	})

	t.Run("template without id gets folder name and timestamp", func(t *testing.T) {
		r := New(settings)
		r.now = func() time.Time {
			return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
		}
		job, err := r.prepare(Request{RawURL: "https://example.com/t/[%X]/[%Y].jpg?zoom=3"})
		if err != nil {
			t.Fatalf("prepare() error = %v", err)
		}
		if job.PanoramaID != "tiles_zoom3" {
			t.Errorf("PanoramaID = %q, want tiles_zoom3", job.PanoramaID)
		}
		if job.Name != "20240315093000" {
			t.Errorf("Name = %q, want 20240315093000", job.Name)
		}
	})

	t.Run("extracted id keeps empty name", func(t *testing.T) {
		r := New(settings)
		job, err := r.prepare(Request{RawURL: "https://example.com/t/[%X]/[%Y].jpg?id=abc"})
		if err != nil {
			t.Fatalf("prepare() error = %v", err)
		}
		if job.PanoramaID != "abc" {
			t.Errorf("PanoramaID = %q, want abc", job.PanoramaID)
		}
		if job.Name != "" {
			t.Errorf("Name = %q, want empty", job.Name)
		}
	})
}
