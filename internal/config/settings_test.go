package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defaults := DefaultSettings()
	if settings.DownloadWorkers != defaults.DownloadWorkers {
		t.Errorf("DownloadWorkers = %d, want %d", settings.DownloadWorkers, defaults.DownloadWorkers)
	}
	if settings.ZoomMode != "auto" {
		t.Errorf("ZoomMode = %q, want auto", settings.ZoomMode)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	settings := DefaultSettings()
	settings.OutputDir = "/data/panoramas"
	settings.DownloadWorkers = 3
	settings.ZoomMode = "fixed"
	settings.ZoomLevel = 4
	settings.DeleteTilesAfterStitch = false
	if err := settings.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.OutputDir != "/data/panoramas" {
		t.Errorf("OutputDir = %q", loaded.OutputDir)
	}
	if loaded.DownloadWorkers != 3 {
		t.Errorf("DownloadWorkers = %d, want 3", loaded.DownloadWorkers)
	}
	if loaded.ForcedZoom() != 4 {
		t.Errorf("ForcedZoom() = %d, want 4", loaded.ForcedZoom())
	}
	if loaded.DeleteTilesAfterStitch {
		t.Error("DeleteTilesAfterStitch = true, want false")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PANO_OUTPUT_DIR", "/env/out")
	t.Setenv("PANO_DOWNLOAD_WORKERS", "2")
	t.Setenv("PANO_ZOOM_MODE", "fixed")
	t.Setenv("PANO_ZOOM_LEVEL", "3")
	t.Setenv("PANO_DELETE_TILES", "false")
	t.Setenv("PANO_PROBE_WORKERS", "not-a-number") // ignored

	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.OutputDir != "/env/out" {
		t.Errorf("OutputDir = %q, want /env/out", settings.OutputDir)
	}
	if settings.DownloadWorkers != 2 {
		t.Errorf("DownloadWorkers = %d, want 2", settings.DownloadWorkers)
	}
	if settings.ForcedZoom() != 3 {
		t.Errorf("ForcedZoom() = %d, want 3", settings.ForcedZoom())
	}
	if settings.DeleteTilesAfterStitch {
		t.Error("DeleteTilesAfterStitch = true, want false")
	}
	if settings.ProbeWorkers != DefaultSettings().ProbeWorkers {
		t.Errorf("ProbeWorkers = %d, want default", settings.ProbeWorkers)
	}
}

func TestAutoZoomIsUnforced(t *testing.T) {
	settings := DefaultSettings()
	if got := settings.ForcedZoom(); got != -1 {
		t.Errorf("ForcedZoom() = %d, want -1", got)
	}
}
