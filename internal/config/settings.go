package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDir string `json:"output_dir"`

	// Concurrency settings
	DownloadWorkers int `json:"download_workers"`
	ProbeWorkers    int `json:"probe_workers"`

	// Zoom settings. ZoomMode is "auto" or "fixed"; ZoomLevel is only
	// consulted in fixed mode.
	ZoomMode  string `json:"zoom_mode"`
	ZoomLevel int    `json:"zoom_level"`

	// Post-stitch behavior
	DeleteTilesAfterStitch bool `json:"delete_tiles_after_stitch"`
	WriteShortcut          bool `json:"write_shortcut"`
	GeneratePreview        bool `json:"generate_preview"`
	PreviewMaxWidth        int  `json:"preview_max_width"`

	// Logging
	Verbose bool `json:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		OutputDir: filepath.Join(homeDir, "Pictures", "Panoramas"),

		DownloadWorkers: 8,
		ProbeWorkers:    8,

		ZoomMode:  "auto",
		ZoomLevel: 5,

		DeleteTilesAfterStitch: true,
		WriteShortcut:          true,
		GeneratePreview:        false,
		PreviewMaxWidth:        2048,

		Verbose: false,
	}
}

// ForcedZoom returns the zoom level a Street View fetch must use, or -1
// for automatic zoom selection with fallback.
func (s *Settings) ForcedZoom() int {
	if s.ZoomMode == "fixed" {
		return s.ZoomLevel
	}
	return -1
}

// Load reads settings from a JSON file, then applies PANO_* environment
// overrides. A missing file yields defaults, not an error.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	settings.applyEnv()
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// applyEnv overlays PANO_* environment variables onto the settings.
// Unset or unparsable values leave the existing setting untouched.
func (s *Settings) applyEnv() {
	if v := os.Getenv("PANO_OUTPUT_DIR"); v != "" {
		s.OutputDir = v
	}
	if v, ok := envInt("PANO_DOWNLOAD_WORKERS"); ok {
		s.DownloadWorkers = v
	}
	if v, ok := envInt("PANO_PROBE_WORKERS"); ok {
		s.ProbeWorkers = v
	}
	if v := os.Getenv("PANO_ZOOM_MODE"); v == "auto" || v == "fixed" {
		s.ZoomMode = v
	}
	if v, ok := envInt("PANO_ZOOM_LEVEL"); ok {
		s.ZoomLevel = v
	}
	if v, ok := envBool("PANO_DELETE_TILES"); ok {
		s.DeleteTilesAfterStitch = v
	}
	if v, ok := envBool("PANO_WRITE_SHORTCUT"); ok {
		s.WriteShortcut = v
	}
	if v, ok := envBool("PANO_GENERATE_PREVIEW"); ok {
		s.GeneratePreview = v
	}
	if v, ok := envBool("PANO_VERBOSE"); ok {
		s.Verbose = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
