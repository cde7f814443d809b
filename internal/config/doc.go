// Package config provides configuration management for panorama-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - PANO_* environment variable overrides
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Pictures/Panoramas
//	// 8 concurrent downloads, 8 concurrent probes
//	// Automatic Street View zoom with fallback
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// Environment variables override the file on load: PANO_OUTPUT_DIR,
// PANO_DOWNLOAD_WORKERS, PANO_PROBE_WORKERS, PANO_ZOOM_MODE,
// PANO_ZOOM_LEVEL, PANO_DELETE_TILES, PANO_WRITE_SHORTCUT,
// PANO_GENERATE_PREVIEW, PANO_VERBOSE. Both commands call godotenv.Load
// first, so a .env file in the working directory can set them.
//
// # Saving Settings
//
//	settings.OutputDir = "/mnt/panoramas"
//	err := settings.Save("/path/to/config.json")
package config
