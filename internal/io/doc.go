// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - File writing
//   - Directory creation
//   - Internet-shortcut sidecar generation
//
// # File Operations
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/file.txt", []byte("content"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Shortcut Sidecars
//
// WriteShortcut records the original source URL next to a finished
// panorama so the source can be revisited later:
//
//	err := ioutils.WriteShortcut(ctx, "/panoramas/abc.url", srcURL)
package ioutils
