package ioutils

import (
	"context"
	"fmt"
	"os"
)

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused but reserved for future use)
//   - path: File path to write to
//   - data: Bytes to write
func WriteFile(ctx context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/panoramas/abc123")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteShortcut writes an internet-shortcut sidecar pointing at url.
//
// The format is the classic .url ini layout, readable by desktop
// environments on every platform:
//
//	[InternetShortcut]
//	URL=<url>
//
// Example:
//
//	err := WriteShortcut(ctx, job.ShortcutPath(), job.Descriptor.RawURL)
func WriteShortcut(ctx context.Context, path, url string) error {
	content := fmt.Sprintf("[InternetShortcut]\nURL=%s\n", url)
	return WriteFile(ctx, path, []byte(content))
}
