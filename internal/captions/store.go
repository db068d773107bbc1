// Package captions reads and writes caption text files. Failures never cross
// this boundary as errors: reads degrade to an empty caption and writes
// report false, with a diagnostic in the log file.
package captions

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicstack/caption-pair-manager/internal/logging"
)

// Store persists caption text.
type Store interface {
	Read(path string) string
	Write(path, text string) bool
}

// FS is the filesystem-backed Store.
type FS struct{}

// New returns the filesystem store.
func New() FS {
	return FS{}
}

// Read returns the trimmed contents of path, or "" when it cannot be read.
func (FS) Read(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Error(fmt.Errorf("read caption %s: %w", path, err))
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Write overwrites path with text. The existing file mode is kept.
func (FS) Write(path, text string) bool {
	if strings.TrimSpace(path) == "" {
		logging.Error(fmt.Errorf("write caption: empty path"))
		return false
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		if !info.Mode().IsRegular() {
			logging.Error(fmt.Errorf("write caption %s: not a regular file", filepath.Base(path)))
			return false
		}
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		logging.Error(fmt.Errorf("write caption %s: %w", path, err))
		return false
	}
	return true
}
