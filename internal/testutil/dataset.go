package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Files maps file names to contents. Image files only need to exist, so any
// placeholder bytes will do.
type Files map[string]string

// Dataset creates a temporary folder containing files and returns its path.
func Dataset(t *testing.T, files Files) string {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, dir, files)
	return dir
}

// WriteFiles writes files into dir, creating parent folders for nested names.
func WriteFiles(t *testing.T, dir string, files Files) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// ReadFile returns the contents of dir/name, failing the test on error.
func ReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

// RemoveFile deletes dir/name, failing the test on error.
func RemoveFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.Remove(filepath.Join(dir, name)); err != nil {
		t.Fatalf("remove %s: %v", name, err)
	}
}

// PNG is a stand-in image body; the application never decodes images.
const PNG = "\x89PNG\r\n\x1a\n"

// UseTempLog points the logger at a per-test file.
func UseTempLog(t *testing.T, configure func(string)) {
	t.Helper()
	configure(filepath.Join(t.TempDir(), "test.log"))
	t.Cleanup(func() { configure("") })
}

// RepoRoot walks up from the working directory to the folder holding go.mod.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
