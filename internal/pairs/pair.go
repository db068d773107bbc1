// Package pairs discovers image/caption pairs in a folder.
package pairs

import (
	"path/filepath"
	"strings"
)

// CaptionExt is the extension of caption files. Matching is case-insensitive.
const CaptionExt = ".txt"

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// Pair is an image file and a caption file sharing a base name.
type Pair struct {
	ImagePath   string
	CaptionPath string
	BaseName    string
	Caption     string
	Dirty       bool
	ImageSize   int64
}

// ImageExtensions lists the supported image extensions in lowercase.
func ImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}
}

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// IsCaption reports whether name has the caption extension.
func IsCaption(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == CaptionExt
}

// SplitName returns the base name and the lowercase extension of a file name.
func SplitName(name string) (base, ext string) {
	raw := filepath.Ext(name)
	return strings.TrimSuffix(name, raw), strings.ToLower(raw)
}

// Clone copies a pair slice.
func Clone(list []Pair) []Pair {
	if len(list) == 0 {
		return nil
	}
	dup := make([]Pair, len(list))
	copy(dup, list)
	return dup
}
