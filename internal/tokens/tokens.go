// Package tokens estimates how many model tokens a caption will use.
package tokens

import (
	"errors"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

// ErrInvalidText is returned by the segmenter for text that is not valid UTF-8.
var ErrInvalidText = errors.New("tokens: text is not valid utf-8")

// Counter returns a token count for text.
type Counter interface {
	Count(text string) (int, error)
}

// Segmenter counts Unicode word segments (UAX #29), ignoring whitespace runs.
// Punctuation segments count as tokens of their own.
type Segmenter struct{}

// Count returns the number of non-whitespace word segments in text, or
// ErrInvalidText when text is not valid UTF-8.
func (Segmenter) Count(text string) (int, error) {
	if !utf8.ValidString(text) {
		return 0, ErrInvalidText
	}
	count := 0
	seg := words.FromString(text)
	for seg.Next() {
		if isSpace(seg.Value()) {
			continue
		}
		count++
	}
	return count, nil
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Estimate is the fallback heuristic: 1.3 tokens per whitespace-separated
// word, at least one for non-empty text.
func Estimate(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	n := int(math.Round(float64(len(strings.Fields(trimmed))) * 1.3))
	if n < 1 {
		return 1
	}
	return n
}

// Count uses primary when available and falls back to Estimate when it is nil
// or fails. The second result reports whether the fallback was used.
func Count(primary Counter, text string) (int, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	if primary == nil {
		return Estimate(text), true
	}
	n, err := primary.Count(text)
	if err != nil {
		return Estimate(text), true
	}
	return n, false
}

// ByName returns the counter selected in configuration. "estimate" yields nil
// so Count always takes the fallback path.
func ByName(name string) Counter {
	switch name {
	case "estimate":
		return nil
	default:
		return Segmenter{}
	}
}
