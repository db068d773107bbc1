package session

import (
	"golang.org/x/text/language"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
)

var defaultLang = language.Und

// Direction selects which way Navigate moves.
type Direction string

const (
	Forward  Direction = bridge.Forward
	Backward Direction = bridge.Backward
)

// ParseDirection validates a direction received from a surface.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Forward, Backward:
		return Direction(s), true
	}
	return "", false
}

type cursor struct {
	index int
}

// clamp resets the cursor to the first pair when it falls outside the list.
func (c *cursor) clamp(n int) {
	if c.index < 0 || c.index >= n {
		c.index = 0
	}
}

// target returns where a move would land, never wrapping, and whether that
// differs from the current position.
func (c cursor) target(n int, dir Direction, step int) (int, bool) {
	if n == 0 || step < 1 {
		return c.index, false
	}
	if step > n {
		step = n
	}
	to := c.index
	switch dir {
	case Forward:
		to += step
		if to > n-1 {
			to = n - 1
		}
	case Backward:
		to -= step
		if to < 0 {
			to = 0
		}
	default:
		return c.index, false
	}
	return to, to != c.index
}
