package state

// Level holds the jump list: the full set of pairs, the filtered view, the
// cursor into that view and the scroll offset.
type Level struct {
	Items          []Item
	Full           []Item
	Filter         string
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewLevel constructs a Level over items with the cursor on the first row.
func NewLevel(items []Item) *Level {
	l := &Level{LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the row showing the pair at pairIndex, or -1.
func (l *Level) IndexOf(pairIndex int) int {
	for i, item := range l.Items {
		if item.Index == pairIndex {
			return i
		}
	}
	return -1
}

// Selected returns the item under the cursor.
func (l *Level) Selected() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the list after a rescan, keeping the filter.
func (l *Level) UpdateItems(items []Item) {
	prevOffset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.applyFilter()
	if len(l.Items) == 0 || prevOffset < 0 || prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}

// Focus moves the cursor to the row of pairIndex when it is visible.
func (l *Level) Focus(pairIndex int) bool {
	idx := l.IndexOf(pairIndex)
	if idx < 0 {
		return false
	}
	moved := l.Cursor != idx
	l.Cursor = idx
	return moved
}
