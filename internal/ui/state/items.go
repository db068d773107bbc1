package state

// Item is one row of the jump list: a pair's base name and its position in
// the session list.
type Item struct {
	Index int
	Name  string
}

// ItemsFromNames numbers names in order.
func ItemsFromNames(names []string) []Item {
	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{Index: i, Name: name}
	}
	return items
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
