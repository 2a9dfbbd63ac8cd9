package feed

import "slices"

// List is an ordered append-only sequence of items. It's not safe for concurrent use.
type List struct {
	items []Item
}

func NewList(items ...Item) *List {
	return &List{items: slices.Clone(items)}
}

func (l *List) Append(item Item) int {
	l.items = append(l.items, item)
	return len(l.items) - 1
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) Get(index int) (Item, bool) {
	if index < 0 || index >= len(l.items) {
		return Item{}, false
	}
	return l.items[index], true
}

func (l *List) Items() []Item {
	return slices.Clone(l.items)
}
