package reader

import (
	"github.com/KonishchevDmitry/rssreader/pkg/feed"
)

// Listener receives the reader state changes. All methods are called in the loop.
type Listener interface {
	// Reset is called when the list is cleared before fetching of a new URL or on snapshot restoring.
	Reset(url string)
	Add(index int, item feed.Item)
	Failed(url string, err error)
	Done(url string, items int)
}

type NopListener struct{}

var _ Listener = NopListener{}

func (NopListener) Reset(string)         {}
func (NopListener) Add(int, feed.Item)   {}
func (NopListener) Failed(string, error) {}
func (NopListener) Done(string, int)     {}
