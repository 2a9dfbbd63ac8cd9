package rss

type Option func(o *options)

type options struct {
	scopeToItem bool
}

// ScopeToItem makes the parser to take item fields only from direct children of <item> element. By default the
// elements are matched by name regardless of their position, so for example channel's <image> inside an item
// overwrites item's image.
func ScopeToItem() Option {
	return func(o *options) {
		o.scopeToItem = true
	}
}
