package session

import (
	"github.com/KonishchevDmitry/rssreader/pkg/rss"
)

type Option func(o *options)

type options struct {
	onError       func(url string, err error)
	onDone        func(url string, items int)
	parserOptions []rss.Option
}

// OnError sets a handler which is called in the loop when the current session fails.
func OnError(handler func(url string, err error)) Option {
	return func(o *options) {
		o.onError = handler
	}
}

// OnDone sets a handler which is called in the loop when the current session successfully parses the whole document.
func OnDone(handler func(url string, items int)) Option {
	return func(o *options) {
		o.onDone = handler
	}
}

func ParserOptions(parserOptions ...rss.Option) Option {
	return func(o *options) {
		o.parserOptions = append(o.parserOptions, parserOptions...)
	}
}
