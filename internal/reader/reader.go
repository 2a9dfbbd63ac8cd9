// Package reader holds the list of fetched items and feeds it from the session controller. The state is owned by
// the event loop: mutations happen in the loop tasks and the getters read it through loop.Call.
package reader

import (
	"context"
	"fmt"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/samber/mo"

	"github.com/KonishchevDmitry/rssreader/internal/session"
	"github.com/KonishchevDmitry/rssreader/pkg/feed"
	"github.com/KonishchevDmitry/rssreader/pkg/loop"
	"github.com/KonishchevDmitry/rssreader/pkg/snapshot"
)

type Reader struct {
	loop       *loop.Loop
	listener   Listener
	controller *session.Controller

	url       string
	list      *feed.List
	selection mo.Option[int]
}

func New(fetcher session.Fetcher, loop *loop.Loop, listener Listener, opts ...session.Option) *Reader {
	reader := &Reader{
		loop:     loop,
		listener: listener,
		list:     feed.NewList(),
	}

	opts = append(opts,
		session.OnError(func(url string, err error) {
			reader.listener.Failed(url, err)
		}),
		session.OnDone(func(url string, items int) {
			reader.listener.Done(url, items)
		}),
	)
	reader.controller = session.NewController(fetcher, loop, opts...)

	return reader
}

func (r *Reader) Controller() *session.Controller {
	return r.controller
}

// Open clears the list and starts fetching of the specified URL superseding the current fetch.
func (r *Reader) Open(ctx context.Context, url string) error {
	// The session must outlive the caller (an HTTP request, for example)
	sessionCtx := context.WithoutCancel(ctx)

	return r.loop.Call(ctx, func() {
		logging.L(ctx).Debugf("Opening %s...", url)
		r.reset(url, nil, mo.None[int]())

		r.controller.StartFetch(sessionCtx, url, func(item feed.Item) {
			r.listener.Add(r.list.Append(item), item)
		})
	})
}

func (r *Reader) Cancel() {
	r.controller.Cancel()
}

// Wait waits for all fetch sessions to exit and for the loop to process everything they have delivered.
func (r *Reader) Wait(ctx context.Context) error {
	r.controller.Wait()
	return r.loop.Call(ctx, func() {})
}

func (r *Reader) URL(ctx context.Context) (url string, err error) {
	err = r.loop.Call(ctx, func() {
		url = r.url
	})
	return
}

func (r *Reader) Items(ctx context.Context) (items []feed.Item, err error) {
	err = r.loop.Call(ctx, func() {
		items = r.list.Items()
	})
	return
}

func (r *Reader) Item(ctx context.Context, index int) (item mo.Option[feed.Item], err error) {
	err = r.loop.Call(ctx, func() {
		if value, ok := r.list.Get(index); ok {
			item = mo.Some(value)
		}
	})
	return
}

func (r *Reader) Select(ctx context.Context, index int) error {
	var err error
	if callErr := r.loop.Call(ctx, func() {
		if index < 0 || index >= r.list.Len() {
			err = fmt.Errorf("invalid item index: %d", index)
			return
		}
		r.selection = mo.Some(index)
	}); callErr != nil {
		return callErr
	}
	return err
}

func (r *Reader) Selection(ctx context.Context) (selection mo.Option[int], err error) {
	err = r.loop.Call(ctx, func() {
		selection = r.selection
	})
	return
}

func (r *Reader) Snapshot(ctx context.Context) (state *snapshot.Snapshot, err error) {
	err = r.loop.Call(ctx, func() {
		state = &snapshot.Snapshot{
			URL:       r.url,
			Items:     r.list.Items(),
			Selection: r.selection,
		}
	})
	return
}

// Restore cancels the current fetch and installs the snapshot state.
func (r *Reader) Restore(ctx context.Context, state *snapshot.Snapshot) error {
	return r.loop.Call(ctx, func() {
		logging.L(ctx).Debugf("Restoring %d items of %s...", len(state.Items), state.URL)
		r.controller.Cancel()
		r.reset(state.URL, state.Items, state.Selection)

		for index, item := range state.Items {
			r.listener.Add(index, item)
		}
	})
}

func (r *Reader) reset(url string, items []feed.Item, selection mo.Option[int]) {
	r.url = url
	r.list = feed.NewList(items...)
	r.selection = selection
	r.listener.Reset(url)
}
