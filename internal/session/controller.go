// Package session implements single-flight feed fetching: starting a new fetch cancels the previous one and
// guarantees that no items of the superseded session reach the event loop afterwards.
package session

import (
	"context"
	"io"
	"sync"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/mo"
	"go.uber.org/atomic"

	"github.com/KonishchevDmitry/rssreader/internal/util"
	"github.com/KonishchevDmitry/rssreader/pkg/feed"
	"github.com/KonishchevDmitry/rssreader/pkg/loop"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type Controller struct {
	metrics
	fetcher Fetcher
	loop    *loop.Loop
	options options

	// ID of the session whose deliveries are accepted by the loop. Zero means none.
	current   atomic.Uint64
	waitGroup sync.WaitGroup

	lock    util.GuardedLock
	lastID  uint64
	session mo.Option[*session]
}

var _ prometheus.Collector = &Controller{}

func NewController(fetcher Fetcher, loop *loop.Loop, opts ...Option) *Controller {
	var options options
	for _, opt := range opts {
		opt(&options)
	}

	return &Controller{
		metrics: makeMetrics(),
		fetcher: fetcher,
		loop:    loop,
		options: options,
	}
}

// StartFetch cancels the current session (if any) and starts fetching of the specified URL. onItem is called in the
// loop for each parsed item while the session stays current.
func (c *Controller) StartFetch(ctx context.Context, url string, onItem func(item feed.Item)) {
	lock := c.lock.Lock()
	defer lock.UnlockIfLocked()

	c.cancelLocked()

	c.lastID++
	session := newSession(ctx, c.lastID, url)
	c.session = mo.Some(session)
	c.current.Store(session.id)

	c.waitGroup.Go(func() {
		c.run(session, onItem)
	})
}

// Cancel cancels the current session without starting another one.
func (c *Controller) Cancel() {
	c.lock.Do(func() {
		c.current.Store(0)
		c.cancelLocked()
	})
}

// Current returns URL of the in-flight session.
func (c *Controller) Current() mo.Option[string] {
	lock := c.lock.Lock()
	defer lock.Unlock()

	if current, ok := c.session.Get(); ok {
		return mo.Some(current.url)
	}
	return mo.None[string]()
}

// Wait waits for all background sessions to exit.
func (c *Controller) Wait() {
	c.waitGroup.Wait()
}

func (c *Controller) cancelLocked() {
	if current, ok := c.session.Get(); ok {
		logging.L(current.ctx).Debugf("Cancelling fetching of %s...", current.url)
		current.cancel()
		c.session = mo.None[*session]()
	}
}

func (c *Controller) run(session *session, onItem func(item feed.Item)) {
	items, err := session.run(c.fetcher, &c.metrics, c.options.parserOptions, func(item feed.Item) {
		c.deliver(session, func() {
			c.deliveredItems.Inc()
			onItem(item)
		}, true)
	})

	// The session is no longer in flight by the time its result reaches the loop
	c.finish(session)

	if err != nil {
		if handler := c.options.onError; handler != nil {
			c.deliver(session, func() {
				handler(session.url, err)
			}, false)
		}
	} else if handler := c.options.onDone; handler != nil {
		c.deliver(session, func() {
			handler(session.url, items)
		}, false)
	}
}

// deliver posts the task to the loop. The task is executed only if the session is still current at the time of the
// execution.
func (c *Controller) deliver(session *session, task func(), item bool) {
	c.loop.Post(func() {
		if c.current.Load() != session.id {
			if item {
				c.droppedItems.Inc()
			}
			return
		}
		task()
	})
}

func (c *Controller) finish(finished *session) {
	finished.cancel()

	c.lock.Do(func() {
		if current, ok := c.session.Get(); ok && current == finished {
			c.session = mo.None[*session]()
		}
	})
}
