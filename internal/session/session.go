package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	logging "github.com/KonishchevDmitry/go-easy-logging"

	"github.com/KonishchevDmitry/rssreader/internal/util"
	"github.com/KonishchevDmitry/rssreader/pkg/feed"
	"github.com/KonishchevDmitry/rssreader/pkg/fetch"
	"github.com/KonishchevDmitry/rssreader/pkg/rss"
)

var ErrPanicked = errors.New("fetch session has panicked")

type session struct {
	id     uint64
	url    string
	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(ctx context.Context, id uint64, url string) *session {
	ctx, cancel := context.WithCancel(ctx)
	return &session{
		id:     id,
		url:    url,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *session) run(
	fetcher Fetcher, metrics *metrics, parserOptions []rss.Option, onItem func(item feed.Item),
) (int, error) {
	ctx := fetch.WithContext(s.ctx, metrics.fetchDuration)
	logging.L(ctx).Infof("Fetching %s...", s.url)

	var count int
	startTime := time.Now()
	err := s.fetch(ctx, fetcher, parserOptions, func(item feed.Item) {
		count++
		onItem(item)
	})
	metrics.sessionDuration.Observe(time.Since(startTime).Seconds())

	switch {
	case err == nil:
		logging.L(ctx).Infof("%s fetched: %d items.", s.url, count)
		metrics.sessionStatus.WithLabelValues(sessionStatusSuccess).Inc()
	case errors.Is(err, ErrPanicked):
		logging.L(ctx).Errorf("Failed to fetch %s: %s", s.url, err)
		metrics.sessionStatus.WithLabelValues(sessionStatusPanic).Inc()
	case ctx.Err() != nil:
		logging.L(ctx).Debugf("Fetching of %s has been cancelled after %d items.", s.url, count)
		metrics.sessionStatus.WithLabelValues(sessionStatusCancelled).Inc()
	case util.IsTemporaryError(err):
		logging.L(ctx).Warnf("Fetch session has failed: %s.", err)
		metrics.sessionStatus.WithLabelValues(sessionStatusUnavailable).Inc()
	default:
		logging.L(ctx).Errorf("Fetch session has failed: %s.", err)
		metrics.sessionStatus.WithLabelValues(sessionStatusError).Inc()
	}

	return count, err
}

func (s *session) fetch(
	ctx context.Context, fetcher Fetcher, parserOptions []rss.Option, onItem func(item feed.Item),
) (retErr error) {
	defer func() {
		if err := recover(); err != nil {
			stack := debug.Stack()
			retErr = fmt.Errorf("%w: %v\n%s", ErrPanicked, err, bytes.TrimRight(stack, "\n"))
		}
	}()

	body, err := fetcher.Fetch(ctx, s.url)
	if err != nil {
		return err
	}
	defer func() {
		if err := body.Close(); err != nil {
			logging.L(ctx).Errorf("Failed to close %s response body: %s.", s.url, err)
		}
	}()

	if err := rss.Parse(ctx, body, onItem, parserOptions...); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.url, err)
	}

	return nil
}
