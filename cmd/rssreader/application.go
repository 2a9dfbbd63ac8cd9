package main

import (
	"context"
	"fmt"

	logging "github.com/KonishchevDmitry/go-easy-logging"

	"github.com/KonishchevDmitry/rssreader/internal/reader"
	"github.com/KonishchevDmitry/rssreader/internal/session"
	"github.com/KonishchevDmitry/rssreader/pkg/fetch"
	"github.com/KonishchevDmitry/rssreader/pkg/loop"
	"github.com/KonishchevDmitry/rssreader/pkg/snapshot"
)

// start runs the event loop and creates the reader on top of it. The returned function stops them both.
func (a *application) start(ctx context.Context, listener reader.Listener) (*reader.Reader, func() error) {
	eventLoop := loop.New()
	result := make(chan error, 1)
	go func() {
		result <- eventLoop.Run(context.WithoutCancel(ctx))
	}()

	feedReader := reader.New(
		fetch.New(a.config.FetchOptions()...), eventLoop, listener,
		session.ParserOptions(a.config.ParserOptions()...))

	return feedReader, func() error {
		feedReader.Cancel()
		err := feedReader.Wait(context.WithoutCancel(ctx))

		eventLoop.Stop()
		if runErr := <-result; runErr != nil {
			return runErr
		}
		return err
	}
}

func (a *application) restore(ctx context.Context, feedReader *reader.Reader) error {
	path := a.config.Snapshot.Path
	if path == "" {
		return nil
	}

	state, err := snapshot.Load(path)
	if err != nil {
		return err
	}

	if state, ok := state.Get(); ok {
		logging.L(ctx).Infof("Restoring %d items of %s from %s...", len(state.Items), state.URL, path)
		return feedReader.Restore(ctx, state)
	}

	return nil
}

func (a *application) save(ctx context.Context, feedReader *reader.Reader) error {
	path := a.config.Snapshot.Path
	if path == "" {
		return nil
	}

	// The snapshot is taken on shutdown, so cancellation must not prevent it
	state, err := feedReader.Snapshot(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("failed to take the reader snapshot: %w", err)
	}

	logging.L(ctx).Debugf("Saving the reader snapshot to %s...", path)
	return snapshot.Save(path, state)
}
