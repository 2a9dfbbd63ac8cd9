package main

import (
	"context"

	logging "github.com/KonishchevDmitry/go-easy-logging"

	"github.com/KonishchevDmitry/rssreader/internal/reader"
	"github.com/KonishchevDmitry/rssreader/pkg/server"
)

type serveCommand struct {
	Listen        string `help:"Address to serve the reader on (overrides server.listen)." placeholder:"ADDR"`
	MetricsListen string `help:"Address to serve the metrics on (overrides server.metrics_listen)." placeholder:"ADDR"`
}

func (c *serveCommand) Run(ctx context.Context, app *application) (retErr error) {
	listen, metricsListen := app.config.Server.Listen, app.config.Server.MetricsListen
	if c.Listen != "" {
		listen = c.Listen
	}
	if c.MetricsListen != "" {
		metricsListen = c.MetricsListen
	}

	feedReader, stop := app.start(ctx, reader.NopListener{})
	defer func() {
		if err := stop(); err != nil && retErr == nil {
			retErr = err
		}
	}()

	if err := app.restore(ctx, feedReader); err != nil {
		return err
	}

	if err := server.New(feedReader).Serve(ctx, listen, metricsListen); err != nil {
		return err
	}

	logging.L(ctx).Infof("Stopping the reader...")
	feedReader.Cancel()

	return app.save(ctx, feedReader)
}
