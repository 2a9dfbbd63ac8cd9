package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	logging "github.com/KonishchevDmitry/go-easy-logging"

	"github.com/KonishchevDmitry/rssreader/internal/reader"
	"github.com/KonishchevDmitry/rssreader/pkg/feed"
)

type readCommand struct {
	URLs []string `arg:"" optional:"" name:"url" help:"Feed URLs to fetch one after another."`
}

func (c *readCommand) Run(ctx context.Context, app *application) error {
	return c.run(ctx, app, os.Stdin, os.Stdout)
}

func (c *readCommand) run(ctx context.Context, app *application, input io.Reader, output io.Writer) (retErr error) {
	feedReader, stop := app.start(ctx, &printer{output: output})
	defer func() {
		if err := stop(); err != nil && retErr == nil {
			retErr = err
		}
	}()

	if err := app.restore(ctx, feedReader); err != nil {
		return err
	}

	for _, url := range c.URLs {
		if err := feedReader.Open(ctx, url); err != nil {
			return err
		}
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

scan:
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				break scan
			}

			if url := strings.TrimSpace(line); url != "" {
				if err := feedReader.Open(ctx, url); err != nil {
					return err
				}
			}

		case <-ctx.Done():
			logging.L(ctx).Infof("Interrupted.")
			feedReader.Cancel()
			break scan
		}
	}

	select {
	case err := <-scanErr:
		if err != nil {
			return fmt.Errorf("failed to read URLs: %w", err)
		}
	default:
	}

	if err := feedReader.Wait(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	return app.save(ctx, feedReader)
}

// printer prints the items as they arrive.
type printer struct {
	reader.NopListener
	output io.Writer
}

func (p *printer) Reset(url string) {
	_, _ = fmt.Fprintf(p.output, "==> %s\n", url)
}

func (p *printer) Add(index int, item feed.Item) {
	title := item.Title
	if title == "" {
		title = "(untitled)"
	}

	_, _ = fmt.Fprintf(p.output, "%d. %s\n", index+1, title)
	if snippet := item.Snippet(); snippet != "" {
		_, _ = fmt.Fprintf(p.output, "   %s\n", snippet)
	}
}

func (p *printer) Failed(url string, err error) {
	_, _ = fmt.Fprintf(p.output, "Failed to fetch %s: %s\n", url, err)
}

func (p *printer) Done(url string, items int) {
	_, _ = fmt.Fprintf(p.output, "<== %s: %d items\n", url, items)
}
