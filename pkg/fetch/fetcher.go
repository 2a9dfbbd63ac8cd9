package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	logging "github.com/KonishchevDmitry/go-easy-logging"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultUserAgent      = "github.com/KonishchevDmitry/rssreader"
)

// Fetcher opens feed documents. It makes a single attempt per request without retries.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func New(opts ...Option) *Fetcher {
	options := options{
		connectTimeout: DefaultConnectTimeout,
		userAgent:      DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dialer := net.Dialer{Timeout: options.connectTimeout}

	return &Fetcher{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   options.connectTimeout,
				ResponseHeaderTimeout: options.connectTimeout,
			},
		},
		userAgent: options.userAgent,
	}
}

// Fetch connects to the server and returns the response body which must be closed by the caller.
func (f *Fetcher) Fetch(ctx context.Context, url string) (_ io.ReadCloser, retErr error) {
	defer func() {
		if retErr != nil {
			retErr = fmt.Errorf("failed to fetch %s: %w", url, retErr)
		}
	}()

	logging.L(ctx).Debugf("Fetching %s...", url)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	request.Header.Set("User-Agent", f.userAgent)

	startTime := time.Now()
	response, err := f.client.Do(request)
	observeDuration(ctx, time.Since(startTime))
	if err != nil {
		return nil, &NetworkError{Err: err, temporary: true}
	}

	if statusCode := response.StatusCode; statusCode < 200 || statusCode >= 300 {
		if err := response.Body.Close(); err != nil {
			logging.L(ctx).Errorf("Failed to close HTTP client body: %s.", err)
		}
		return nil, &NetworkError{
			Err:       fmt.Errorf("the server returned an error: %s", response.Status),
			temporary: statusCode >= 500 && statusCode < 600,
		}
	}

	logging.L(ctx).Debugf("Connected to %s: %s (%s).", url, response.Status, response.Header.Get("Content-Type"))
	return response.Body, nil
}
