package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"go.uber.org/zap/zaptest"
)

const RSSContentType = "application/rss+xml"

func Context(t *testing.T) context.Context {
	return logging.WithLogger(t.Context(), zaptest.NewLogger(t).Sugar())
}

// FeedServer starts an HTTP server which returns the specified document for any request.
func FeedServer(t *testing.T, body string) *httptest.Server {
	return Server(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", RSSContentType)
		_, _ = io.WriteString(w, body)
	})
}

func Server(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// ClosedAddress returns an address of a port which nobody listens on.
func ClosedAddress(t *testing.T) string {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url
}
