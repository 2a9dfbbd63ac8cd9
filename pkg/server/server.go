// Package server exposes the reader over HTTP: fetching is started by POST requests and the fetched items are
// rendered back as RSS.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	logging "github.com/KonishchevDmitry/go-easy-logging"
	"github.com/ggicci/httpin"
	"github.com/ggicci/httpin/integration"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KonishchevDmitry/rssreader/internal/reader"
	"github.com/KonishchevDmitry/rssreader/pkg/feed"
	"github.com/KonishchevDmitry/rssreader/pkg/rss"
)

func init() {
	integration.UseGorillaMux("path", mux.Vars)
}

type fetchParams struct {
	URL string `in:"query=url;required"`
}

type itemParams struct {
	Index int `in:"path=index"`
}

type Server struct {
	router *mux.Router
	reader *reader.Reader
}

func New(reader *reader.Reader) *Server {
	s := &Server{
		router: mux.NewRouter(),
		reader: reader,
	}

	s.register(http.MethodPost, "/fetch", s.fetch)
	s.register(http.MethodGet, "/items", s.items)
	s.register(http.MethodGet, "/items/{index:[0-9]+}", s.item)
	s.register(http.MethodGet, "/status", s.status)

	return s
}

// Handler returns the reader HTTP handler. Request contexts must carry a logger (see http.Server.BaseContext).
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) fetch(ctx context.Context, writer http.ResponseWriter, request *http.Request) {
	params, err := httpin.Decode[fetchParams](request)
	if err != nil {
		logging.L(ctx).Warnf("Invalid fetch parameters: %s.", err)
		http.Error(writer, "Invalid request parameters", http.StatusBadRequest)
		return
	}

	if err := s.reader.Open(ctx, params.URL); err != nil {
		logging.L(ctx).Errorf("Failed to start fetching of %s: %s.", params.URL, err)
		http.Error(writer, "The reader is unavailable", http.StatusServiceUnavailable)
		return
	}

	writer.WriteHeader(http.StatusAccepted)
	_, _ = fmt.Fprintf(writer, "Fetching %s...\n", params.URL)
}

func (s *Server) items(ctx context.Context, writer http.ResponseWriter, request *http.Request) {
	url, err := s.reader.URL(ctx)
	if err != nil {
		s.unavailable(ctx, writer, err)
		return
	}

	items, err := s.reader.Items(ctx)
	if err != nil {
		s.unavailable(ctx, writer, err)
		return
	}

	s.render(ctx, writer, url, items)
}

func (s *Server) item(ctx context.Context, writer http.ResponseWriter, request *http.Request) {
	params, err := httpin.Decode[itemParams](request)
	if err != nil {
		logging.L(ctx).Warnf("Invalid item parameters: %s.", err)
		http.NotFound(writer, request)
		return
	}

	url, err := s.reader.URL(ctx)
	if err != nil {
		s.unavailable(ctx, writer, err)
		return
	}

	item, err := s.reader.Item(ctx, params.Index)
	if err != nil {
		s.unavailable(ctx, writer, err)
		return
	}

	value, ok := item.Get()
	if !ok {
		http.NotFound(writer, request)
		return
	}

	s.render(ctx, writer, url, []feed.Item{value})
}

func (s *Server) status(ctx context.Context, writer http.ResponseWriter, request *http.Request) {
	url, err := s.reader.URL(ctx)
	if err != nil {
		s.unavailable(ctx, writer, err)
		return
	}

	items, err := s.reader.Items(ctx)
	if err != nil {
		s.unavailable(ctx, writer, err)
		return
	}

	writer.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(writer, "URL: %s\nFetching: %t\nItems: %d\n",
		url, s.reader.Controller().Current().IsPresent(), len(items))
}

func (s *Server) render(ctx context.Context, writer http.ResponseWriter, url string, items []feed.Item) {
	data, err := rss.Generate(rss.NewChannel("Fetched items", url, items))
	if err != nil {
		logging.L(ctx).Errorf("Failed to render RSS feed: %s.", err)
		http.Error(writer, "Failed to generate the RSS feed", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", rss.ContentType)
	_, _ = writer.Write(data)
}

func (s *Server) unavailable(ctx context.Context, writer http.ResponseWriter, err error) {
	logging.L(ctx).Warnf("The reader is unavailable: %s.", err)
	http.Error(writer, "The reader is unavailable", http.StatusServiceUnavailable)
}

func (s *Server) Serve(ctx context.Context, readerAddr string, metricsAddr string) error {
	var waitGroup sync.WaitGroup
	defer waitGroup.Wait()

	if err := prometheus.DefaultRegisterer.Register(s.reader.Controller()); err != nil {
		return err
	}

	//nolint:gosec
	readerServer := http.Server{
		Addr:     readerAddr,
		Handler:  s.router,
		ErrorLog: newErrorLog(logging.L(ctx), "Reader HTTP server"),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	defer func() {
		if err := readerServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logging.L(ctx).Errorf("Failed to shutdown reader HTTP server: %s.", err)
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: newPrometheusLogger(logging.L(ctx)),
	}))

	//nolint:gosec
	metricsServer := http.Server{
		Addr:     metricsAddr,
		Handler:  metricsMux,
		ErrorLog: newErrorLog(logging.L(ctx), "Metrics HTTP server"),
	}
	defer func() {
		if err := metricsServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logging.L(ctx).Errorf("Failed to shutdown metrics HTTP server: %s.", err)
		}
	}()

	logging.L(ctx).Infof("Listening on %s (reader) and %s (metrics)...", readerAddr, metricsAddr)

	readerSocket, err := net.Listen("tcp", readerAddr)
	if err != nil {
		return err
	}
	closeReaderSocket := true
	defer func() {
		if closeReaderSocket {
			if err := readerSocket.Close(); err != nil {
				logging.L(ctx).Errorf("Failed to close a socket: %s.", err)
			}
		}
	}()

	metricsSocket, err := net.Listen("tcp", metricsAddr)
	if err != nil {
		return err
	}
	closeMetricsSocket := true
	defer func() {
		if closeMetricsSocket {
			if err := metricsSocket.Close(); err != nil {
				logging.L(ctx).Errorf("Failed to close a socket: %s.", err)
			}
		}
	}()

	serverCrashed := make(chan error, 2)

	closeReaderSocket = false
	waitGroup.Go(func() {
		if err := readerServer.Serve(readerSocket); !errors.Is(err, http.ErrServerClosed) {
			serverCrashed <- fmt.Errorf("reader HTTP server has crashed: %w", err)
		}
	})

	closeMetricsSocket = false
	waitGroup.Go(func() {
		if err := metricsServer.Serve(metricsSocket); !errors.Is(err, http.ErrServerClosed) {
			serverCrashed <- fmt.Errorf("metrics HTTP server has crashed: %w", err)
		}
	})

	select {
	case err := <-serverCrashed:
		return err
	case <-ctx.Done():
		logging.L(ctx).Infof("Shutting down the HTTP servers...")
		return nil
	}
}

func (s *Server) register(
	method string, path string, handler func(ctx context.Context, writer http.ResponseWriter, request *http.Request),
) {
	s.router.HandleFunc(path, func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		logging.L(ctx).Debugf("%s %s...", request.Method, request.RequestURI)
		handler(ctx, writer, request)
		logging.L(ctx).Debugf("%s %s finished.", request.Method, request.RequestURI)
	}).Methods(method)
}
