package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages of net/http server about misbehaving clients which aren't our errors
var clientErrorMessages = []string{"TLS handshake error", "broken pipe", "connection reset by peer"}

type httpLogger struct {
	logger *zap.SugaredLogger
}

var _ io.Writer = &httpLogger{}

func newErrorLog(logger *zap.SugaredLogger, name string) *log.Logger {
	return log.New(&httpLogger{logger}, name+": ", 0)
}

func (l *httpLogger) Write(message []byte) (int, error) {
	size := len(message)
	text := strings.TrimRight(string(message), "\n")

	level := zapcore.ErrorLevel
	for _, clientError := range clientErrorMessages {
		if strings.Contains(text, clientError) {
			level = zapcore.DebugLevel
			break
		}
	}

	l.logger.Logf(level, "%s.", text)
	return size, nil
}

type prometheusLogger struct {
	logger *zap.SugaredLogger
}

var _ promhttp.Logger = prometheusLogger{}

func newPrometheusLogger(logger *zap.SugaredLogger) prometheusLogger {
	return prometheusLogger{logger}
}

func (l prometheusLogger) Println(v ...any) {
	level := zapcore.ErrorLevel

	for _, value := range v {
		if err, ok := value.(error); ok {
			if isClientGone(err) {
				level = zap.DebugLevel
			}
			break
		}
	}

	l.logger.Logf(level, "Prometheus: %s.", strings.TrimRight(fmt.Sprint(v...), "\n"))
}

func isClientGone(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}

	var netErr *net.OpError
	return errors.As(err, &netErr) && netErr.Op == "write" &&
		(netErr.Timeout() || errors.Is(netErr.Err, syscall.EPIPE) || errors.Is(netErr.Err, syscall.ECONNRESET))
}
