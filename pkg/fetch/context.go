package fetch

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type fetchContext struct {
	duration prometheus.Observer
}

type contextKey struct{}

// WithContext attaches an observer which receives the duration of every connection attempt made with the context.
func WithContext(ctx context.Context, duration prometheus.Observer) context.Context {
	return context.WithValue(ctx, contextKey{}, &fetchContext{
		duration: duration,
	})
}

func observeDuration(ctx context.Context, duration time.Duration) {
	if context, ok := ctx.Value(contextKey{}).(*fetchContext); ok {
		context.duration.Observe(duration.Seconds())
	}
}
