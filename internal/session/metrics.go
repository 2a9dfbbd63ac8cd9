package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	sessionStatusSuccess     = "success"
	sessionStatusCancelled   = "cancelled"
	sessionStatusUnavailable = "unavailable"
	sessionStatusError       = "error"
	sessionStatusPanic       = "panic"
)

type metrics struct {
	sessionStatus   *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	sessionDuration prometheus.Histogram
	deliveredItems  prometheus.Counter
	droppedItems    prometheus.Counter
}

func makeMetrics() metrics {
	return metrics{
		sessionStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rssreader_sessions",
			Help: "Fetch session status",
		}, []string{"status"}),

		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rssreader_fetch_duration",
			Help:    "Time to connect and receive the response headers",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		sessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rssreader_session_duration",
			Help:    "Fetch session duration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),

		deliveredItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rssreader_delivered_items",
			Help: "Items delivered to the presentation layer",
		}),

		droppedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rssreader_dropped_items",
			Help: "Items of superseded sessions which have been dropped",
		}),
	}
}

var _ prometheus.Collector = &metrics{}

func (m *metrics) Describe(descs chan<- *prometheus.Desc) {
	m.sessionStatus.Describe(descs)
	m.fetchDuration.Describe(descs)
	m.sessionDuration.Describe(descs)
	m.deliveredItems.Describe(descs)
	m.droppedItems.Describe(descs)
}

func (m *metrics) Collect(metrics chan<- prometheus.Metric) {
	m.sessionStatus.Collect(metrics)
	m.fetchDuration.Collect(metrics)
	m.sessionDuration.Collect(metrics)
	m.deliveredItems.Collect(metrics)
	m.droppedItems.Collect(metrics)
}
