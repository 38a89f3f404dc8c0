// Package metrics registers Prometheus counters for the feed service:
// accepted and rejected uploads, likes, and served feed pages.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clipfeed_uploads_total",
			Help: "Total number of uploads accepted and registered.",
		},
	)
	UploadsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clipfeed_uploads_rejected_total",
			Help: "Total number of uploads rejected during validation.",
		},
	)
	Likes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clipfeed_likes_total",
			Help: "Total number of like increments applied.",
		},
	)
	FeedPages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clipfeed_feed_pages_total",
			Help: "Total number of feed pages served.",
		},
	)
	registerOnce sync.Once
)

// Handler registers the counters once and returns the scrape endpoint.
func Handler() http.Handler {
	registerOnce.Do(func() {
		prometheus.MustRegister(UploadsAccepted, UploadsRejected, Likes, FeedPages)
	})
	return promhttp.Handler()
}
