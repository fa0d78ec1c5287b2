package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ThreadsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadforge_threads_generated_total",
		Help: "The total number of threads generated, by backend",
	}, []string{"backend"})

	BackendFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadforge_backend_fallbacks_total",
		Help: "The total number of times a generation backend failed and the next one was tried",
	}, []string{"backend"})

	GenerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "threadforge_generation_duration_seconds",
		Help:    "Duration of thread generation attempts",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})

	TweetsTruncated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threadforge_tweets_truncated_total",
		Help: "The total number of tweets truncated to fit the character limit",
	})

	RequestsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadforge_requests_rejected_total",
		Help: "The total number of API requests rejected before generation, by reason",
	}, []string{"reason"})

	ArticlesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threadforge_articles_ingested_total",
		Help: "The total number of URL ingestions, by status",
	}, []string{"status"})
)
