package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_attempts_total",
		Help: "Total number of sync attempts by resource and outcome",
	}, []string{"resource", "status"})

	SyncUpsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_upserts_total",
		Help: "Total number of entities upserted by resource and sync type",
	}, []string{"resource", "sync_type"})

	SyncRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_retries_total",
		Help: "Total number of retry submissions",
	})

	SyncBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_batch_duration_seconds",
		Help:    "Latency of upsert batch processing",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})

	LedgerWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_ledger_write_failures_total",
		Help: "Total number of failed sync ledger writes",
	})

	StatusCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_status_cache_hits_total",
		Help: "Total number of status reads served from cache",
	})

	StatusCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_status_cache_misses_total",
		Help: "Total number of status reads that missed the cache",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
