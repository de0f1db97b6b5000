// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package metrics provides Prometheus metrics for Kinocat.
//
// All metrics are registered with the default registry via promauto and
// exposed on /metrics by the router.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts HTTP requests by method, endpoint and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinocat_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration tracks HTTP request latency by method and endpoint.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kinocat_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// APIActiveRequests gauges the number of in-flight HTTP requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kinocat_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// FeedRequestsTotal counts feed batch requests by dimension and outcome.
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinocat_feed_requests_total",
			Help: "Total number of feed batch requests",
		},
		[]string{"dimension", "status"},
	)

	// FeedBatchSize tracks how many movies each feed batch returned. Watching
	// the low buckets shows how often clients run feeds to exhaustion.
	FeedBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kinocat_feed_batch_size",
			Help:    "Number of movies returned per feed batch",
			Buckets: []float64{0, 1, 3, 6, 9, 12, 15, 18},
		},
		[]string{"dimension"},
	)

	// ExcludedIDsRejectedTotal counts exclusion-set entries dropped because
	// they were not parseable ids.
	ExcludedIDsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kinocat_excluded_ids_rejected_total",
			Help: "Total number of malformed excluded ids dropped from requests",
		},
		[]string{"dimension"},
	)

	// StoreOpDuration tracks movie store operation latency by operation.
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kinocat_store_operation_duration_seconds",
			Help:    "Movie store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// SuggestRequestsTotal counts title suggestion lookups.
	SuggestRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kinocat_suggest_requests_total",
			Help: "Total number of title suggestion lookups",
		},
	)
)

// RecordAPIRequest records a completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(increment bool) {
	if increment {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFeedRequest records a feed batch request outcome.
func RecordFeedRequest(dimension, status string) {
	FeedRequestsTotal.WithLabelValues(dimension, status).Inc()
}

// RecordFeedBatch records the size of a served feed batch.
func RecordFeedBatch(dimension string, size int) {
	FeedBatchSize.WithLabelValues(dimension).Observe(float64(size))
}

// RecordRejectedExcludedIDs records malformed excluded ids dropped from a
// request. A zero count records nothing.
func RecordRejectedExcludedIDs(dimension string, n int) {
	if n <= 0 {
		return
	}
	ExcludedIDsRejectedTotal.WithLabelValues(dimension).Add(float64(n))
}

// ObserveStoreOp records the duration of a movie store operation.
func ObserveStoreOp(operation string, d time.Duration) {
	StoreOpDuration.WithLabelValues(operation).Observe(d.Seconds())
}
