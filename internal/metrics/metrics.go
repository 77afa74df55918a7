// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package metrics provides Prometheus metrics for Singwise.
//
// All metrics are registered with the default registry via promauto and
// exposed on GET /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "singwise"

// API metrics.
var (
	// APIRequestsTotal counts API requests by method, path, and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration tracks API request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	// APIActiveRequests tracks in-flight API requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "active_requests",
			Help:      "Number of in-flight API requests",
		},
	)
)

// Matching metrics.
var (
	// MatchAttemptsTotal counts catalog match attempts by resolution method
	// (exact, normalized, fuzzy) and outcome (matched, unmatched).
	MatchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "attempts_total",
			Help:      "Total catalog match attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	// MatchSkippedTotal counts input entries skipped before matching.
	MatchSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "skipped_total",
			Help:      "Total input entries skipped before matching",
		},
		[]string{"reason"},
	)

	// MatchBatchDuration tracks batch matching latency.
	MatchBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "batch_duration_seconds",
			Help:      "Batch match duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)
)

// Recommendation metrics.
var (
	// RecommendationDuration tracks end-to-end recommendation latency.
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "duration_seconds",
			Help:      "End-to-end recommendation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
	)

	// RecommendationCandidates tracks candidate pool sizes per request.
	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "candidates",
			Help:      "Number of scored candidates per recommendation request",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	// RecommendationsTotal counts recommendation requests by profile kind.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommend",
			Name:      "requests_total",
			Help:      "Total recommendation requests by profile kind",
		},
		[]string{"profile"},
	)
)

// Snapshot metrics.
var (
	// CatalogEntries tracks the number of entries in the loaded catalog.
	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "catalog_entries",
			Help:      "Number of entries in the loaded catalog snapshot",
		},
	)

	// SimilarityPairs tracks the number of loaded artist similarity pairs.
	SimilarityPairs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "similarity_pairs",
			Help:      "Number of artist pairs in the loaded similarity snapshot",
		},
	)

	// SnapshotReloadsTotal counts snapshot reloads by outcome.
	SnapshotReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "reloads_total",
			Help:      "Total snapshot reloads by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordAPIRequest records an API request with its duration.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest increments the active request gauge and returns a
// function to decrement it. Use with defer.
func TrackActiveRequest() func() {
	APIActiveRequests.Inc()
	return APIActiveRequests.Dec
}

// RecordMatchAttempt records a single match resolution.
func RecordMatchAttempt(method, outcome string) {
	MatchAttemptsTotal.WithLabelValues(method, outcome).Inc()
}

// RecordMatchSkipped records an input entry skipped before matching.
func RecordMatchSkipped(reason string) {
	MatchSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordMatchBatch records the duration of a batch match.
func RecordMatchBatch(duration time.Duration) {
	MatchBatchDuration.Observe(duration.Seconds())
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(profile string, candidates int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(profile).Inc()
	RecommendationCandidates.Observe(float64(candidates))
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordSnapshotReload records a snapshot reload outcome and sizes.
func RecordSnapshotReload(outcome string, catalogEntries, similarityPairs int) {
	SnapshotReloadsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		CatalogEntries.Set(float64(catalogEntries))
		SimilarityPairs.Set(float64(similarityPairs))
	}
}
