// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

// Package metrics provides Prometheus instrumentation for the API and
// the recommendation engine: request throughput and latency,
// recommendations served per mode, and training run outcomes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessero_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tessero_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Recommendation serving metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessero_recommendations_served_total",
			Help: "Total number of recommendation results served",
		},
		[]string{"mode"}, // "personalized", "cold_start", "trending", "similar"
	)

	// Training metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tessero_training_runs_total",
			Help: "Total number of training runs",
		},
		[]string{"result"}, // "success", "failure"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tessero_training_duration_seconds",
			Help:    "Model training duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// Model state gauges
	ModelEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tessero_model_events",
			Help: "Number of events known to the serving model",
		},
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tessero_model_users",
			Help: "Number of users known to the serving model",
		},
	)
)

// RecordAPIRequest records one API request observation.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTraining records a training run outcome and, on success, the
// current serving model size.
func RecordTraining(duration time.Duration, err error, eventCount, userCount int) {
	if err != nil {
		TrainingRuns.WithLabelValues("failure").Inc()
		return
	}
	TrainingRuns.WithLabelValues("success").Inc()
	TrainingDuration.Observe(duration.Seconds())
	ModelEvents.Set(float64(eventCount))
	ModelUsers.Set(float64(userCount))
}
