// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Wesley3141/tessero/internal/logging"
	"github.com/Wesley3141/tessero/internal/metrics"
	"github.com/Wesley3141/tessero/internal/models"
	"github.com/Wesley3141/tessero/internal/recommend"
)

// Handler serves the recommendation API backed by a single engine.
type Handler struct {
	engine       *recommend.Engine
	snapshotPath string
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewHandler creates an API handler. snapshotPath is where trained
// models are persisted after each successful training run; empty
// disables persistence.
func NewHandler(engine *recommend.Engine, snapshotPath string) *Handler {
	return &Handler{
		engine:       engine,
		snapshotPath: snapshotPath,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logging.Logger().With().Str("component", "api").Logger(),
	}
}

// GetRecommendations handles GET /api/v1/recommendations.
//
// A user_id parameter is required. Users unknown to the model fall
// back to cold-start recommendations rather than erroring, so new
// visitors always get a ranked list.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_USER_ID", "user_id query parameter is required", nil)
		return
	}

	n, err := parseCount(r.URL.Query(), "count")
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	f, err := parseFilters(r.URL.Query())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	mode := "personalized"
	recs, err := h.engine.GetPersonalizedRecommendations(r.Context(), userID, n, f)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	if len(recs) == 0 {
		mode = "cold_start"
		recs, err = h.engine.GetColdStartRecommendations(r.Context(), n, f)
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
	}

	metrics.RecommendationsServed.WithLabelValues(mode).Inc()

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"user_id":         userID,
			"mode":            mode,
			"recommendations": recs,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// GetSimilarEvents handles GET /api/v1/similar-events/{eventID}.
func (h *Handler) GetSimilarEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	eventID := chi.URLParam(r, "eventID")

	n, err := parseCount(r.URL.Query(), "count")
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	recs, err := h.engine.SimilarEvents(r.Context(), eventID, n)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	metrics.RecommendationsServed.WithLabelValues("similar").Inc()

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"event_id":       eventID,
			"similar_events": recs,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// GetTrendingEvents handles GET /api/v1/trending-events. Trending is
// the cold-start popularity ranking exposed directly, with the same
// filter options as recommendations.
func (h *Handler) GetTrendingEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	n, err := parseCount(r.URL.Query(), "count")
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	f, err := parseFilters(r.URL.Query())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	recs, err := h.engine.GetColdStartRecommendations(r.Context(), n, f)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	metrics.RecommendationsServed.WithLabelValues("trending").Inc()

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"trending_events": recs,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Train handles POST /api/v1/train: load the submitted dataset, train
// a replacement model, and persist a snapshot of it.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", err)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	interactions, events, profiles, err := req.toDomain()
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	if err := h.engine.LoadData(interactions, events, profiles); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	err = h.engine.Train(r.Context())
	metrics.RecordTraining(time.Since(start), err, h.engine.EventCount(), h.engine.UserCount())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	h.logger.Info().
		Int("events", h.engine.EventCount()).
		Int("users", h.engine.UserCount()).
		Dur("duration", time.Since(start)).
		Msg("model trained")

	if h.snapshotPath != "" {
		if err := h.engine.SaveModel(h.snapshotPath); err != nil {
			// The new model is live. Report the persistence failure
			// instead of pretending the snapshot exists.
			respondEngineError(w, r, err)
			return
		}
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"trained_at":  h.engine.LastTrainingTime(),
			"event_count": h.engine.EventCount(),
			"user_count":  h.engine.UserCount(),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// RecordInteraction handles POST /api/v1/event-interactions. The
// interaction is validated and acknowledged; it takes effect at the
// next training run.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var rec interactionRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON", err)
		return
	}

	if err := h.validate.Struct(&rec); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	score := 1.0
	if rec.Score != nil {
		score = *rec.Score
	}

	h.logger.Info().
		Str("user_id", rec.UserID).
		Str("event_id", rec.EventID).
		Str("interaction_type", rec.Type).
		Float64("score", score).
		Msg("interaction recorded")

	respondJSON(w, r, http.StatusAccepted, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"user_id":  rec.UserID,
			"event_id": rec.EventID,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     h.engine.Status(),
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Health handles GET /health. Liveness only: the service is healthy
// even before a model is trained.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"healthy": true,
			"trained": h.engine.Trained(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
