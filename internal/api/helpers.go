// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/Wesley3141/tessero/internal/logging"
	"github.com/Wesley3141/tessero/internal/models"
	"github.com/Wesley3141/tessero/internal/recommend"
)

// respondJSON writes a standardized JSON response.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	response.Metadata.RequestID = RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError writes a standardized error response.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", code).
			Str("request_id", RequestIDFromContext(r.Context())).
			Err(err).
			Msg("api error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondEngineError maps the engine's typed errors to HTTP responses.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case recommend.IsInvalidFilter(err):
		respondError(w, r, http.StatusBadRequest, "INVALID_FILTER", err.Error(), nil)
	case recommend.IsNotFound(err):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, recommend.ErrTrainingInProgress):
		respondError(w, r, http.StatusConflict, "TRAINING_IN_PROGRESS", err.Error(), nil)
	case errors.Is(err, recommend.ErrInsufficientData):
		respondError(w, r, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA", err.Error(), nil)
	case errors.Is(err, recommend.ErrNotReady):
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", err.Error(), nil)
	case recommend.IsPersistence(err):
		respondError(w, r, http.StatusInternalServerError, "PERSISTENCE_ERROR", "model snapshot operation failed", err)
	default:
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected error", err)
	}
}
