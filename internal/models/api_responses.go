// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

// Package models defines the standardized API response envelope.
package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status is "success" (see Data) or "error" (see Error).
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the handler execution time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`

	// RequestID is the request correlation identifier.
	RequestID string `json:"request_id,omitempty"`
}

// APIError carries a machine-readable error code and a human-readable
// message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
