// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

// Package api provides the HTTP surface over the recommendation
// engine: request parsing (including YYYY-MM-DD date filters), JSON
// response shaping, and the mapping from the engine's typed errors to
// HTTP status codes. The engine is dependency-injected; this package
// holds no recommendation logic of its own.
package api
