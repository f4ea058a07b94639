// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

// Package recommend implements the Tessero recommendation engine.
//
// The engine serves personalized event recommendations from user-event
// interaction history, event-to-event similarity lookups from event
// metadata, and a trending/cold-start ranking for users without history.
//
// # Architecture
//
// The engine is composed of four parts built bottom-up at training time:
//
//   - Store: normalized tabular inputs (interactions, event features,
//     optional user profiles), replaced wholesale on each data load.
//   - SimilarityIndex: a dense symmetric event-by-event content
//     similarity matrix over a canonical event ordering.
//   - AffinityModel: per-user event affinity aggregated from weighted,
//     recency-decayed interactions, extended to untouched events through
//     item co-occurrence and content similarity.
//   - Engine: the facade owning the lifecycle state machine
//     (uninitialized, initialized, ready), training, persistence, and
//     the serving operations.
//
// # Thread Safety
//
// Training is exclusive: a second Train call while one is in progress is
// rejected with ErrTrainingInProgress. Training builds a complete new
// model off to the side and swaps it in atomically on success, so
// serving calls always observe either the previous or the new trained
// state, never a partial one. Serving operations are read-only and safe
// to run concurrently.
//
// # Persistence
//
// SaveModel and LoadModel move the entire trained state through a single
// self-describing snapshot file (gob encoded, gzip compressed, SHA-256
// checksummed, format versioned). Loading a snapshot from an
// incompatible engine fails with a PersistenceError and leaves the
// current state untouched.
package recommend
