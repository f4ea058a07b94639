// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Engine is the recommendation engine facade. It owns the lifecycle
// state machine (uninitialized -> initialized -> ready), orchestrates
// training and persistence, and serves ranked results.
//
// It is safe for concurrent use: serving operations are read-only and
// run against an immutable trained state; Train builds a replacement
// state off to the side and swaps it in on success.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger

	// mu guards pending and current.
	mu      sync.RWMutex
	pending *Store
	current *trainedState

	// trainMu serializes training. TryLock keeps concurrent Train
	// calls rejected rather than queued.
	trainMu sync.Mutex
}

// NewEngine creates an engine with the given configuration. A nil
// config uses DefaultConfig.
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		cfg:     cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		pending: NewStore(),
	}, nil
}

// LoadData replaces the feature store contents wholesale. It does not
// touch the serving model; a subsequent Train builds from this data.
func (e *Engine) LoadData(interactions []Interaction, events []Event, profiles []UserProfile) error {
	store := NewStore()
	if err := store.LoadData(interactions, events, profiles); err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	e.mu.Lock()
	e.pending = store
	e.mu.Unlock()

	e.logger.Info().
		Int("interactions", len(interactions)).
		Int("events", len(events)).
		Int("profiles", len(profiles)).
		Msg("feature store replaced")

	return nil
}

// Train rebuilds the similarity index and affinity model from the
// current feature store and swaps the trained state atomically. A
// failure leaves any prior trained state untouched. Concurrent calls
// are rejected with ErrTrainingInProgress.
func (e *Engine) Train(ctx context.Context) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	e.mu.RLock()
	snapshot := e.pending.clone()
	e.mu.RUnlock()

	if snapshot.Empty() {
		return ErrInsufficientData
	}

	start := time.Now()
	e.logger.Info().
		Int("events", len(snapshot.EventIDs())).
		Int("users", len(snapshot.UserIDs())).
		Int("interactions", len(snapshot.Interactions())).
		Msg("training started")

	var (
		sim      *SimilarityIndex
		affinity *AffinityModel
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sim, err = BuildSimilarityIndex(gctx, snapshot.Events(), e.cfg.Similarity)
		if err != nil {
			return fmt.Errorf("build similarity index: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		affinity, err = BuildAffinityModel(gctx, snapshot.Interactions(), e.cfg.Weights, e.cfg.Affinity)
		if err != nil {
			return fmt.Errorf("build affinity model: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		e.logger.Error().Err(err).Msg("training failed")
		return err
	}

	affinity.AttachSimilarity(sim)

	state := &trainedState{
		store:     snapshot,
		sim:       sim,
		affinity:  affinity,
		trainedAt: time.Now(),
	}

	e.mu.Lock()
	e.current = state
	e.mu.Unlock()

	e.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("training complete")

	return nil
}

// state returns the serving trained state, or ErrNotReady.
func (e *Engine) state() (*trainedState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return nil, ErrNotReady
	}
	return e.current, nil
}

// GetPersonalizedRecommendations returns up to n events ranked by the
// user's affinity, restricted to events passing the filters. Unknown
// users yield an empty list, not an error: the caller decides whether
// to fall back to cold start.
func (e *Engine) GetPersonalizedRecommendations(ctx context.Context, userID string, n int, f *Filters) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	state, err := e.state()
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		n = e.cfg.DefaultCount
	}

	return state.personalized(userID, n, f), nil
}

// GetColdStartRecommendations returns up to n events ranked by the
// trending popularity proxy, restricted to events passing the filters.
// It is deterministic even with no interaction data.
func (e *Engine) GetColdStartRecommendations(ctx context.Context, n int, f *Filters) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	state, err := e.state()
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		n = e.cfg.DefaultCount
	}

	return state.coldStart(n, f, e.cfg.TrendingWindowDays, e.cfg.Weights), nil
}

// SimilarEvents returns up to n events most similar to eventID, joined
// to full event features. Unknown event IDs fail with NotFoundError.
func (e *Engine) SimilarEvents(ctx context.Context, eventID string, n int) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, err := e.state()
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		n = e.cfg.DefaultSimilarCount
	}

	return state.similarEvents(eventID, n)
}

// Trained reports whether a trained model is serving.
func (e *Engine) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current != nil
}

// LastTrainingTime returns when the serving model was trained, or the
// zero time if the engine is not ready.
func (e *Engine) LastTrainingTime() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return time.Time{}
	}
	return e.current.trainedAt
}

// EventCount returns the number of events known to the serving model.
func (e *Engine) EventCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return 0
	}
	return len(e.current.store.EventIDs())
}

// UserCount returns the number of users known to the serving model.
func (e *Engine) UserCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current == nil {
		return 0
	}
	return len(e.current.store.UserIDs())
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	switch {
	case e.current != nil:
		return StateReady
	case !e.pending.Empty():
		return StateInitialized
	default:
		return StateUninitialized
	}
}

// Status returns a read-only status snapshot for the API layer.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Status{State: StateUninitialized.String()}
	if !e.pending.Empty() {
		st.State = StateInitialized.String()
	}
	if e.current != nil {
		st.State = StateReady.String()
		st.Trained = true
		st.LastTrainingTime = e.current.trainedAt
		st.EventCount = len(e.current.store.EventIDs())
		st.UserCount = len(e.current.store.UserIDs())
		st.InteractionCount = len(e.current.store.Interactions())
	}
	return st
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}
