// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// fixtureEvents is a small catalog spanning two category domains.
func fixtureEvents() []Event {
	return []Event{
		{ID: "E1", Name: "Indie Rock Night", Categories: []string{"music"}, Price: 45, Location: "NYC", Date: date("2026-09-10")},
		{ID: "E2", Name: "Jazz Evening", Categories: []string{"music"}, Price: 50, Location: "NYC", Date: date("2026-09-20")},
		{ID: "E3", Name: "City Marathon", Categories: []string{"sports"}, Price: 30, Location: "Boston", Date: date("2026-10-01")},
	}
}

func fixtureInteractions() []Interaction {
	return []Interaction{
		{UserID: "u1", EventID: "E1", Type: InteractionPurchase, Score: 1, Timestamp: date("2026-08-20")},
		{UserID: "u1", EventID: "E2", Type: InteractionView, Score: 1, Timestamp: date("2026-08-21")},
		{UserID: "u2", EventID: "E2", Type: InteractionClick, Score: 1, Timestamp: date("2026-08-22")},
		{UserID: "u2", EventID: "E3", Type: InteractionWishlist, Score: 1, Timestamp: date("2026-08-23")},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func trainedTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)
	if err := e.LoadData(fixtureInteractions(), fixtureEvents(), nil); err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if err := e.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return e
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Purchase = 0.5 // below wishlist, violates monotonicity

	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Fatal("NewEngine() should reject non-monotonic interaction weights")
	}
}

func TestEngineNotReadyBeforeTraining(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.GetPersonalizedRecommendations(ctx, "u1", 5, nil); !errors.Is(err, ErrNotReady) {
		t.Errorf("GetPersonalizedRecommendations() error = %v, want ErrNotReady", err)
	}
	if _, err := e.GetColdStartRecommendations(ctx, 5, nil); !errors.Is(err, ErrNotReady) {
		t.Errorf("GetColdStartRecommendations() error = %v, want ErrNotReady", err)
	}
	if _, err := e.SimilarEvents(ctx, "E1", 5); !errors.Is(err, ErrNotReady) {
		t.Errorf("SimilarEvents() error = %v, want ErrNotReady", err)
	}
	if got := e.State(); got != StateUninitialized {
		t.Errorf("State() = %v, want %v", got, StateUninitialized)
	}
}

func TestEngineTrainEmptyStore(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Train(context.Background()); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Train() error = %v, want ErrInsufficientData", err)
	}
}

func TestEngineFailedTrainKeepsServingModel(t *testing.T) {
	e := trainedTestEngine(t)

	// Wipe the pending store; training again has nothing to build from.
	if err := e.LoadData(nil, nil, nil); err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if err := e.Train(context.Background()); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Train() error = %v, want ErrInsufficientData", err)
	}

	// The previously trained model still serves.
	recs, err := e.GetColdStartRecommendations(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("GetColdStartRecommendations() after failed train: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("prior model should still serve all 3 events, got %d", len(recs))
	}
}

func TestEngineConcurrentTrainingRejected(t *testing.T) {
	e := trainedTestEngine(t)

	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	if err := e.Train(context.Background()); !errors.Is(err, ErrTrainingInProgress) {
		t.Fatalf("Train() while locked: error = %v, want ErrTrainingInProgress", err)
	}
}

func TestEnginePersonalizedRanksPurchasedDomainFirst(t *testing.T) {
	e := trainedTestEngine(t)

	recs, err := e.GetPersonalizedRecommendations(context.Background(), "u1", 3, nil)
	if err != nil {
		t.Fatalf("GetPersonalizedRecommendations() error = %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("no recommendations for known user")
	}
	if recs[0].Event.ID != "E1" {
		t.Errorf("u1's purchased event should rank first, got %q", recs[0].Event.ID)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Errorf("recommendations not in descending score order: %v", recs)
		}
	}
}

func TestEnginePersonalizedUnknownUser(t *testing.T) {
	e := trainedTestEngine(t)

	recs, err := e.GetPersonalizedRecommendations(context.Background(), "stranger", 3, nil)
	if err != nil {
		t.Fatalf("GetPersonalizedRecommendations() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("unknown user should get an empty list, got %d results", len(recs))
	}
}

func TestEnginePersonalizedRespectsFilters(t *testing.T) {
	e := trainedTestEngine(t)

	recs, err := e.GetPersonalizedRecommendations(context.Background(), "u1", 5, &Filters{
		Categories: []string{"music"},
	})
	if err != nil {
		t.Fatalf("GetPersonalizedRecommendations() error = %v", err)
	}
	for _, r := range recs {
		if r.Event.ID == "E3" {
			t.Error("sports event passed a music-only category filter")
		}
	}
}

func TestEngineInvalidFilterRejectedBeforeScoring(t *testing.T) {
	e := trainedTestEngine(t)

	bad := &Filters{MinPrice: floatPtr(100), MaxPrice: floatPtr(10)}
	if _, err := e.GetPersonalizedRecommendations(context.Background(), "u1", 3, bad); !IsInvalidFilter(err) {
		t.Errorf("personalized with bad filter: error = %v, want InvalidFilterError", err)
	}
	if _, err := e.GetColdStartRecommendations(context.Background(), 3, bad); !IsInvalidFilter(err) {
		t.Errorf("cold start with bad filter: error = %v, want InvalidFilterError", err)
	}
}

func TestEngineColdStartOrdering(t *testing.T) {
	e := trainedTestEngine(t)

	recs, err := e.GetColdStartRecommendations(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("GetColdStartRecommendations() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("GetColdStartRecommendations() returned %d results, want 3", len(recs))
	}

	// E1 has a purchase (weight 5), E2 a view + click (3), E3 a
	// wishlist (3). E2 and E3 tie on popularity; the later event date
	// breaks the tie in E3's favor.
	wantOrder := []string{"E1", "E3", "E2"}
	for i, want := range wantOrder {
		if recs[i].Event.ID != want {
			t.Fatalf("cold start order = [%s %s %s], want %v",
				recs[0].Event.ID, recs[1].Event.ID, recs[2].Event.ID, wantOrder)
		}
	}
}

func TestEngineColdStartNoInteractions(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadData(nil, fixtureEvents(), nil); err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if err := e.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	recs, err := e.GetColdStartRecommendations(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("GetColdStartRecommendations() error = %v", err)
	}

	// With zero interaction volume the order falls back to descending
	// event date.
	wantOrder := []string{"E3", "E2", "E1"}
	for i, want := range wantOrder {
		if recs[i].Event.ID != want {
			t.Fatalf("no-interaction cold start order = [%s %s %s], want %v",
				recs[0].Event.ID, recs[1].Event.ID, recs[2].Event.ID, wantOrder)
		}
	}
}

func TestEngineColdStartFilters(t *testing.T) {
	e := trainedTestEngine(t)

	recs, err := e.GetColdStartRecommendations(context.Background(), 5, &Filters{
		Categories: []string{"music"},
	})
	if err != nil {
		t.Fatalf("GetColdStartRecommendations() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("music filter should keep 2 events, got %d", len(recs))
	}
	for _, r := range recs {
		if r.Event.ID == "E3" {
			t.Error("sports event passed a music-only category filter")
		}
	}
}

func TestEngineDefaultCounts(t *testing.T) {
	e := trainedTestEngine(t)

	// Non-positive n falls back to the configured defaults; the
	// fixture is smaller than both, so everything comes back.
	recs, err := e.GetColdStartRecommendations(context.Background(), 0, nil)
	if err != nil {
		t.Fatalf("GetColdStartRecommendations() error = %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("default count should return all 3 fixture events, got %d", len(recs))
	}

	recs, err = e.GetColdStartRecommendations(context.Background(), 2, nil)
	if err != nil {
		t.Fatalf("GetColdStartRecommendations() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("explicit n=2 should truncate to 2, got %d", len(recs))
	}
}

func TestEngineSimilarEvents(t *testing.T) {
	e := trainedTestEngine(t)

	recs, err := e.SimilarEvents(context.Background(), "E1", 2)
	if err != nil {
		t.Fatalf("SimilarEvents() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("SimilarEvents() returned %d results, want 2", len(recs))
	}
	if recs[0].Event.ID != "E2" {
		t.Errorf("the other music event should be most similar to E1, got %q", recs[0].Event.ID)
	}
	for _, r := range recs {
		if r.Event.ID == "E1" {
			t.Error("SimilarEvents() included the query event itself")
		}
	}
}

func TestEngineSimilarEventsUnknown(t *testing.T) {
	e := trainedTestEngine(t)

	_, err := e.SimilarEvents(context.Background(), "E404", 5)
	if !IsNotFound(err) {
		t.Fatalf("SimilarEvents() error = %v, want NotFoundError", err)
	}
}

func TestEngineDeterministicAcrossInstances(t *testing.T) {
	a := trainedTestEngine(t)
	b := trainedTestEngine(t)

	for _, user := range []string{"u1", "u2"} {
		ra, err := a.GetPersonalizedRecommendations(context.Background(), user, 3, nil)
		if err != nil {
			t.Fatalf("engine a: %v", err)
		}
		rb, err := b.GetPersonalizedRecommendations(context.Background(), user, 3, nil)
		if err != nil {
			t.Fatalf("engine b: %v", err)
		}
		if len(ra) != len(rb) {
			t.Fatalf("user %s: result lengths differ: %d vs %d", user, len(ra), len(rb))
		}
		for i := range ra {
			if ra[i].Event.ID != rb[i].Event.ID || ra[i].Score != rb[i].Score {
				t.Errorf("user %s: rank %d differs: %s@%g vs %s@%g",
					user, i, ra[i].Event.ID, ra[i].Score, rb[i].Event.ID, rb[i].Score)
			}
		}
	}
}

func TestEngineLifecycleState(t *testing.T) {
	e := newTestEngine(t)
	if got := e.State(); got != StateUninitialized {
		t.Errorf("fresh engine State() = %v, want %v", got, StateUninitialized)
	}

	if err := e.LoadData(fixtureInteractions(), fixtureEvents(), nil); err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if got := e.State(); got != StateInitialized {
		t.Errorf("loaded engine State() = %v, want %v", got, StateInitialized)
	}

	if err := e.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if got := e.State(); got != StateReady {
		t.Errorf("trained engine State() = %v, want %v", got, StateReady)
	}

	st := e.Status()
	if !st.Trained || st.EventCount != 3 || st.UserCount != 2 || st.InteractionCount != 4 {
		t.Errorf("Status() = %+v, want trained with 3 events, 2 users, 4 interactions", st)
	}
	if e.LastTrainingTime().IsZero() {
		t.Error("LastTrainingTime() is zero after training")
	}
}

func TestEngineTrainCancellation(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadData(fixtureInteractions(), fixtureEvents(), nil); err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.Train(ctx); err == nil {
		t.Fatal("Train() with canceled context should fail")
	}
	if e.Trained() {
		t.Error("canceled training must not install a model")
	}
}
