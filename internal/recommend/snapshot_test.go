// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSaveModelNotReady(t *testing.T) {
	e := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "model.snapshot")

	if err := e.SaveModel(path); !errors.Is(err, ErrNotReady) {
		t.Fatalf("SaveModel() error = %v, want ErrNotReady", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("SaveModel() on untrained engine should not create a file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := trainedTestEngine(t)
	path := filepath.Join(t.TempDir(), "model.snapshot")

	if err := src.SaveModel(path); err != nil {
		t.Fatalf("SaveModel() error = %v", err)
	}

	dst := newTestEngine(t)
	if err := dst.LoadModel(path); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}

	if !dst.Trained() {
		t.Fatal("restored engine should be trained")
	}
	if dst.State() != StateReady {
		t.Errorf("restored engine State() = %v, want %v", dst.State(), StateReady)
	}
	if got, want := dst.EventCount(), src.EventCount(); got != want {
		t.Errorf("restored EventCount() = %d, want %d", got, want)
	}
	if !dst.LastTrainingTime().Equal(src.LastTrainingTime()) {
		t.Errorf("restored LastTrainingTime() = %v, want %v",
			dst.LastTrainingTime(), src.LastTrainingTime())
	}

	// A restored model must rank identically to the one that saved it.
	ctx := context.Background()
	for _, user := range []string{"u1", "u2", "stranger"} {
		want, err := src.GetPersonalizedRecommendations(ctx, user, 3, nil)
		if err != nil {
			t.Fatalf("source engine: %v", err)
		}
		got, err := dst.GetPersonalizedRecommendations(ctx, user, 3, nil)
		if err != nil {
			t.Fatalf("restored engine: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("user %s: restored produced %d results, want %d", user, len(got), len(want))
		}
		for i := range want {
			if got[i].Event.ID != want[i].Event.ID || got[i].Score != want[i].Score {
				t.Errorf("user %s rank %d: restored %s@%g, want %s@%g",
					user, i, got[i].Event.ID, got[i].Score, want[i].Event.ID, want[i].Score)
			}
		}
	}

	wantSim, err := src.SimilarEvents(ctx, "E1", 2)
	if err != nil {
		t.Fatalf("source SimilarEvents(): %v", err)
	}
	gotSim, err := dst.SimilarEvents(ctx, "E1", 2)
	if err != nil {
		t.Fatalf("restored SimilarEvents(): %v", err)
	}
	for i := range wantSim {
		if gotSim[i].Event.ID != wantSim[i].Event.ID || gotSim[i].Score != wantSim[i].Score {
			t.Errorf("similar rank %d: restored %s@%g, want %s@%g",
				i, gotSim[i].Event.ID, gotSim[i].Score, wantSim[i].Event.ID, wantSim[i].Score)
		}
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	e := newTestEngine(t)
	err := e.LoadModel(filepath.Join(t.TempDir(), "nope.snapshot"))
	if !IsPersistence(err) {
		t.Fatalf("LoadModel() error = %v, want PersistenceError", err)
	}
	if e.Trained() {
		t.Error("failed load must leave the engine untrained")
	}
}

func TestLoadModelCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.snapshot")
	if err := os.WriteFile(path, []byte("not a snapshot"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e := newTestEngine(t)
	if err := e.LoadModel(path); !IsPersistence(err) {
		t.Fatalf("LoadModel() error = %v, want PersistenceError", err)
	}
	if e.Trained() {
		t.Error("corrupt load must leave the engine untrained")
	}
}

func TestLoadModelCorruptionKeepsPriorState(t *testing.T) {
	e := trainedTestEngine(t)
	path := filepath.Join(t.TempDir(), "garbage.snapshot")
	if err := os.WriteFile(path, []byte{0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := e.LoadModel(path); !IsPersistence(err) {
		t.Fatalf("LoadModel() error = %v, want PersistenceError", err)
	}

	// The previously trained model still serves.
	recs, err := e.GetColdStartRecommendations(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("GetColdStartRecommendations() after failed load: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("prior model should still serve all 3 events, got %d", len(recs))
	}
}

func TestSaveModelOverwritesAtomically(t *testing.T) {
	e := trainedTestEngine(t)
	path := filepath.Join(t.TempDir(), "model.snapshot")

	if err := e.SaveModel(path); err != nil {
		t.Fatalf("first SaveModel() error = %v", err)
	}
	if err := e.SaveModel(path); err != nil {
		t.Fatalf("second SaveModel() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}

	dst, err := NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if err := dst.LoadModel(path); err != nil {
		t.Fatalf("LoadModel() after overwrite: %v", err)
	}
}

func TestSnapshotPreservesEventAttributes(t *testing.T) {
	e := newTestEngine(t)
	events := fixtureEvents()
	events[0].Attributes = map[string]any{
		"venue":    "Mercury Lounge",
		"capacity": 250,
		"all_ages": false,
	}
	if err := e.LoadData(fixtureInteractions(), events, nil); err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if err := e.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "model.snapshot")
	if err := e.SaveModel(path); err != nil {
		t.Fatalf("SaveModel() error = %v", err)
	}

	dst := newTestEngine(t)
	if err := dst.LoadModel(path); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}

	recs, err := dst.GetColdStartRecommendations(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("GetColdStartRecommendations() error = %v", err)
	}
	for _, r := range recs {
		if r.Event.ID == "E1" {
			if r.Event.Attributes["venue"] != "Mercury Lounge" {
				t.Errorf("restored attributes = %v, want venue preserved", r.Event.Attributes)
			}
			return
		}
	}
	t.Fatal("E1 missing from restored results")
}
