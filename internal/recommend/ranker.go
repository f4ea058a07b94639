// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"sort"
	"time"
)

// trainedState is the immutable output of one training run: the feature
// store snapshot, the similarity index, the affinity model, and the
// training timestamp. It is built off to the side and swapped into the
// engine atomically, and never mutated afterwards.
type trainedState struct {
	store     *Store
	sim       *SimilarityIndex
	affinity  *AffinityModel
	trainedAt time.Time
}

// candidates returns the events passing the filters, in canonical
// ascending ID order. An empty result is not an error.
func (ts *trainedState) candidates(f *Filters) []*Event {
	out := make([]*Event, 0, len(ts.store.EventIDs()))
	for _, id := range ts.store.EventIDs() {
		ev, ok := ts.store.Event(id)
		if !ok {
			continue
		}
		if f.Matches(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// personalized ranks the filtered candidates by the user's affinity
// scores. Unknown users yield an empty list so the caller can choose to
// fall back to cold start.
func (ts *trainedState) personalized(userID string, n int, f *Filters) []Recommendation {
	events := ts.candidates(f)

	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}

	scores, known := ts.affinity.ScoreForUser(userID, ids)
	if !known {
		return []Recommendation{}
	}

	return rankByScore(events, func(ev *Event) float64 { return scores[ev.ID] }, n)
}

// coldStart ranks the filtered candidates by a popularity proxy:
// type-weighted interaction volume within the recency window. With no
// interaction volume the order falls back to descending event date then
// ascending event ID, so the result is deterministic for any state.
func (ts *trainedState) coldStart(n int, f *Filters, windowDays float64, weights InteractionWeights) []Recommendation {
	events := ts.candidates(f)

	popularity := ts.popularityScores(windowDays, weights)

	sort.SliceStable(events, func(i, j int) bool {
		pi, pj := popularity[events[i].ID], popularity[events[j].ID]
		if pi != pj {
			return pi > pj
		}
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.After(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})

	if len(events) > n {
		events = events[:n]
	}

	recs := make([]Recommendation, len(events))
	for i, ev := range events {
		recs[i] = Recommendation{Event: *ev, Score: popularity[ev.ID]}
	}
	return recs
}

// popularityScores aggregates type-weighted interaction scores per
// event. The recency window is measured against the newest interaction
// in the snapshot, keeping the ranking stable across repeated calls.
func (ts *trainedState) popularityScores(windowDays float64, weights InteractionWeights) map[string]float64 {
	interactions := ts.store.Interactions()

	var newest time.Time
	for i := range interactions {
		if t := interactions[i].Timestamp; t.After(newest) {
			newest = t
		}
	}

	var cutoff time.Time
	if windowDays > 0 && !newest.IsZero() {
		cutoff = newest.Add(-time.Duration(windowDays * 24 * float64(time.Hour)))
	}

	popularity := make(map[string]float64)
	for i := range interactions {
		in := &interactions[i]
		if !cutoff.IsZero() && !in.Timestamp.IsZero() && in.Timestamp.Before(cutoff) {
			continue
		}
		popularity[in.EventID] += weights.For(in.Type) * in.Score
	}
	return popularity
}

// similarEvents joins the similarity index top-k back to full event
// features. Unknown event IDs fail with NotFoundError.
func (ts *trainedState) similarEvents(eventID string, n int) ([]Recommendation, error) {
	scored, err := ts.sim.SimilarTo(eventID, n)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(scored))
	for _, s := range scored {
		ev, ok := ts.store.Event(s.EventID)
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{Event: *ev, Score: s.Score})
	}
	return recs, nil
}

// rankByScore sorts events by descending score with ties broken by
// ascending event ID, then truncates to n.
func rankByScore(events []*Event, score func(*Event) float64, n int) []Recommendation {
	ranked := make([]*Event, len(events))
	copy(ranked, events)

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := score(ranked[i]), score(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	recs := make([]Recommendation, len(ranked))
	for i, ev := range ranked {
		recs[i] = Recommendation{Event: *ev, Score: score(ev)}
	}
	return recs
}
