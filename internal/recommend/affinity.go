// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"context"
	"math"
	"time"
)

// AffinityModel maps users to per-event affinity scores. The direct
// signal aggregates a user's own interactions, weighted by interaction
// type and recency. Events the user has not touched are reached through
// two spreads: item co-occurrence across users (collaborative) and
// content similarity. Scores support descending-sort ranking; they have
// no fixed range.
type AffinityModel struct {
	cfg     AffinityConfig
	weights InteractionWeights

	// direct maps user ID -> event ID -> aggregated affinity.
	direct map[string]map[string]float64

	// cooc maps event ID -> event ID -> co-occurrence cosine over the
	// sets of users who interacted with each.
	cooc map[string]map[string]float64

	// sim is attached after build; it may be nil, which disables the
	// content spread.
	sim *SimilarityIndex
}

// BuildAffinityModel aggregates interactions into an affinity model.
// Recency decay is measured against the newest interaction timestamp in
// the training set rather than the wall clock, so a fixed dataset
// always trains to the same model.
func BuildAffinityModel(ctx context.Context, interactions []Interaction, weights InteractionWeights, cfg AffinityConfig) (*AffinityModel, error) {
	m := &AffinityModel{
		cfg:     cfg,
		weights: weights,
		direct:  make(map[string]map[string]float64),
		cooc:    make(map[string]map[string]float64),
	}

	var newest time.Time
	for i := range interactions {
		if ts := interactions[i].Timestamp; ts.After(newest) {
			newest = ts
		}
	}

	// eventUsers collects the distinct users per event for the
	// co-occurrence pass.
	eventUsers := make(map[string]map[string]struct{})

	for i := range interactions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in := &interactions[i]

		weight := m.weights.For(in.Type) * in.Score
		weight *= recencyDecay(in.Timestamp, newest, cfg.RecencyHalfLifeDays)

		prefs, ok := m.direct[in.UserID]
		if !ok {
			prefs = make(map[string]float64)
			m.direct[in.UserID] = prefs
		}
		prefs[in.EventID] += weight

		users, ok := eventUsers[in.EventID]
		if !ok {
			users = make(map[string]struct{})
			eventUsers[in.EventID] = users
		}
		users[in.UserID] = struct{}{}
	}

	m.buildCoOccurrence(eventUsers)
	return m, nil
}

// recencyDecay returns the exponential decay factor for an interaction.
// Zero timestamps and a non-positive half-life decay to 1.
func recencyDecay(ts, newest time.Time, halfLifeDays float64) float64 {
	if halfLifeDays <= 0 || ts.IsZero() || newest.IsZero() {
		return 1
	}
	ageDays := newest.Sub(ts).Hours() / 24
	if ageDays <= 0 {
		return 1
	}
	return math.Exp(-math.Ln2 * ageDays / halfLifeDays)
}

// buildCoOccurrence fills the item co-occurrence cosine map from the
// per-event user sets.
func (m *AffinityModel) buildCoOccurrence(eventUsers map[string]map[string]struct{}) {
	for a, usersA := range eventUsers {
		for b, usersB := range eventUsers {
			if a >= b {
				continue
			}

			shared := 0
			// Iterate the smaller set.
			small, large := usersA, usersB
			if len(large) < len(small) {
				small, large = large, small
			}
			for u := range small {
				if _, ok := large[u]; ok {
					shared++
				}
			}
			if shared == 0 {
				continue
			}

			cos := float64(shared) / math.Sqrt(float64(len(usersA))*float64(len(usersB)))
			m.addCoOccurrence(a, b, cos)
			m.addCoOccurrence(b, a, cos)
		}
	}
}

func (m *AffinityModel) addCoOccurrence(a, b string, cos float64) {
	neighbors, ok := m.cooc[a]
	if !ok {
		neighbors = make(map[string]float64)
		m.cooc[a] = neighbors
	}
	neighbors[b] = cos
}

// AttachSimilarity wires the content similarity index into the model,
// enabling the content spread. Called after a parallel build and after
// snapshot restore.
func (m *AffinityModel) AttachSimilarity(si *SimilarityIndex) {
	m.sim = si
}

// KnowsUser reports whether the model holds any signal for the user.
func (m *AffinityModel) KnowsUser(userID string) bool {
	_, ok := m.direct[userID]
	return ok
}

// ScoreForUser returns an affinity score per candidate event. For
// unknown users it returns an empty map and false, signaling the caller
// that no personalization is available; that is not an error at this
// layer.
func (m *AffinityModel) ScoreForUser(userID string, candidates []string) (map[string]float64, bool) {
	prefs, ok := m.direct[userID]
	if !ok {
		return map[string]float64{}, false
	}

	var mass float64
	for _, v := range prefs {
		mass += v
	}

	scores := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		score := m.cfg.DirectWeight * prefs[c]

		if mass > 0 {
			var collab, content float64
			for e, v := range prefs {
				if e == c {
					continue
				}
				if cos, ok := m.cooc[e][c]; ok {
					collab += v * cos
				}
				if m.sim != nil {
					if sim, ok := m.sim.Similarity(e, c); ok {
						content += v * sim
					}
				}
			}
			score += m.cfg.CollabWeight * (collab / mass)
			score += m.cfg.ContentWeight * (content / mass)
		}

		scores[c] = score
	}

	return scores, true
}
