// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"context"
	"math"
	"sort"
	"strings"
)

// SimilarityIndex holds the dense symmetric event-by-event content
// similarity matrix over the canonical event ordering fixed at build
// time. Entries are in [0, 1]; the diagonal is ignored.
type SimilarityIndex struct {
	eventIDs []string
	index    map[string]int
	matrix   [][]float64
}

// EventScore pairs an event ID with a similarity score.
type EventScore struct {
	EventID string
	Score   float64
}

// BuildSimilarityIndex computes pairwise content similarity for all
// events. The metric is a weighted combination of categorical overlap
// (Jaccard), price proximity (exponential distance kernel), and
// normalized location match; weights are normalized so scores stay in
// [0, 1]. Cost is quadratic in the event count.
func BuildSimilarityIndex(ctx context.Context, events []Event, cfg SimilarityConfig) (*SimilarityIndex, error) {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	n := len(ordered)
	si := &SimilarityIndex{
		eventIDs: make([]string, n),
		index:    make(map[string]int, n),
		matrix:   make([][]float64, n),
	}
	for i := range ordered {
		si.eventIDs[i] = ordered[i].ID
		si.index[ordered[i].ID] = i
		si.matrix[i] = make([]float64, n)
	}

	wCat, wPrice, wLoc := normalizeSimilarityWeights(cfg)
	scale := cfg.PriceScale
	if scale <= 0 {
		scale = meanPrice(ordered)
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			sim := eventSimilarity(&ordered[i], &ordered[j], wCat, wPrice, wLoc, scale)
			si.matrix[i][j] = sim
			si.matrix[j][i] = sim
		}
	}

	return si, nil
}

// normalizeSimilarityWeights normalizes the metric weights to sum to 1.
func normalizeSimilarityWeights(cfg SimilarityConfig) (wCat, wPrice, wLoc float64) {
	total := cfg.CategoryWeight + cfg.PriceWeight + cfg.LocationWeight
	if total <= 0 {
		return 1, 0, 0
	}
	return cfg.CategoryWeight / total, cfg.PriceWeight / total, cfg.LocationWeight / total
}

// meanPrice returns the mean event price, defaulting to 1 to keep the
// price kernel well-defined for empty or zero-priced catalogs.
func meanPrice(events []Event) float64 {
	if len(events) == 0 {
		return 1
	}
	var sum float64
	for i := range events {
		sum += events[i].Price
	}
	mean := sum / float64(len(events))
	if mean <= 0 {
		return 1
	}
	return mean
}

// eventSimilarity computes the weighted content similarity of two events.
func eventSimilarity(a, b *Event, wCat, wPrice, wLoc, priceScale float64) float64 {
	var sim float64

	sim += wCat * jaccardSimilarity(a.Categories, b.Categories)
	sim += wPrice * math.Exp(-math.Abs(a.Price-b.Price)/priceScale)

	if a.Location != "" && normalizeLocation(a.Location) == normalizeLocation(b.Location) {
		sim += wLoc
	}

	return sim
}

// jaccardSimilarity computes Jaccard similarity between two label sets,
// case-insensitively.
func jaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[strings.ToLower(s)] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[strings.ToLower(s)] = struct{}{}
	}

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// Contains reports whether an event is part of the trained ordering.
func (si *SimilarityIndex) Contains(eventID string) bool {
	_, ok := si.index[eventID]
	return ok
}

// Similarity returns the similarity between two events, or (0, false)
// if either is absent from the trained ordering.
func (si *SimilarityIndex) Similarity(a, b string) (float64, bool) {
	i, ok := si.index[a]
	if !ok {
		return 0, false
	}
	j, ok := si.index[b]
	if !ok {
		return 0, false
	}
	if i == j {
		return 0, true
	}
	return si.matrix[i][j], true
}

// SimilarTo returns the top-k events most similar to eventID, sorted by
// descending similarity with ties broken by ascending event ID. The
// event itself is excluded. Unknown event IDs fail with NotFoundError.
func (si *SimilarityIndex) SimilarTo(eventID string, k int) ([]EventScore, error) {
	idx, ok := si.index[eventID]
	if !ok {
		return nil, &NotFoundError{EventID: eventID}
	}
	if k <= 0 {
		return []EventScore{}, nil
	}

	scored := make([]EventScore, 0, len(si.eventIDs)-1)
	for j, id := range si.eventIDs {
		if j == idx {
			continue
		}
		scored = append(scored, EventScore{EventID: id, Score: si.matrix[idx][j]})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].EventID < scored[j].EventID
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// EventIDs returns the canonical event ordering of the index.
func (si *SimilarityIndex) EventIDs() []string {
	return si.eventIDs
}
