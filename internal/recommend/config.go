// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import "fmt"

// Config controls engine behavior. DefaultConfig returns working
// defaults; Validate must pass before the config is used.
type Config struct {
	// DefaultCount is the result count used when a caller passes a
	// non-positive n to the recommendation operations.
	DefaultCount int `koanf:"default_count"`

	// DefaultSimilarCount is the result count used when a caller passes
	// a non-positive n to SimilarEvents.
	DefaultSimilarCount int `koanf:"default_similar_count"`

	// TrendingWindowDays bounds the interaction recency window for the
	// cold-start popularity ranking. Zero or negative disables the
	// window (all interactions count).
	TrendingWindowDays float64 `koanf:"trending_window_days"`

	// Weights are the per-interaction-type weights. They must be
	// strictly monotonic with engagement strength:
	// purchase > wishlist > click > view > 0.
	Weights InteractionWeights `koanf:"interaction_weights"`

	// Similarity configures the content similarity metric.
	Similarity SimilarityConfig `koanf:"similarity"`

	// Affinity configures personalization scoring.
	Affinity AffinityConfig `koanf:"affinity"`
}

// InteractionWeights holds per-interaction-type weights.
type InteractionWeights struct {
	View     float64 `koanf:"view"`
	Click    float64 `koanf:"click"`
	Wishlist float64 `koanf:"wishlist"`
	Purchase float64 `koanf:"purchase"`
}

// For returns the weight for an interaction type.
func (w InteractionWeights) For(t InteractionType) float64 {
	switch t {
	case InteractionView:
		return w.View
	case InteractionClick:
		return w.Click
	case InteractionWishlist:
		return w.Wishlist
	case InteractionPurchase:
		return w.Purchase
	default:
		return 0
	}
}

// SimilarityConfig configures the content similarity metric:
//
//	sim(a, b) = wCat * jaccard(categories_a, categories_b) +
//	            wPrice * exp(-|price_a - price_b| / scale) +
//	            wLoc * locationMatch(a, b)
//
// Weights are normalized to sum to 1 at build time, keeping scores in
// [0, 1].
type SimilarityConfig struct {
	// CategoryWeight weights categorical overlap (Jaccard).
	CategoryWeight float64 `koanf:"category_weight"`

	// PriceWeight weights price proximity.
	PriceWeight float64 `koanf:"price_weight"`

	// LocationWeight weights exact (normalized) location match.
	LocationWeight float64 `koanf:"location_weight"`

	// PriceScale is the price-distance kernel scale. Zero or negative
	// means derive it from the mean event price at build time.
	PriceScale float64 `koanf:"price_scale"`
}

// AffinityConfig configures personalization scoring.
type AffinityConfig struct {
	// RecencyHalfLifeDays is the half-life for the exponential recency
	// decay of interactions, measured against the newest interaction in
	// the training set. Zero or negative disables decay.
	RecencyHalfLifeDays float64 `koanf:"recency_half_life_days"`

	// DirectWeight weights the user's own aggregated affinity.
	DirectWeight float64 `koanf:"direct_weight"`

	// CollabWeight weights the item co-occurrence collaborative spread.
	CollabWeight float64 `koanf:"collab_weight"`

	// ContentWeight weights the content-similarity spread.
	ContentWeight float64 `koanf:"content_weight"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultCount:        10,
		DefaultSimilarCount: 5,
		TrendingWindowDays:  7,
		Weights: InteractionWeights{
			View:     1.0,
			Click:    2.0,
			Wishlist: 3.0,
			Purchase: 5.0,
		},
		Similarity: SimilarityConfig{
			CategoryWeight: 0.5,
			PriceWeight:    0.25,
			LocationWeight: 0.25,
		},
		Affinity: AffinityConfig{
			RecencyHalfLifeDays: 30,
			DirectWeight:        1.0,
			CollabWeight:        0.5,
			ContentWeight:       0.3,
		},
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.DefaultCount <= 0 {
		return fmt.Errorf("default_count must be positive, got %d", c.DefaultCount)
	}
	if c.DefaultSimilarCount <= 0 {
		return fmt.Errorf("default_similar_count must be positive, got %d", c.DefaultSimilarCount)
	}

	w := c.Weights
	if w.View <= 0 {
		return fmt.Errorf("interaction weight for view must be positive, got %g", w.View)
	}
	if !(w.Purchase > w.Wishlist && w.Wishlist > w.Click && w.Click > w.View) {
		return fmt.Errorf("interaction weights must satisfy purchase > wishlist > click > view, got purchase=%g wishlist=%g click=%g view=%g",
			w.Purchase, w.Wishlist, w.Click, w.View)
	}

	s := c.Similarity
	if s.CategoryWeight < 0 || s.PriceWeight < 0 || s.LocationWeight < 0 {
		return fmt.Errorf("similarity weights must be non-negative")
	}
	if s.CategoryWeight+s.PriceWeight+s.LocationWeight == 0 {
		return fmt.Errorf("at least one similarity weight must be positive")
	}

	a := c.Affinity
	if a.DirectWeight < 0 || a.CollabWeight < 0 || a.ContentWeight < 0 {
		return fmt.Errorf("affinity blend weights must be non-negative")
	}
	if a.DirectWeight+a.CollabWeight+a.ContentWeight == 0 {
		return fmt.Errorf("at least one affinity blend weight must be positive")
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
