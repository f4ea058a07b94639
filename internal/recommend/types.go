// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package recommend

import (
	"fmt"
	"strings"
	"time"
)

// InteractionType classifies user-event interactions by engagement strength.
type InteractionType int

const (
	// InteractionView indicates the user viewed the event page.
	InteractionView InteractionType = iota
	// InteractionClick indicates the user clicked through to event details.
	InteractionClick
	// InteractionWishlist indicates the user wishlisted the event.
	InteractionWishlist
	// InteractionPurchase indicates the user purchased a ticket.
	InteractionPurchase
)

// String returns a human-readable name for the interaction type.
func (t InteractionType) String() string {
	switch t {
	case InteractionView:
		return "view"
	case InteractionClick:
		return "click"
	case InteractionWishlist:
		return "wishlist"
	case InteractionPurchase:
		return "purchase"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	return t >= InteractionView && t <= InteractionPurchase
}

// ParseInteractionType parses the wire name of an interaction type,
// case-insensitively.
func ParseInteractionType(s string) (InteractionType, error) {
	switch strings.ToLower(s) {
	case "view":
		return InteractionView, nil
	case "click":
		return InteractionClick, nil
	case "wishlist":
		return InteractionWishlist, nil
	case "purchase":
		return InteractionPurchase, nil
	default:
		return 0, fmt.Errorf("unknown interaction type %q", s)
	}
}

// Interaction represents a single user-event interaction. Multiple
// interactions per (user, event) pair are expected; the affinity model
// aggregates them.
type Interaction struct {
	// UserID identifies the user.
	UserID string `json:"user_id"`

	// EventID identifies the event.
	EventID string `json:"event_id"`

	// Type classifies the interaction.
	Type InteractionType `json:"interaction_type"`

	// Score is a non-negative interaction strength (default 1.0).
	Score float64 `json:"score"`

	// Timestamp is when the interaction occurred. A zero timestamp is
	// legal and receives no recency decay.
	Timestamp time.Time `json:"timestamp"`
}

// Event represents an event with the features used for content
// similarity and filtering.
type Event struct {
	// ID is the unique event identifier.
	ID string `json:"event_id"`

	// Name is the display name.
	Name string `json:"name,omitempty"`

	// Categories are the event's category labels (music, sports, ...).
	Categories []string `json:"categories,omitempty"`

	// Price is the ticket price, non-negative.
	Price float64 `json:"price"`

	// Location is the event location.
	Location string `json:"location,omitempty"`

	// Date is the calendar date of the event.
	Date time.Time `json:"date"`

	// Attributes carries additional attributes opaquely.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// UserProfile carries optional per-user attributes. Absence is legal;
// personalization then degrades to interaction-only signal.
type UserProfile struct {
	// UserID identifies the user.
	UserID string `json:"user_id"`

	// Attributes carries profile attributes opaquely.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Recommendation is a single ranked result: the full event features
// augmented with the computed score. Price stays numeric and Date stays
// a calendar value; string formatting is an API-layer concern.
type Recommendation struct {
	Event Event `json:"event"`

	// Score is the ranking score. Affinity scores have no fixed range;
	// similarity scores are in [0, 1].
	Score float64 `json:"score"`
}

// State is the engine lifecycle state.
type State int

const (
	// StateUninitialized means no data has been loaded.
	StateUninitialized State = iota
	// StateInitialized means data is loaded but no model is trained.
	StateInitialized
	// StateReady means a trained model is serving.
	StateReady
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Status is a read-only snapshot of the engine state for the API layer.
type Status struct {
	// State is the lifecycle state.
	State string `json:"state"`

	// Trained reports whether a trained model is serving.
	Trained bool `json:"trained"`

	// LastTrainingTime is when the serving model was trained. Zero if
	// never trained.
	LastTrainingTime time.Time `json:"last_training_time,omitempty"`

	// EventCount is the number of events known to the serving model.
	EventCount int `json:"event_count"`

	// UserCount is the number of users known to the serving model.
	UserCount int `json:"user_count"`

	// InteractionCount is the number of interactions the serving model
	// was trained on.
	InteractionCount int `json:"interaction_count"`
}
