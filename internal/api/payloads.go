// Tessero - Event Ticketing Recommendation Service
// Copyright 2026 Wesley (Wesley3141)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Wesley3141/tessero

package api

import (
	"fmt"
	"time"

	"github.com/Wesley3141/tessero/internal/recommend"
)

// trainRequest is the POST /api/v1/train payload. Field names follow
// the data-export format of the ticketing platform.
type trainRequest struct {
	Interactions []interactionPayload `json:"user_event_data" validate:"required,min=1,dive"`
	Events       []eventPayload       `json:"event_features_data" validate:"required,min=1,dive"`
	Profiles     []profilePayload     `json:"user_profiles_data,omitempty" validate:"omitempty,dive"`
}

// interactionPayload is one user-event interaction row.
type interactionPayload struct {
	UserID  string   `json:"user_id" validate:"required"`
	EventID string   `json:"event_id" validate:"required"`
	Type    string   `json:"interaction_type" validate:"required,oneof=view click wishlist purchase"`
	Score   *float64 `json:"score,omitempty" validate:"omitempty,gte=0"`

	// Timestamp accepts RFC 3339 or YYYY-MM-DD; empty is legal.
	Timestamp string `json:"timestamp,omitempty"`
}

// eventPayload is one event feature row. Category may be given as a
// single string or a list.
type eventPayload struct {
	EventID    string         `json:"event_id" validate:"required"`
	Name       string         `json:"name,omitempty"`
	Category   string         `json:"category,omitempty"`
	Categories []string       `json:"categories,omitempty"`
	Price      float64        `json:"price" validate:"gte=0"`
	Location   string         `json:"location,omitempty"`
	Date       string         `json:"date,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// profilePayload is one user profile row.
type profilePayload struct {
	UserID     string         `json:"user_id" validate:"required"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// interactionRecord is the POST /api/v1/event-interactions payload.
type interactionRecord struct {
	UserID  string   `json:"user_id" validate:"required"`
	EventID string   `json:"event_id" validate:"required"`
	Type    string   `json:"interaction_type" validate:"required,oneof=view click wishlist purchase"`
	Score   *float64 `json:"score,omitempty" validate:"omitempty,gte=0"`
}

// toDomain converts the train payload to engine types, parsing dates
// and timestamps at the boundary.
func (tr *trainRequest) toDomain() ([]recommend.Interaction, []recommend.Event, []recommend.UserProfile, error) {
	interactions := make([]recommend.Interaction, 0, len(tr.Interactions))
	for i, p := range tr.Interactions {
		typ, err := recommend.ParseInteractionType(p.Type)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("user_event_data[%d]: %w", i, err)
		}

		score := 1.0
		if p.Score != nil {
			score = *p.Score
		}

		var ts time.Time
		if p.Timestamp != "" {
			ts, err = parseTimestamp(p.Timestamp)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("user_event_data[%d]: %w", i, err)
			}
		}

		interactions = append(interactions, recommend.Interaction{
			UserID:    p.UserID,
			EventID:   p.EventID,
			Type:      typ,
			Score:     score,
			Timestamp: ts,
		})
	}

	events := make([]recommend.Event, 0, len(tr.Events))
	for i, p := range tr.Events {
		categories := p.Categories
		if len(categories) == 0 && p.Category != "" {
			categories = []string{p.Category}
		}

		var date time.Time
		if p.Date != "" {
			var err error
			date, err = time.Parse(dateLayout, p.Date)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("event_features_data[%d]: date %q is not a YYYY-MM-DD date", i, p.Date)
			}
		}

		events = append(events, recommend.Event{
			ID:         p.EventID,
			Name:       p.Name,
			Categories: categories,
			Price:      p.Price,
			Location:   p.Location,
			Date:       date,
			Attributes: p.Attributes,
		})
	}

	profiles := make([]recommend.UserProfile, 0, len(tr.Profiles))
	for _, p := range tr.Profiles {
		profiles = append(profiles, recommend.UserProfile{
			UserID:     p.UserID,
			Attributes: p.Attributes,
		})
	}

	return interactions, events, profiles, nil
}

// parseTimestamp accepts RFC 3339 timestamps and plain dates.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("timestamp %q is neither RFC 3339 nor YYYY-MM-DD", s)
}
